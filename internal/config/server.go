package config

// ServerConfig configures the HTTP wait API.
type ServerConfig struct {
	// Address the API listens on, e.g. "127.0.0.1:8080". Empty disables it.
	ListenAddress string `yaml:"ListenAddress"`
	// Max amount of waits served concurrently over HTTP.
	MaxConcurrentWaits int `yaml:"MaxConcurrentWaits"`
	// Timeout of a wait request which does not specify one.
	DefaultWaitTimeoutS int `yaml:"DefaultWaitTimeoutS"`
}

// Create a new default server configuration.
func newDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		MaxConcurrentWaits:  1000,
		DefaultWaitTimeoutS: 60,
	}
}

// Bounded returns a copy of c which serves at least one wait at a time.
func (c *ServerConfig) Bounded() *ServerConfig {
	bounded := *c
	if bounded.MaxConcurrentWaits <= 0 {
		bounded.MaxConcurrentWaits = 1
	}
	if bounded.DefaultWaitTimeoutS <= 0 {
		bounded.DefaultWaitTimeoutS = newDefaultServerConfig().DefaultWaitTimeoutS
	}
	return &bounded
}
