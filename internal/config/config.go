package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NoConfigFile tells Setup not to read any config file.
const NoConfigFile string = "none"

// Common holds the configuration shared by all dnode components.
var Common *CommonConfig

// Node holds the configuration of the node process under test.
var Node *NodeConfig

// Tail holds the configuration of the log tailer and event dispatcher.
var Tail *TailConfig

// Server holds the configuration of the HTTP wait API.
var Server *ServerConfig

// Used to initialize the configuration.
type initializer struct {
	Common *CommonConfig `yaml:"Common"`
	Node   *NodeConfig   `yaml:"Node"`
	Tail   *TailConfig   `yaml:"Tail"`
	Server *ServerConfig `yaml:"Server"`
}

func newInitializer() *initializer {
	return &initializer{
		Common: newDefaultCommonConfig(),
		Node:   newDefaultNodeConfig(),
		Tail:   newDefaultTailConfig(),
		Server: newDefaultServerConfig(),
	}
}

// Parse a given config file. YAML is used for .yaml and .yml files, JSON
// for everything else.
func (in *initializer) parseSpecificConfig(configFile string) error {
	fd, err := os.Open(configFile)
	if err != nil {
		return errors.Wrap(err, "unable to read config file")
	}
	defer fd.Close()

	cfgBytes, err := ioutil.ReadAll(fd)
	if err != nil {
		return errors.Wrapf(err, "unable to read config file %s", configFile)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(cfgBytes, in)
	default:
		err = json.Unmarshal(cfgBytes, in)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to parse config file %s", configFile)
	}

	return nil
}
