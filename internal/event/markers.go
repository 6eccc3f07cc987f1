package event

import (
	"fmt"
	"strings"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/regex"
)

// Markers are the node specific log fragments predicates match against.
type Markers struct {
	// Printed once when the node begins producing blocks.
	MiningBanner string
	// Contains a single %s, replaced by the lowercase hex transaction hash.
	SealedTemplate string
	// Matches the periodic liveness line.
	Heartbeat regex.Regex
}

// NewMarkers builds the markers from the node configuration.
func NewMarkers(cfg *config.NodeConfig) (Markers, error) {
	var m Markers

	if cfg.MiningBanner == "" {
		return m, fmt.Errorf("mining banner must not be empty")
	}
	if strings.Count(cfg.SealedTemplate, "%s") != 1 {
		return m, fmt.Errorf("sealed template '%s' must contain exactly one %%s",
			cfg.SealedTemplate)
	}
	if cfg.HeartbeatPattern == "" {
		return m, fmt.Errorf("heartbeat pattern must not be empty")
	}

	flag, err := regex.NewFlag(cfg.HeartbeatFlag)
	if err != nil {
		return m, err
	}
	heartbeat, err := regex.New(cfg.HeartbeatPattern, flag)
	if err != nil {
		return m, fmt.Errorf("invalid heartbeat pattern '%s': %v", cfg.HeartbeatPattern, err)
	}

	m.MiningBanner = cfg.MiningBanner
	m.SealedTemplate = cfg.SealedTemplate
	m.Heartbeat = heartbeat
	return m, nil
}

func (m Markers) sealed(h TxHash) string {
	return fmt.Sprintf(m.SealedTemplate, h.Hex())
}
