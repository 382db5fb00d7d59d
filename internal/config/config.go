package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/observability"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
	"github.com/devsilvver/corrida-das-gemas/logging"
)

// Run modes.
const (
	ModePvE      = "pve"
	ModeTraining = "training"
	ModeHost     = "host"
	ModeGuest    = "guest"
)

// Config is everything the server needs to run one match.
type Config struct {
	Mode               string               `yaml:"mode"`
	TickRate           int                  `yaml:"tickRate"`
	CommandCapacity    int                  `yaml:"commandCapacity"`
	StateIntervalTicks int                  `yaml:"stateIntervalTicks"`
	ListenAddr         string               `yaml:"listenAddr"`
	PeerURL            string               `yaml:"peerUrl"`
	Codec              string               `yaml:"codec"`
	Seed               int64                `yaml:"seed"`
	Deck               []string             `yaml:"deck"`
	CatalogPath        string               `yaml:"catalogPath"`
	HandshakeTimeout   time.Duration        `yaml:"handshakeTimeout"`
	Logging            logging.Config       `yaml:"logging"`
	Observability      observability.Config `yaml:"observability"`
}

// Default returns a PvE configuration with the built-in deck.
func Default() Config {
	return Config{
		Mode:               ModePvE,
		TickRate:           50,
		CommandCapacity:    256,
		StateIntervalTicks: 5,
		ListenAddr:         ":8080",
		PeerURL:            "ws://localhost:8080/peer",
		Codec:              proto.CodecJSON,
		Deck:               append([]string(nil), catalog.DefaultDeckIDs...),
		HandshakeTimeout:   30 * time.Second,
		Logging:            logging.DefaultConfig(),
	}
}

// Load overlays the YAML document at path onto the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return c.resolveSeverity()
}

func (c *Config) resolveSeverity() error {
	if c.Logging.SeverityName == "" {
		return nil
	}
	severity, ok := logging.ParseSeverity(c.Logging.SeverityName)
	if !ok {
		return fmt.Errorf("unknown log severity %q", c.Logging.SeverityName)
	}
	c.Logging.MinimumSeverity = severity
	return nil
}

// ApplyEnv applies GEMRUSH_* overrides read through getenv. Invalid values
// are logged and ignored.
func (c *Config) ApplyEnv(getenv func(string) string, logger telemetry.Logger) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	intVar := func(key string, dst *int) {
		raw := getenv(key)
		if raw == "" {
			return
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			logger.Printf("invalid %s=%q: must be a positive integer", key, raw)
			return
		}
		*dst = value
	}
	stringVar := func(key string, dst *string) {
		if raw := strings.TrimSpace(getenv(key)); raw != "" {
			*dst = raw
		}
	}
	listVar := func(key string, dst *[]string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*dst = items
	}

	stringVar("GEMRUSH_MODE", &c.Mode)
	intVar("GEMRUSH_TICK_RATE", &c.TickRate)
	intVar("GEMRUSH_STATE_INTERVAL_TICKS", &c.StateIntervalTicks)
	stringVar("GEMRUSH_LISTEN_ADDR", &c.ListenAddr)
	stringVar("GEMRUSH_PEER_URL", &c.PeerURL)
	stringVar("GEMRUSH_CODEC", &c.Codec)
	stringVar("GEMRUSH_CATALOG_PATH", &c.CatalogPath)
	listVar("GEMRUSH_DECK", &c.Deck)
	listVar("GEMRUSH_LOG_SINKS", &c.Logging.EnabledSinks)
	stringVar("GEMRUSH_LOG_JSON_PATH", &c.Logging.JSON.FilePath)

	if raw := getenv("GEMRUSH_SEED"); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.Seed = value
		} else {
			logger.Printf("invalid GEMRUSH_SEED=%q: %v", raw, err)
		}
	}
	if raw := getenv("GEMRUSH_ENABLE_PPROF"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			c.Observability.EnablePprof = value
		} else {
			logger.Printf("invalid GEMRUSH_ENABLE_PPROF=%q: %v", raw, err)
		}
	}
	if raw := getenv("GEMRUSH_LOG_LEVEL"); raw != "" {
		if severity, ok := logging.ParseSeverity(raw); ok {
			c.Logging.MinimumSeverity = severity
			c.Logging.SeverityName = raw
		} else {
			logger.Printf("invalid GEMRUSH_LOG_LEVEL=%q", raw)
		}
	}
}

// Validate reports the first setting the server cannot run with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModePvE, ModeTraining, ModeHost, ModeGuest:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.StateIntervalTicks <= 0 {
		return fmt.Errorf("state interval must be positive, got %d", c.StateIntervalTicks)
	}
	if _, err := proto.NewCodec(c.Codec); err != nil {
		return err
	}
	if len(c.Deck) != catalog.DeckSize {
		return fmt.Errorf("deck must list %d characters, got %d", catalog.DeckSize, len(c.Deck))
	}
	for _, sink := range c.Logging.EnabledSinks {
		switch sink {
		case logging.SinkConsole, logging.SinkJSON, logging.SinkZap, logging.SinkMemory:
		default:
			return fmt.Errorf("unknown log sink %q", sink)
		}
	}
	if c.Mode == ModeGuest && c.PeerURL == "" {
		return errors.New("guest mode requires a peer url")
	}
	return nil
}
