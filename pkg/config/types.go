package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Security     SecurityConfig     `yaml:"security"`
	Logging      LoggingConfig      `yaml:"logging"`
	Classify     ClassifyConfig     `yaml:"classify"`
	Recategorize RecategorizeConfig `yaml:"recategorize"`
	Limits       LimitsConfig       `yaml:"limits"`
}

// ServerConfig holds http, state-dir and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	DataDir string    `yaml:"data_dir"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// SecurityConfig holds perimeter settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	IPWhitelist []string `yaml:"ip_whitelist"`
	APIKeys     struct {
		Backend  []string `yaml:"backend"`
		Frontend []string `yaml:"frontend"`
		Admin    []string `yaml:"admin"`
	} `yaml:"api_keys"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ClassifyConfig tunes the classification engine.
type ClassifyConfig struct {
	// Order is the decision policy: "title_first" (default) or
	// "structure_first".
	Order string `yaml:"order"`
	// Extra title patterns appended to the built-in lexicons.
	ExtraNewsPatterns  []string `yaml:"extra_news_patterns"`
	ExtraGroupPatterns []string `yaml:"extra_group_patterns"`
}

// RecategorizeConfig holds configuration for the scheduled
// recategorization runner.
type RecategorizeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// LimitsConfig bounds inbound batches.
type LimitsConfig struct {
	// MaxBatch caps messages per append call (0 = unlimited).
	MaxBatch int `yaml:"max_batch"`
	// MaxBody caps the request body; accepts humanized sizes ("1 MB").
	MaxBody Size `yaml:"max_body"`
	// MaxTextLen caps message text length in runes (0 = unlimited).
	MaxTextLen int `yaml:"max_text_len"`
}

// Size is a byte count that unmarshals from humanized YAML strings
// ("512 KB") or plain integers.
type Size uint64

func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		var n uint64
		if err2 := value.Decode(&n); err2 != nil {
			return fmt.Errorf("invalid size: %w", err)
		}
		*s = Size(n)
		return nil
	}
	n, err := humanize.ParseBytes(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", raw, err)
	}
	*s = Size(n)
	return nil
}

// Duration wraps time.Duration for YAML string values ("250ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	dur, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(dur)
	return nil
}

// Addr joins address and port with fallbacks.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}
