package config

import (
	"errors"
	"flag"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
)

// EffectiveConfigResult is the merged view of flags, env and file that
// the rest of the process runs on.
type EffectiveConfigResult struct {
	Config  *Config
	Addr    string
	DataDir string
	Source  string // "flags", "config", or "env"
}

// ParseCommandFlags defines and parses command-line flags and returns
// their values along with a map indicating which were explicitly set.
func ParseCommandFlags() (addr string, dataDir string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dataPtr := flag.String("data", "./.tabsd", "runtime state directory")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dataPtr, *cfgPtr, setFlags
}

// LoadEnvOverrides applies environment overrides onto the provided cfg
// and returns the derived backend key set plus whether env vars were
// used.
func LoadEnvOverrides(cfg *Config) (map[string]struct{}, bool) {
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("TABSD_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("TABSD_SERVER_ADDRESS"); host != "" {
			envUsed = true
			cfg.Server.Address = host
		}
		if port := os.Getenv("TABSD_SERVER_PORT"); port != "" {
			envUsed = true
			if pi, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = pi
			}
		}
	}

	if v := os.Getenv("TABSD_DATA_DIR"); v != "" {
		envUsed = true
		cfg.Server.DataDir = v
	}

	if v := os.Getenv("TABSD_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("TABSD_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("TABSD_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("TABSD_IP_WHITELIST"); v != "" {
		envUsed = true
		cfg.Security.IPWhitelist = parseList(v)
	}
	if v := os.Getenv("TABSD_API_BACKEND_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Backend = parseList(v)
	}
	if v := os.Getenv("TABSD_API_FRONTEND_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Frontend = parseList(v)
	}
	if v := os.Getenv("TABSD_API_ADMIN_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Admin = parseList(v)
	}

	if v := os.Getenv("TABSD_CLASSIFY_ORDER"); v != "" {
		envUsed = true
		cfg.Classify.Order = strings.TrimSpace(v)
	}
	if v := os.Getenv("TABSD_RECAT_CRON"); v != "" {
		envUsed = true
		cfg.Recategorize.Enabled = true
		cfg.Recategorize.Cron = strings.TrimSpace(v)
	}
	if v := os.Getenv("TABSD_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	backendKeys := map[string]struct{}{}
	for _, k := range cfg.Security.APIKeys.Backend {
		backendKeys[k] = struct{}{}
	}
	return backendKeys, envUsed
}

// LoadEffective loads the file and applies env overrides on top. A
// missing file is not fatal, the process then runs on env and defaults.
// Any other load failure, a malformed file included, is returned so the
// caller fails fast instead of silently running on defaults.
func LoadEffective(path string) (*Config, map[string]struct{}, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, false, err
		}
		cfg = &Config{}
	}
	backendKeys, envUsed := LoadEnvOverrides(cfg)
	return cfg, backendKeys, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and the TABSD_CONFIG env var when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("TABSD_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
