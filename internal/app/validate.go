package app

import (
	"fmt"
	"os"

	"tabsd/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	// data dir must be present; crash/abort/telemetry artifacts land there
	if eff.DataDir == "" {
		return fmt.Errorf("data dir is empty: set --data flag, TABSD_DATA_DIR env, or server.data_dir in config")
	}

	// TLS cert/key presence check if one is set
	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	// frontend keys without backend keys would lock out every writer
	keys := eff.Config.Security.APIKeys
	if len(keys.Frontend) > 0 && len(keys.Backend) == 0 {
		return fmt.Errorf("frontend API keys configured without any backend key: no caller could append messages")
	}

	if eff.Config.Limits.MaxBatch < 0 {
		return fmt.Errorf("limits.max_batch must be >= 0")
	}
	if eff.Config.Limits.MaxTextLen < 0 {
		return fmt.Errorf("limits.max_text_len must be >= 0")
	}

	return nil
}
