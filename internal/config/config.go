// Package config loads the wavesdb TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "wavesdb"

	// DefaultLogLevel is used when log_level is not set.
	DefaultLogLevel = "info"
	// DefaultScanWorkers is used when scan_workers is not set.
	DefaultScanWorkers = 8
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library
	DBPath         string   `koanf:"db_path"`         // empty means the XDG data file
	LogLevel       string   `koanf:"log_level"`       // debug, info, warn or error
	RefSize        int      `koanf:"ref_size"`        // memstat reference size, 0 for pointer size
	ScanWorkers    int      `koanf:"scan_workers"`    // concurrent tag readers
}

// Load reads the configuration. An explicit path is the only file read and
// must exist; otherwise the XDG config file then ./config.toml are loaded
// when present, the last one winning.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	if explicit != "" {
		if err := k.Load(file.Provider(expandPath(explicit)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	} else {
		for _, path := range getConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("load %s: %w", path, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in paths
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.DBPath = expandPath(cfg.DBPath)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.ScanWorkers <= 0 {
		cfg.ScanWorkers = DefaultScanWorkers
	}
	if cfg.RefSize < 0 {
		cfg.RefSize = 0
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wavesdb/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
