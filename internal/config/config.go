// Package config loads the tool configuration from a TOML file, falling back
// to working defaults when no file is given.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings that are not per-invocation arguments.
type Config struct {
	// TargetWidth and TargetHeight size every transform view and the
	// output video.
	TargetWidth  int `toml:"target_width"`
	TargetHeight int `toml:"target_height"`

	// ListenAddr is where the live view server binds. Port 0 picks a free
	// port.
	ListenAddr string `toml:"listen_addr"`

	// JPEGQuality is used for the live MJPEG view streams only; it does
	// not affect the encoded output video.
	JPEGQuality int `toml:"jpeg_quality"`

	// InterruptKey is the stdin line that stops a run.
	InterruptKey string `toml:"interrupt_key"`

	// StateDir holds the run log, the run history database, and the
	// invocation lock.
	StateDir string `toml:"state_dir"`

	// LogFile is the persistent run telemetry log. Defaults to
	// framemill.log inside StateDir.
	LogFile string `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	stateDir := ".framemill"
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".framemill")
	}
	return Config{
		TargetWidth:  540,
		TargetHeight: 380,
		ListenAddr:   "127.0.0.1:8790",
		JPEGQuality:  80,
		InterruptKey: "q",
		StateDir:     stateDir,
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged. Unset fields keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "framemill.log")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("config: target size %dx%d must be positive", c.TargetWidth, c.TargetHeight)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("config: jpeg_quality %d must be in 1..100", c.JPEGQuality)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.StateDir == "" {
		return fmt.Errorf("config: state_dir must not be empty")
	}
	return nil
}

// EnsureDirectories creates the state directory tree.
func (c Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if dir := filepath.Dir(c.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	return nil
}
