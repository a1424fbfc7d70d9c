// Package config loads sessiondex configuration by layering
// defaults, the JSON config file, environment variables, and
// CLI flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// IndexRoot is the transcript archive root, one subtree
	// per logged project.
	IndexRoot string `json:"index_root"`

	// ResumeCommand is the command template run by the resume
	// subcommand; "{session}" is replaced with the session ID.
	ResumeCommand string `json:"resume_command"`

	// Workers bounds the discovery parse fan-out.
	Workers int `json:"workers"`

	DataDir string `json:"-"`
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determining home directory: %w", err)
	}
	return Config{
		IndexRoot:     filepath.Join(home, ".claude", "projects"),
		ResumeCommand: "claude --resume {session}",
		Workers:       8,
		DataDir:       filepath.Join(home, ".sessiondex"),
	}, nil
}

// Load builds a Config by layering: defaults < config file <
// env < flags. The provided FlagSet must already be parsed by
// the caller; only flags that were explicitly set override the
// lower layers.
func Load(fs *flag.FlagSet) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	if v := os.Getenv("SESSIONDEX_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if err := cfg.loadFile(); err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	cfg.loadEnv()
	cfg.applyFlags(fs)

	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return cfg, nil
}

func (c *Config) configPath() string {
	return filepath.Join(c.DataDir, "config.json")
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.configPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var file struct {
		IndexRoot     string `json:"index_root"`
		ResumeCommand string `json:"resume_command"`
		Workers       int    `json:"workers"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if file.IndexRoot != "" {
		c.IndexRoot = file.IndexRoot
	}
	if file.ResumeCommand != "" {
		c.ResumeCommand = file.ResumeCommand
	}
	if file.Workers > 0 {
		c.Workers = file.Workers
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("CLAUDE_PROJECTS_DIR"); v != "" {
		c.IndexRoot = v
	}
	if v := os.Getenv("SESSIONDEX_RESUME_COMMAND"); v != "" {
		c.ResumeCommand = v
	}
	if v := os.Getenv("SESSIONDEX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
}

// RegisterFlags registers the shared flags on fs. The caller
// must call fs.Parse before passing fs to Load.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("root", "", "Transcript archive root directory")
	fs.Int("workers", 0, "Parse fan-out during discovery")
}

// applyFlags copies explicitly-set flags from fs into c.
func (c *Config) applyFlags(fs *flag.FlagSet) {
	if fs == nil {
		return
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			c.IndexRoot = f.Value.String()
		case "workers":
			// flag already validated the int
			if n, _ := strconv.Atoi(f.Value.String()); n > 0 {
				c.Workers = n
			}
		}
	})
}
