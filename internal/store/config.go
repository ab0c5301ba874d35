package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultRefreshMinutes = 30

type GlobalConfig struct {
	// StorePath is the preferences directory (the widgets' "app group").
	StorePath string `json:"storePath,omitempty"`

	// Backend is json|sqlite; empty means autodetect.
	Backend string `json:"backend,omitempty"`

	// PlatformWidgetID is the placement id used when --widget isn't given.
	PlatformWidgetID string `json:"platformWidgetId,omitempty"`

	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`

	// RefreshMinutes is the periodic re-render interval of the preview.
	RefreshMinutes int `json:"refreshMinutes,omitempty"`
}

// RefreshInterval falls back to DefaultRefreshMinutes for unset/invalid values.
func (c *GlobalConfig) RefreshInterval() time.Duration {
	if c == nil || c.RefreshMinutes <= 0 {
		return DefaultRefreshMinutes * time.Minute
	}
	return time.Duration(c.RefreshMinutes) * time.Minute
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.lilywidgets).
	if v := strings.TrimSpace(os.Getenv("LILYWIDGETS_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lilywidgets"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultStoreDir is used when neither flag, env nor config name a store.
func DefaultStoreDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "group.com.lilynotes.app.widgets"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := validateBackend(cfg.Backend); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep the previous config around; best effort.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
