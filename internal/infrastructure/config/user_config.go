package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents user preferences stored in ~/.geflip/preferences.json.
// Flags always override these values.
type UserConfig struct {
	// Budget used by suggest and watch when --budget is omitted
	DefaultBudget *int64 `json:"default_budget,omitempty"`

	// File the watch view reads the available gp amount from
	GPFile string `json:"gp_file,omitempty"`

	// Number of suggestions shown when --top is omitted
	DefaultTop *int `json:"default_top,omitempty"`
}

// UserConfigHandler manages loading and saving user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for ~/.geflip/preferences.json
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".geflip", "preferences.json")), nil
}

// NewUserConfigHandlerAt creates a handler for an explicit file path
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the preferences, returning an empty config when the file is absent
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// Save writes the preferences to disk
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// Update loads the preferences, applies fn and saves the result
func (h *UserConfigHandler) Update(fn func(*UserConfig)) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return h.Save(cfg)
}

// SetDefaultBudget stores the default budget in gp
func (h *UserConfigHandler) SetDefaultBudget(budget int64) error {
	if budget <= 0 {
		return fmt.Errorf("default budget must be positive: %d", budget)
	}
	return h.Update(func(c *UserConfig) { c.DefaultBudget = &budget })
}

// Clear removes every stored preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the preferences file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
