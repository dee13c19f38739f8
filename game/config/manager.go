package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/tiletreasure/game/engine"
	"github.com/wricardo/tiletreasure/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultName is the rule set used when none is requested. It falls back to
// engine.DefaultConfig when no file provides it.
const DefaultName = "classic"

// Extensions lists the rule-set file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

// Manager handles rule-set loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir serves
// only the built-in classic rule set.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}
	m.loadDefaultConfig()

	return m, nil
}

// LoadConfig loads a rule set by ID. The ID is the file name with or without
// its extension.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id := ConfigID(name)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	path, err := m.findFile(name)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && id == DefaultName {
			config := engine.DefaultConfig()
			m.configs[id] = config
			return config, nil
		}
		return nil, err
	}

	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return config, nil
}

// findFile resolves a rule-set ID to a file in the config directory
func (m *Manager) findFile(name string) (string, error) {
	if m.configDir == "" {
		return "", ErrConfigNotFound
	}

	if hasConfigExt(name) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", ErrConfigNotFound
		}
		return path, nil
	}

	for _, ext := range Extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ListConfigs returns information about all available rule sets, sorted by ID.
// Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !hasConfigExt(entry.Name()) {
				continue
			}

			id := ConfigID(entry.Name())
			if seen[id] {
				continue
			}

			config, err := m.LoadConfig(entry.Name())
			if err != nil {
				log.WithError(err).WithField("file", entry.Name()).Warn("skipping invalid config")
				continue
			}

			seen[id] = true
			configs = append(configs, configInfo(entry.Name(), id, config))
		}
	}

	if !seen[DefaultName] {
		config, err := m.LoadConfig(DefaultName)
		if err == nil {
			configs = append(configs, configInfo("", DefaultName, config))
		}
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

func configInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		BoardSize:   config.BoardSize,
		MaxCapacity: config.MaxCapacity,
		Players:     len(config.Players),
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// Count returns the number of cached rule sets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// loadDefaultConfig loads classic, or the built-in rule set when the classic
// file is broken
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultName)
	if err != nil {
		log.WithError(err).Warn("default config unusable, using built-in classic")
		config = engine.DefaultConfig()
	}
	m.defaultConfig = config
}

// LoadFile reads, parses and validates one rule-set file
func LoadFile(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return config, nil
}

// Parse decodes a rule set in the format named by ext and validates it.
// Missing messages get their defaults.
func Parse(data []byte, ext string) (*engine.GameConfig, error) {
	var config engine.GameConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", ErrInvalidConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json: %v", ErrInvalidConfig, err)
		}
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config.ApplyDefaults()

	return &config, nil
}

// ValidateDir checks every rule-set file in dir. The result maps file names to
// their validation error, nil for valid files.
func ValidateDir(dir string) (map[string]error, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	results := make(map[string]error)
	for _, entry := range entries {
		if entry.IsDir() || !hasConfigExt(entry.Name()) {
			continue
		}
		_, err := LoadFile(filepath.Join(dir, entry.Name()))
		results[entry.Name()] = err
	}
	return results, nil
}

// ConfigID strips a rule-set extension from a file name
func ConfigID(name string) string {
	ext := filepath.Ext(name)
	if hasConfigExt(name) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

func hasConfigExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}
