package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FamiliesConfig holds the registered families (read/write).
type FamiliesConfig struct {
	Families map[string]FamilyEntry `yaml:"families,omitempty"`
}

// FamilyEntry holds configuration for a specific family.
type FamilyEntry struct {
	Description string `yaml:"description,omitempty"`
	// Source is the save document the family was imported from, if any.
	Source string `yaml:"source,omitempty"`
}

// LoadFamilies loads the families file from the .family directory.
func LoadFamilies(basePath string) (*FamiliesConfig, error) {
	data, err := os.ReadFile(FamiliesFilePath(basePath))
	if os.IsNotExist(err) {
		return &FamiliesConfig{
			Families: make(map[string]FamilyEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading families file: %w", err)
	}

	var cfg FamiliesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing families file: %w", err)
	}

	if cfg.Families == nil {
		cfg.Families = make(map[string]FamilyEntry)
	}

	return &cfg, nil
}

// Save writes the families file.
func (f *FamiliesConfig) Save(basePath string) error {
	configDir := ConfigDir(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling families config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, DefaultFamiliesFile), data, 0600); err != nil {
		return fmt.Errorf("writing families file: %w", err)
	}

	return nil
}

// Add registers a family.
func (f *FamiliesConfig) Add(name string, entry FamilyEntry) {
	if f.Families == nil {
		f.Families = make(map[string]FamilyEntry)
	}
	f.Families[name] = entry
}

// Remove unregisters a family.
func (f *FamiliesConfig) Remove(name string) {
	if f.Families != nil {
		delete(f.Families, name)
	}
}

// Names returns the registered family names, sorted.
func (f *FamiliesConfig) Names() []string {
	names := make([]string, 0, len(f.Families))
	for name := range f.Families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the configuration for a specific family.
func (f *FamiliesConfig) Get(name string) (*FamilyEntry, error) {
	if len(f.Families) == 0 {
		return nil, errors.New("no families configured")
	}

	entry, ok := f.Families[name]
	if !ok {
		names := f.Names()
		if len(names) > 5 {
			names = append(names[:5], "...")
		}
		return nil, fmt.Errorf("family %q not found (available: %s)", name, strings.Join(names, ", "))
	}

	return &entry, nil
}

// Exists checks if a family is registered.
func (f *FamiliesConfig) Exists(name string) bool {
	_, ok := f.Families[name]
	return ok
}
