package robot

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-robot/runner"
)

// FileConfig holds run defaults loaded from a YAML file. Unset fields leave
// the CLI defaults in place.
type FileConfig struct {
	Browser   string            `yaml:"browser,omitempty"`
	URL       string            `yaml:"url,omitempty"`
	Headless  *bool             `yaml:"headless,omitempty"`
	Include   []string          `yaml:"include,omitempty"`
	Exclude   []string          `yaml:"exclude,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
}

// LoadFileConfig reads and parses a YAML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// VariableList returns the file variables as NAME:VALUE pairs, sorted by name
func (f *FileConfig) VariableList() []string {
	names := make([]string, 0, len(f.Variables))
	for name := range f.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]string, 0, len(names))
	for _, name := range names {
		vars = append(vars, runner.Variable(name, f.Variables[name]))
	}
	return vars
}
