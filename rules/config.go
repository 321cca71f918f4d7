// Package rules loads named extraction rules from YAML files.
//
// A rule pairs a template with a name and a type for each of its
// captures:
//
//	name: access-log
//	rules:
//	  - name: request
//	    template: "{} {} {}"
//	    fields:
//	      - name: method
//	      - name: path
//	      - name: status
//	        type: int
//
// Rules are tried in file order; the first one that matches a line and
// converts all of its fields produces the record.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the rule file name used when none is given.
const DefaultFile = ".tparse.yaml"

type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

type Rule struct {
	Name     string  `yaml:"name"`
	Template string  `yaml:"template"`
	Fields   []Field `yaml:"fields"`
}

type Config struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Load reads a rule file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a rule file from memory.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// DefaultConfig is the starting point written by `tparse init`.
func DefaultConfig() Config {
	return Config{
		Name: "tparse",
		Rules: []Rule{
			{
				Name:     "key-value",
				Template: "{}={}",
				Fields: []Field{
					{Name: "key"},
					{Name: "value"},
				},
			},
		},
	}
}
