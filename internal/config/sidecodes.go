package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type sideCodeFile struct {
	Countries map[string][]string `yaml:"countries"`
}

// LoadSideCodes reads a registry file of the form
//
//	countries:
//	  NL: ["XX-99-99", "99-99-XX"]
//
// Template order within a country is preserved.
func LoadSideCodes(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidecodes file: %w", err)
	}
	return ParseSideCodes(raw)
}

func ParseSideCodes(raw []byte) (map[string][]string, error) {
	var file sideCodeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sidecodes file: %w", err)
	}
	if len(file.Countries) == 0 {
		return nil, fmt.Errorf("sidecodes file defines no countries")
	}
	for country, codes := range file.Countries {
		if len(codes) == 0 {
			return nil, fmt.Errorf("country %q has no sidecodes", country)
		}
	}
	return file.Countries, nil
}
