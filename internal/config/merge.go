package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys that can be overlaid.
const (
	keyCatalog    = "catalog"
	keyRanking    = "ranking"
	keySimulation = "simulation"
	keyOutput     = "output"
	keyLogging    = "logging"
	keyRequires   = "requires"
)

// ShallowMergeYAML overlays the top-level sections present in overlayPath
// onto target. A section in the overlay replaces the whole target section;
// absent sections and unknown keys are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// decodeSection decodes node onto the default value of the section, so
// fields the overlay omits take their defaults rather than the values
// previously in target.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	defaults := newDefaults()
	switch key {
	case keyCatalog:
		v := defaults.Catalog
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Catalog = v
	case keyRanking:
		v := defaults.Ranking
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Ranking = v
	case keySimulation:
		v := defaults.Simulation
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Simulation = v
	case keyOutput:
		v := defaults.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		v := defaults.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyRequires:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Requires = v
	}
	return nil
}
