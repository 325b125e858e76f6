package timer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexBool is a boolean that also accepts the definition format's
// string encodings. Normalization happens once, at parse time: absent,
// "" and any casing of "false" are false; any other string is true;
// real booleans pass through.
type FlexBool bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *FlexBool) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "!!bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			return err
		}
		*b = FlexBool(v)
	case "!!null":
		*b = false
	case "!!str":
		s := node.Value
		*b = FlexBool(s != "" && !strings.EqualFold(s, "false"))
	default:
		return fmt.Errorf("line %d: cannot parse %s as boolean", node.Line, node.Tag)
	}
	return nil
}

// Definition is the file form of a timer Config. Field meanings match
// the Config fields; Action and Library name a callback to resolve
// against an ActionSet at setup time.
type Definition struct {
	Interval   int64    `yaml:"interval"`
	Expiration int64    `yaml:"expiration"`
	Action     string   `yaml:"action"`
	Library    string   `yaml:"library"`
	Long       FlexBool `yaml:"long"`
	Running    FlexBool `yaml:"running"`
	Args       any      `yaml:"args"`
}

// NamedDefinition pairs a definition with its timer name, preserving
// the order timers appear in the file.
type NamedDefinition struct {
	Name string
	Definition
}

// definitionFile is the document shape of a definitions file. The
// timers mapping is kept as a raw node so file order survives parsing.
type definitionFile struct {
	Timers yaml.Node `yaml:"timers"`
}

// ParseDefinitions parses a YAML definitions document of the form
//
//	timers:
//	  <name>:
//	    interval: 250
//	    action: heartbeat
//
// preserving the order timers appear in the file.
func ParseDefinitions(data []byte) ([]NamedDefinition, error) {
	var f definitionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	if f.Timers.Kind == 0 || f.Timers.Tag == "!!null" {
		return nil, nil
	}
	if f.Timers.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse definitions: timers must be a mapping")
	}

	defs := make([]NamedDefinition, 0, len(f.Timers.Content)/2)
	for i := 0; i+1 < len(f.Timers.Content); i += 2 {
		key := f.Timers.Content[i]
		val := f.Timers.Content[i+1]

		var d Definition
		if err := val.Decode(&d); err != nil {
			return nil, fmt.Errorf("timer %q (line %d): %w", key.Value, val.Line, err)
		}
		defs = append(defs, NamedDefinition{Name: key.Value, Definition: d})
	}
	return defs, nil
}

// LoadDefinitions reads and parses a YAML definitions file.
func LoadDefinitions(path string) ([]NamedDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDefinitions(data)
}

// SetupDefinitions resolves each definition's action against actions
// and registers the timers in file order. The first failure aborts and
// is returned with the timer name wrapped in; timers registered before
// the failure stay registered.
func (r *Registry) SetupDefinitions(defs []NamedDefinition, actions *ActionSet) error {
	for _, d := range defs {
		act, err := actions.Resolve(d.Library, d.Action)
		if err != nil {
			return fmt.Errorf("timer %q: %w", d.Name, err)
		}

		cfg := Config{
			Interval:   d.Interval,
			Expiration: d.Expiration,
			Action:     act,
			ActionName: actionKey(d.Library, d.Action),
			Args:       d.Args,
			Long:       bool(d.Long),
			Running:    bool(d.Running),
		}
		if err := r.Setup(d.Name, cfg); err != nil {
			return err
		}
	}
	return nil
}
