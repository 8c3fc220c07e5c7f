package interaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for script files that are neither yaml nor json
var ErrUnknownFormat = errors.New("unknown script format")

// Script is a recorded sequence of events
type Script struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Events []Event `json:"events" yaml:"events"`
}

// ParseScript decodes a script. Input starting with '{' or '[' is read as
// json, anything else as yaml. A bare list of events is accepted too.
func ParseScript(data []byte) (Script, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Script{}, nil
	}

	var script Script
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &script.Events); err != nil {
			return Script{}, fmt.Errorf("failed to decode script: %w", err)
		}
	case '{':
		if err := json.Unmarshal(trimmed, &script); err != nil {
			return Script{}, fmt.Errorf("failed to decode script: %w", err)
		}
	default:
		if err := decodeYAML(trimmed, &script); err != nil {
			return Script{}, fmt.Errorf("failed to decode script: %w", err)
		}
	}
	return script, script.Validate()
}

func decodeYAML(data []byte, script *Script) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		return node.Decode(&script.Events)
	}
	return node.Decode(script)
}

// LoadScript reads a script file
func LoadScript(path string) (Script, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return Script{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Validate rejects events of unknown type
func (s Script) Validate() error {
	for i, e := range s.Events {
		switch e.Type {
		case PointerDown, PointerMove, PointerUp, PointerCancel, PointerLeave,
			DoubleClick, Wheel, KeyDown, Tick, SelectTool:
		default:
			return fmt.Errorf("event %d: unknown type %q", i, e.Type)
		}
	}
	return nil
}
