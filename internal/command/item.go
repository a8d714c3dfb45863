// Package command decodes authored command lists. Loading only reads the
// sequencing metadata of each item; the rest of an item is validated by
// Parse when its frame is first evaluated.
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxCount bounds authored counts such as repeat and
// setAdjacentPossibleSteps.
const MaxCount = math.MaxInt32

// Item is one authored command object.
type Item struct {
	Name        string
	Description string
	Repeat      int
	Disabled    bool

	// Raw is the full object, decoded lazily by Parse.
	Raw json.RawMessage
}

type itemMeta struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Repeat      json.RawMessage `json:"repeat"`
	Disable     json.RawMessage `json:"disable"`
}

// Decode reads a JSON array of command objects.
func Decode(data []byte) ([]Item, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("command: decode: %w", err)
	}
	items := make([]Item, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("command: item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// DecodeYAML reads the same structure written as YAML.
func DecodeYAML(data []byte) ([]Item, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("command: decode yaml: %w", err)
	}
	if doc == nil {
		return []Item{}, nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("command: decode yaml: %w", err)
	}
	return Decode(js)
}

// ReadFile loads a command file, picking the decoder by extension.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("command: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	}
	return Decode(data)
}

func decodeItem(raw json.RawMessage) (Item, error) {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return Item{}, fmt.Errorf("expected an object")
	}
	var meta itemMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Item{}, err
	}
	item := Item{Raw: raw, Repeat: 1, Disabled: truthy(meta.Disable)}
	if err := optionalString(meta.Name, &item.Name); err != nil {
		return Item{}, fmt.Errorf("name: %w", err)
	}
	if err := optionalString(meta.Description, &item.Description); err != nil {
		return Item{}, fmt.Errorf("description: %w", err)
	}
	if present(meta.Repeat) {
		var n float64
		if err := json.Unmarshal(meta.Repeat, &n); err != nil {
			return Item{}, fmt.Errorf("repeat: expected a number")
		}
		switch {
		case n > MaxCount:
			return Item{}, fmt.Errorf("repeat: must be at most %d, got %g", MaxCount, n)
		case n == 0:
			item.Repeat = 1
		case n < 0:
			item.Repeat = 0
		default:
			item.Repeat = int(math.Ceil(n))
		}
	}
	return item, nil
}

// Expand drops disabled items and repeats the rest in place.
func Expand(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Disabled {
			continue
		}
		for range item.Repeat {
			out = append(out, item)
		}
	}
	return out
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// truthy follows the authoring convention that false, 0, "" and null are off.
func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f != 0
	}
	return true
}

func optionalString(raw json.RawMessage, dst *string) error {
	if !present(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("expected a string")
	}
	return nil
}
