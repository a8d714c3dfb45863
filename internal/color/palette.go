package color

import (
	"encoding/json"
	"fmt"
)

// Slot names one of the fixed palette entries of a frame.
type Slot int

const (
	Zero Slot = iota
	Positive
	Negative
	Empty
	Background
	Highlighted
	Captured

	NumSlots
)

var slotNames = [NumSlots]string{
	Zero:        "zero",
	Positive:    "positive",
	Negative:    "negative",
	Empty:       "empty",
	Background:  "background",
	Highlighted: "highlighted",
	Captured:    "captured",
}

func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// SlotByName resolves an authored slot name.
func SlotByName(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// Palette holds one expanded color per slot.
type Palette [NumSlots]Expanded

// Default is the palette every sequence starts with.
var Default = Palette{
	Zero:        MustParse("#FFF"),
	Positive:    MustParse("#38761D"),
	Negative:    MustParse("#C00"),
	Empty:       MustParse("#666"),
	Background:  MustParse("#356F9E"),
	Highlighted: MustParse("white"),
	Captured:    MustParse("black"),
}

// OverrideKind is the state of a single slot in a color command.
type OverrideKind uint8

const (
	// Unset leaves the inherited color alone.
	Unset OverrideKind = iota
	// Set replaces the inherited color.
	Set
	// Reset restores the slot to its Default color.
	Reset
)

// Override is one slot of a color command.
type Override struct {
	Kind  OverrideKind
	Color Expanded
}

// Overrides is a full color command, one entry per slot.
type Overrides [NumSlots]Override

// Apply returns p with o layered on top.
func (p Palette) Apply(o Overrides) Palette {
	out := p
	for i, ov := range o {
		switch ov.Kind {
		case Set:
			out[i] = ov.Color
		case Reset:
			out[i] = Default[i]
		}
	}
	return out
}

// MarshalJSON encodes the palette as an object keyed by slot name.
func (p Palette) MarshalJSON() ([]byte, error) {
	m := make(map[string]Expanded, NumSlots)
	for i, c := range p {
		m[slotNames[i]] = c
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the object form written by MarshalJSON.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var m map[string]Expanded
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := Default
	for name, c := range m {
		slot, ok := SlotByName(name)
		if !ok {
			return fmt.Errorf("color: unknown palette slot %q", name)
		}
		out[slot] = c
	}
	*p = out
	return nil
}
