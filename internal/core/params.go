package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes free-form text such as seeds and names.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value exposed by an engine config or a frame.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures a set of values for the HUD and the inspector.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Merge appends the groups of other.
func (s ParameterSnapshot) Merge(other ParameterSnapshot) ParameterSnapshot {
	s.Groups = append(s.Groups, other.Groups...)
	return s
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// String renders the snapshot as an indented listing.
func (s ParameterSnapshot) String() string {
	var b strings.Builder
	for _, g := range s.Groups {
		fmt.Fprintf(&b, "%s\n", g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(&b, "  %-28s %s\n", p.Label, p.Value)
		}
	}
	return b.String()
}

func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func BoolParam(key, label string, value bool) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeBool, Value: strconv.FormatBool(value)}
}

func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}
