package ui

import (
	"strings"

	"apviz/internal/core"
)

// MinHeight keeps the panel tall enough for the frame group on small grids.
const MinHeight = 240

const glyphWidth = 7

// Lines lays out the panel text: the status line, then either the error or
// every parameter group, wrapped to cols characters.
func Lines(params *core.ParameterSnapshot, err error, status string, cols int) []string {
	if cols <= 0 {
		cols = 1
	}
	var out []string
	if status != "" {
		out = append(out, wrap(status, cols)...)
	}
	if err != nil {
		out = append(out, "")
		out = append(out, wrap("error: "+err.Error(), cols)...)
		return out
	}
	if params == nil {
		return out
	}
	for _, g := range params.Groups {
		out = append(out, "", g.Name)
		if g.Summary != "" {
			out = append(out, wrap(g.Summary, cols)...)
		}
		for _, p := range g.Params {
			label := p.Label
			if label == "" {
				label = p.Key
			}
			out = append(out, wrap(label+": "+p.Value, cols)...)
		}
	}
	return out
}

// wrap breaks s on spaces so no line exceeds cols runes. Longer words are
// split.
func wrap(s string, cols int) []string {
	var out []string
	var line []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(line) > 0 && len(line)+1+len(w) > cols {
			out = append(out, string(line))
			line = line[:0]
		}
		for len(w) > cols {
			if len(line) > 0 {
				out = append(out, string(line))
				line = line[:0]
			}
			out = append(out, string(w[:cols]))
			w = w[cols:]
		}
		if len(line) > 0 {
			line = append(line, ' ')
		}
		line = append(line, w...)
	}
	if len(line) > 0 {
		out = append(out, string(line))
	}
	return out
}
