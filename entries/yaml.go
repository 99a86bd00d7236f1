package entries

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// dateList accepts either a sequence of dates or a comma separated scalar
type dateList []string

func (d *dateList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		for _, tok := range strings.Split(node.Value, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				*d = append(*d, tok)
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: date must be a scalar", item.Line)
			}
			if tok := strings.TrimSpace(item.Value); tok != "" {
				*d = append(*d, tok)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: expected a date or a list of dates", node.Line)
}

// ParseYAML reads a mapping of name to dates:
//
//	Anna: [15.07.1985, 10.04.1963]
//	Sorbonne University: 16.08.2001
func ParseYAML(r io.Reader) (Entries, error) {
	var raw map[string]dateList
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Entries{}, nil
		}
		return nil, fmt.Errorf("decode yaml entries: %w", err)
	}

	out := Entries{}
	for name, dates := range raw {
		out.Add(strings.TrimSpace(name), dates...)
	}
	return out, nil
}
