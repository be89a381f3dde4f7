package model

import (
	"fmt"
	"strings"
)

// Requirement is one finding a syndrome pattern expects, e.g. "CN III (ipsi)".
// Finding is the base name with the relation suffix stripped.
type Requirement struct {
	Finding  string
	Relation Relation
}

// String returns the catalog spelling of the requirement
func (r Requirement) String() string {
	return r.Finding + " " + r.Relation.suffix()
}

// MarshalText encodes the requirement in catalog spelling
func (r Requirement) MarshalText() ([]byte, error) {
	if r.Relation.suffix() == "" {
		return nil, fmt.Errorf("requirement %q: unknown relation %q", r.Finding, r.Relation)
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses "<finding> (ipsi)" or "<finding> (contra)"
func (r *Requirement) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	for _, rel := range []Relation{RelationIpsilateral, RelationContralateral} {
		suffix := " " + rel.suffix()
		if strings.HasSuffix(s, suffix) {
			base := strings.TrimSpace(strings.TrimSuffix(s, suffix))
			if base == "" {
				return fmt.Errorf("requirement %q: empty finding name", s)
			}
			*r = Requirement{Finding: base, Relation: rel}
			return nil
		}
	}

	return fmt.Errorf("requirement %q: missing (ipsi) or (contra) suffix", s)
}

// SyndromePattern is a named combination of findings associated with a lesion
// at a specific level. Catalog order defines match priority.
type SyndromePattern struct {
	Name        string        `yaml:"name" json:"name" validate:"required"`
	Description string        `yaml:"description" json:"description" validate:"required"`
	Location    string        `yaml:"location" json:"location"`
	Level       Level         `yaml:"level" json:"level" validate:"required,level"`
	Findings    []Requirement `yaml:"findings" json:"findings" validate:"required,min=1"`
}

// Ipsilateral returns the requirements tagged ipsilateral, in catalog order
func (s SyndromePattern) Ipsilateral() []Requirement {
	var out []Requirement
	for _, req := range s.Findings {
		if req.Relation == RelationIpsilateral {
			out = append(out, req)
		}
	}
	return out
}
