// Package knowledge holds the immutable neuroanatomy catalog: cranial nerves,
// tracts, additional findings, syndromes and vascular territories.
package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
)

// Base is a loaded, validated catalog. It is never mutated after Load and is
// safe for concurrent use. Accessors return copies.
type Base struct {
	version       int
	cranialNerves []model.FindingDefinition
	tracts        []model.FindingDefinition
	additional    []model.FindingDefinition
	syndromes     []model.SyndromePattern
	territories   []model.Territory
	fingerprint   string
}

func newBase(cf *catalogFile, raw []byte) *Base {
	sum := sha256.Sum256(raw)
	return &Base{
		version:       cf.Version,
		cranialNerves: cloneDefinitions(cf.CranialNerves),
		tracts:        cloneDefinitions(cf.Tracts),
		additional:    cloneDefinitions(cf.Additional),
		syndromes:     cloneSyndromes(cf.Syndromes),
		territories:   cloneTerritories(cf.Territories),
		fingerprint:   hex.EncodeToString(sum[:8]),
	}
}

// Version returns the catalog schema version
func (b *Base) Version() int { return b.version }

// Fingerprint identifies the catalog content; it changes whenever any entry changes
func (b *Base) Fingerprint() string { return b.fingerprint }

// CranialNerves returns the cranial nerve definitions in catalog order
func (b *Base) CranialNerves() []model.FindingDefinition { return cloneDefinitions(b.cranialNerves) }

// Tracts returns the tract definitions in catalog order
func (b *Base) Tracts() []model.FindingDefinition { return cloneDefinitions(b.tracts) }

// Additional returns the additional finding definitions in catalog order
func (b *Base) Additional() []model.FindingDefinition { return cloneDefinitions(b.additional) }

// Syndromes returns the syndrome patterns in priority order
func (b *Base) Syndromes() []model.SyndromePattern { return cloneSyndromes(b.syndromes) }

// Territories returns the vascular territory reference table
func (b *Base) Territories() []model.Territory { return cloneTerritories(b.territories) }

// Definitions returns the definitions of one category in catalog order
func (b *Base) Definitions(c model.Category) []model.FindingDefinition {
	switch c {
	case model.CategoryCranialNerve:
		return b.CranialNerves()
	case model.CategoryTract:
		return b.Tracts()
	case model.CategoryAdditional:
		return b.Additional()
	default:
		return nil
	}
}

// CranialNerve looks up a cranial nerve by key, e.g. "CN VII"
func (b *Base) CranialNerve(key string) (model.FindingDefinition, bool) {
	for _, def := range b.cranialNerves {
		if def.Key == key {
			return cloneDefinition(def), true
		}
	}
	return model.FindingDefinition{}, false
}

// Syndrome looks up a syndrome by name, case-insensitively
func (b *Base) Syndrome(name string) (model.SyndromePattern, bool) {
	for _, s := range b.syndromes {
		if strings.EqualFold(s.Name, name) {
			return cloneSyndrome(s), true
		}
	}
	return model.SyndromePattern{}, false
}

// CranialNerveIndex returns the cranial nerve catalog keyed by CN, the shape
// collaborators expect for reference lookups.
func (b *Base) CranialNerveIndex() map[string]model.FindingDefinition {
	index := make(map[string]model.FindingDefinition, len(b.cranialNerves))
	for _, def := range b.cranialNerves {
		index[def.Key] = cloneDefinition(def)
	}
	return index
}

// TerritoriesFor returns the vascular territories that supply at least one of
// the detected findings. This is reference information only.
func (b *Base) TerritoriesFor(result model.ParseResult) []model.Territory {
	findings := result.All()
	var out []model.Territory

	for _, t := range b.territories {
		if b.territoryMatches(t, findings) {
			out = append(out, cloneTerritory(t))
		}
	}
	return out
}

func (b *Base) territoryMatches(t model.Territory, findings []model.Finding) bool {
	for _, want := range t.Findings {
		lw := strings.ToLower(want)
		for _, f := range findings {
			switch {
			case f.Category == model.CategoryCranialNerve && (want == f.Key || strings.HasPrefix(want, f.Key+" ")):
				return true
			case f.Category != model.CategoryCranialNerve && (strings.Contains(strings.ToLower(f.Name), lw) || strings.EqualFold(f.Key, want)):
				return true
			case b.hasTrigger(f, lw):
				return true
			}
		}
	}
	return false
}

// hasTrigger reports whether phrase is one of the triggers of f's definition
func (b *Base) hasTrigger(f model.Finding, phrase string) bool {
	var defs []model.FindingDefinition
	switch f.Category {
	case model.CategoryCranialNerve:
		defs = b.cranialNerves
	case model.CategoryTract:
		defs = b.tracts
	case model.CategoryAdditional:
		defs = b.additional
	}

	for _, def := range defs {
		if def.Key != f.Key && def.Name != f.Name {
			continue
		}
		for _, trig := range def.Triggers {
			if strings.ToLower(trig) == phrase {
				return true
			}
		}
	}
	return false
}

func cloneDefinition(d model.FindingDefinition) model.FindingDefinition {
	d.Levels = append([]model.Level(nil), d.Levels...)
	d.Triggers = append([]string(nil), d.Triggers...)
	return d
}

func cloneDefinitions(defs []model.FindingDefinition) []model.FindingDefinition {
	out := make([]model.FindingDefinition, len(defs))
	for i, d := range defs {
		out[i] = cloneDefinition(d)
	}
	return out
}

func cloneSyndrome(s model.SyndromePattern) model.SyndromePattern {
	s.Findings = append([]model.Requirement(nil), s.Findings...)
	return s
}

func cloneSyndromes(ss []model.SyndromePattern) []model.SyndromePattern {
	out := make([]model.SyndromePattern, len(ss))
	for i, s := range ss {
		out[i] = cloneSyndrome(s)
	}
	return out
}

func cloneTerritory(t model.Territory) model.Territory {
	t.Structures = append([]string(nil), t.Structures...)
	t.Findings = append([]string(nil), t.Findings...)
	return t
}

func cloneTerritories(ts []model.Territory) []model.Territory {
	out := make([]model.Territory, len(ts))
	for i, t := range ts {
		out[i] = cloneTerritory(t)
	}
	return out
}
