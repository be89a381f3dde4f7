package extract

import (
	"strings"

	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
)

// compiledDefinition is a definition with its triggers lowercased once
type compiledDefinition struct {
	def      model.FindingDefinition
	category model.Category
	triggers []string
}

// Matcher scans text against the finding catalogs
type Matcher struct {
	cranialNerves []compiledDefinition
	tracts        []compiledDefinition
	additional    []compiledDefinition
}

// NewMatcher precompiles the trigger phrases of every definition in kb
func NewMatcher(kb *knowledge.Base) *Matcher {
	return &Matcher{
		cranialNerves: compile(kb.CranialNerves(), model.CategoryCranialNerve),
		tracts:        compile(kb.Tracts(), model.CategoryTract),
		additional:    compile(kb.Additional(), model.CategoryAdditional),
	}
}

func compile(defs []model.FindingDefinition, category model.Category) []compiledDefinition {
	out := make([]compiledDefinition, 0, len(defs))
	for _, def := range defs {
		triggers := make([]string, len(def.Triggers))
		for i, t := range def.Triggers {
			triggers[i] = strings.ToLower(t)
		}
		out = append(out, compiledDefinition{def: def, category: category, triggers: triggers})
	}
	return out
}

// Match scans lowercased text and tags every finding with side. Each
// definition yields at most one finding: its first trigger present in the
// text wins, then scanning moves on to the next definition.
func (m *Matcher) Match(lower string, side model.Laterality) model.ParseResult {
	result := model.NewParseResult()

	for _, cd := range m.cranialNerves {
		if !cd.matches(lower) {
			continue
		}
		result.CranialNerves = append(result.CranialNerves, cd.finding(side))
		if result.Level == nil && cd.def.Level != model.LevelForebrain {
			level := cd.def.Level
			result.Level = &level
		}
	}

	for _, cd := range m.tracts {
		if cd.matches(lower) {
			result.Tracts = append(result.Tracts, cd.finding(side))
		}
	}

	for _, cd := range m.additional {
		if cd.matches(lower) {
			result.Additional = append(result.Additional, cd.finding(side))
		}
	}

	return result
}

// matches reports whether any trigger is contained in lower. Triggers are
// tried in declared order and the scan stops at the first hit.
func (cd compiledDefinition) matches(lower string) bool {
	for _, t := range cd.triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func (cd compiledDefinition) finding(side model.Laterality) model.Finding {
	f := model.Finding{
		Key:      cd.def.Key,
		Name:     cd.def.Name,
		Side:     side,
		Category: cd.category,
	}

	switch cd.category {
	case model.CategoryCranialNerve:
		f.Level = cd.def.Level
	case model.CategoryTract:
		f.Type = cd.def.Type
	case model.CategoryAdditional:
		f.Description = cd.def.Name
	}

	return f
}
