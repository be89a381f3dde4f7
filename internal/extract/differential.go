package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
)

var cnPattern = regexp.MustCompile(`cn\s*[ivx]+`)

// DifferentialEntry is a syndrome consistent with the findings and how many
// of its requirements were recognized.
type DifferentialEntry struct {
	Syndrome model.SyndromePattern `json:"syndrome"`
	Matched  int                   `json:"matched"`
	Total    int                   `json:"total"`
}

// Differential lists syndromes worth considering for result. A syndrome is
// kept when its level agrees with the result level (any level when unset)
// and at least one requirement is recognized among the findings. Entries are
// ordered by matched count, then catalog order. limit <= 0 returns all.
//
// Unlike Parse, both ipsilateral and contralateral requirements count here,
// and cranial nerves are compared by number rather than by substring.
func (e *Engine) Differential(result model.ParseResult, limit int) []DifferentialEntry {
	var entries []DifferentialEntry

	for _, s := range e.kb.Syndromes() {
		if result.Level != nil && s.Level != *result.Level {
			continue
		}

		matched := 0
		for _, req := range s.Findings {
			if requirementPresent(req, result) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		entries = append(entries, DifferentialEntry{Syndrome: s, Matched: matched, Total: len(s.Findings)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Matched > entries[j].Matched
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// requirementPresent recognizes a requirement by cranial nerve number or by
// the corticospinal, Horner and ataxia keywords.
func requirementPresent(req model.Requirement, result model.ParseResult) bool {
	name := strings.ToLower(req.Finding)

	if cn := cnPattern.FindString(name); cn != "" {
		key := "CN " + strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(cn, "cn")))
		for _, f := range result.CranialNerves {
			if f.Key == key {
				return true
			}
		}
	}

	if strings.Contains(name, "corticospinal") {
		for _, f := range result.Tracts {
			if f.Key == "corticospinal" {
				return true
			}
		}
	}

	if strings.Contains(name, "horner") {
		for _, f := range result.Additional {
			if strings.Contains(f.Name, "Horner") {
				return true
			}
		}
	}

	if strings.Contains(name, "ataxia") {
		for _, f := range result.Additional {
			if f.Name == "Ataxia" {
				return true
			}
		}
	}

	return false
}
