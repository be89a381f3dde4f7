// Package session folds per-turn parse results into a running
// per-conversation finding state.
package session

import (
	"github.com/ppiankov/neuroloc/internal/model"
)

// Fold merges one turn's result into state and returns the new state.
// Findings are appended without deduplication. Level is taken from the first
// result that reports one and never changes afterwards. Syndromes are not
// accumulated.
func Fold(state model.SessionFindingState, result model.ParseResult) model.SessionFindingState {
	next := state.Clone()

	next.CranialNerves = append(next.CranialNerves, result.CranialNerves...)
	next.Tracts = append(next.Tracts, result.Tracts...)
	next.Additional = append(next.Additional, result.Additional...)

	if next.Level == nil && result.Level != nil {
		level := *result.Level
		next.Level = &level
	}

	next.Turns++
	return next
}

// Aggregate folds results, in order, into a fresh state
func Aggregate(results ...model.ParseResult) model.SessionFindingState {
	state := model.NewSessionFindingState()
	for _, r := range results {
		state = Fold(state, r)
	}
	return state
}

// Dedupe returns findings with repeats removed, keeping first occurrences.
// Two findings repeat when category, name and side are equal.
func Dedupe(findings []model.Finding) []model.Finding {
	type key struct {
		category model.Category
		name     string
		side     model.Laterality
	}

	seen := make(map[key]bool)
	unique := make([]model.Finding, 0, len(findings))

	for _, f := range findings {
		k := key{f.Category, f.Name, f.Side}
		if !seen[k] {
			seen[k] = true
			unique = append(unique, f)
		}
	}

	return unique
}
