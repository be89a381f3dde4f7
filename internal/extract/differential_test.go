package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func syndromeNames(entries []DifferentialEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Syndrome.Name)
	}
	return out
}

func TestDifferential_FiltersByLevel(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Parse("left ptosis with right hemiparesis")
	entries := engine.Differential(result, 0)

	assert.Equal(t, []string{"Weber Syndrome"}, syndromeNames(entries))
	assert.Equal(t, 2, entries[0].Matched)
	assert.Equal(t, 2, entries[0].Total)
}

func TestDifferential_OrdersByMatchedCount(t *testing.T) {
	engine := newTestEngine(t)

	// CN VI and CN VII at pons level; Millard-Gubler matches two requirements,
	// Lateral Pontine only CN VII.
	result := engine.Parse("lateral gaze palsy and facial droop")
	entries := engine.Differential(result, 0)

	assert.Equal(t, []string{"Millard-Gubler Syndrome", "Lateral Pontine Syndrome"}, syndromeNames(entries))
	assert.Equal(t, 2, entries[0].Matched)
	assert.Equal(t, 1, entries[1].Matched)
}

func TestDifferential_Limit(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Parse("lateral gaze palsy and facial droop")
	entries := engine.Differential(result, 1)

	assert.Equal(t, []string{"Millard-Gubler Syndrome"}, syndromeNames(entries))
}

func TestDifferential_NoLevelConsidersAllLevels(t *testing.T) {
	engine := newTestEngine(t)

	// No cranial nerves, so no level; hemiparesis and ataxia still count
	result := engine.Parse("hemiparesis and ataxia")
	entries := engine.Differential(result, 0)

	assert.Equal(t, []string{
		"Weber Syndrome",
		"Wallenberg Syndrome",
		"Millard-Gubler Syndrome",
		"Lateral Pontine Syndrome",
		"Medial Medullary Syndrome",
	}, syndromeNames(entries))
}

func TestDifferential_Empty(t *testing.T) {
	engine := newTestEngine(t)

	assert.Empty(t, engine.Differential(engine.Parse(""), 3))
}
