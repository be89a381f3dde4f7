package session

import (
	"testing"

	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *extract.Engine {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return extract.NewEngine(kb)
}

func TestFold_LevelFirstWriteWins(t *testing.T) {
	engine := newEngine(t)

	turn1 := engine.Parse("my face has a droop, the doctor said facial palsy")
	turn2 := engine.Parse("I also have hoarseness")
	require.NotNil(t, turn1.Level)
	require.NotNil(t, turn2.Level)
	require.Equal(t, model.LevelPons, *turn1.Level)
	require.Equal(t, model.LevelMedulla, *turn2.Level)

	state := Aggregate(turn1, turn2)

	require.NotNil(t, state.Level)
	assert.Equal(t, model.LevelPons, *state.Level)
	assert.Equal(t, 2, state.Turns)
	assert.Len(t, state.CranialNerves, 2)
}

func TestFold_LevelSetByLaterTurnWhenEarlierHasNone(t *testing.T) {
	engine := newEngine(t)

	state := Aggregate(
		engine.Parse("hello doctor"),
		engine.Parse("anosmia"),
		engine.Parse("tongue deviation"),
		engine.Parse("facial droop"),
	)

	require.NotNil(t, state.Level)
	assert.Equal(t, model.LevelMedulla, *state.Level)
	assert.Equal(t, 4, state.Turns)
}

func TestFold_AppendsWithoutDedup(t *testing.T) {
	engine := newEngine(t)

	state := Aggregate(
		engine.Parse("left ptosis and weakness with ataxia"),
		engine.Parse("left ptosis and weakness with ataxia"),
	)

	assert.Len(t, state.CranialNerves, 2)
	assert.Len(t, state.Tracts, 4) // corticospinal and medial lemniscus, twice
	assert.Len(t, state.Additional, 2)

	assert.Len(t, Dedupe(state.CranialNerves), 1)
	assert.Len(t, Dedupe(state.Tracts), 2)
	assert.Len(t, Dedupe(state.Additional), 1)
}

func TestFold_DoesNotMutateInput(t *testing.T) {
	engine := newEngine(t)

	before := Aggregate(engine.Parse("ptosis"))
	after := Fold(before, engine.Parse("vertigo"))

	assert.Len(t, before.CranialNerves, 1)
	assert.Equal(t, 1, before.Turns)
	assert.Len(t, after.CranialNerves, 2)
	assert.Equal(t, 2, after.Turns)
}

func TestAggregate_Empty(t *testing.T) {
	state := Aggregate()

	assert.Empty(t, state.CranialNerves)
	assert.NotNil(t, state.CranialNerves)
	assert.Nil(t, state.Level)
	assert.Equal(t, 0, state.Turns)
}

func TestDedupe_KeepsSidesApart(t *testing.T) {
	findings := []model.Finding{
		{Key: "CN VII", Name: "Facial", Side: model.SideLeft, Category: model.CategoryCranialNerve},
		{Key: "CN VII", Name: "Facial", Side: model.SideRight, Category: model.CategoryCranialNerve},
		{Key: "CN VII", Name: "Facial", Side: model.SideLeft, Category: model.CategoryCranialNerve},
	}

	unique := Dedupe(findings)

	require.Len(t, unique, 2)
	assert.Equal(t, model.SideLeft, unique[0].Side)
	assert.Equal(t, model.SideRight, unique[1].Side)
}
