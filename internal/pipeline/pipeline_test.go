package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/neuroloc/internal/cache"
	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weber = "Sudden left ptosis and mydriasis with right-sided weakness"

func newEngine(t *testing.T) *extract.Engine {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return extract.NewEngine(kb)
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeText_Weber(t *testing.T) {
	engine := newEngine(t)
	p := New(engine)

	report, err := p.AnalyzeText(context.Background(), weber)
	require.NoError(t, err)

	assert.Equal(t, KindText, report.Kind)
	assert.Equal(t, engine.Knowledge().Fingerprint(), report.Catalog)
	require.NotNil(t, report.Result.Syndrome)
	assert.Equal(t, "Weber Syndrome", report.Result.Syndrome.Name)
	assert.Nil(t, report.Session)
	assert.Empty(t, report.Differential)
	assert.Empty(t, report.Territories)
}

func TestAnalyzeText_Invalid(t *testing.T) {
	p := New(newEngine(t))

	_, err := p.AnalyzeText(context.Background(), "   ")
	assert.ErrorIs(t, err, extract.ErrInvalidInput)
}

func TestAnalyzeText_Cancelled(t *testing.T) {
	p := New(newEngine(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.AnalyzeText(ctx, weber)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeText_DifferentialAndTerritories(t *testing.T) {
	p := New(newEngine(t), WithDifferential(1), WithTerritories())

	report, err := p.AnalyzeText(context.Background(), weber)
	require.NoError(t, err)

	require.Len(t, report.Differential, 1)
	assert.Equal(t, "Weber Syndrome", report.Differential[0].Syndrome.Name)

	var keys []string
	for _, terr := range report.Territories {
		keys = append(keys, terr.Key)
	}
	assert.Contains(t, keys, "pca")
	assert.Contains(t, keys, "basilar")
}

func TestAnalyzeTurns_SessionAggregate(t *testing.T) {
	p := New(newEngine(t))

	turns := []model.Turn{
		{Role: "patient", Content: "my face has a droop, the doctor said facial palsy"},
		{Role: "assistant", Content: nil},
		{Role: "patient", Content: "I also have hoarseness"},
	}

	report, err := p.AnalyzeTurns(context.Background(), turns)
	require.NoError(t, err)

	assert.Equal(t, KindTranscript, report.Kind)
	require.NotNil(t, report.Session)
	assert.Equal(t, 2, report.Session.Turns)
	require.NotNil(t, report.Session.Level)
	assert.Equal(t, model.LevelPons, *report.Session.Level)

	// the joined text sees both nerves
	assert.Len(t, report.Result.CranialNerves, 2)
}

func TestAnalyzeTurns_Empty(t *testing.T) {
	p := New(newEngine(t))

	_, err := p.AnalyzeTurns(context.Background(), nil)
	assert.ErrorIs(t, err, extract.ErrInvalidInput)
}

func TestAnalyze_UsesCache(t *testing.T) {
	engine := newEngine(t)
	store := cache.NewMemoryStore(time.Minute, time.Minute)
	p := New(engine, WithCache(cache.NewResults(store, engine.Knowledge().Fingerprint(), 0)))

	first, err := p.AnalyzeText(context.Background(), weber)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	second, err := p.AnalyzeText(context.Background(), weber)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, first.Result, second.Result)
}

func TestAnalyzeFile_Kinds(t *testing.T) {
	dir := t.TempDir()
	p := New(newEngine(t))

	tests := []struct {
		name     string
		file     string
		content  string
		kind     InputKind
		syndrome string
	}{
		{
			name:     "text",
			file:     "note.txt",
			content:  weber,
			kind:     KindText,
			syndrome: "Weber Syndrome",
		},
		{
			name:     "html",
			file:     "note.html",
			content:  "<html><body><p>Left <b>ptosis</b></p><script>tongue deviation</script><p>hemiparesis</p></body></html>",
			kind:     KindHTML,
			syndrome: "Weber Syndrome",
		},
		{
			name:     "json list",
			file:     "chat.json",
			content:  `[{"role":"patient","content":"left ptosis"},{"role":"patient","content":"and weakness"}]`,
			kind:     KindTranscript,
			syndrome: "Weber Syndrome",
		},
		{
			name:     "json envelope",
			file:     "chat2.json",
			content:  `{"messages":[{"role":"patient","content":"tongue deviation on the left"}]}`,
			kind:     KindTranscript,
			syndrome: "Medial Medullary Syndrome",
		},
		{
			name:     "yaml",
			file:     "chat.yaml",
			content:  "- role: patient\n  content: left ptosis\n- role: patient\n  content: 42\n",
			kind:     KindTranscript,
			syndrome: "Weber Syndrome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, dir, tt.file, tt.content)

			report, err := p.AnalyzeFile(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, report.Kind)
			assert.Equal(t, path, report.Source)
			require.NotNil(t, report.Result.Syndrome)
			assert.Equal(t, tt.syndrome, report.Result.Syndrome.Name)
		})
	}
}

func TestAnalyzeFile_HTMLSkipsScripts(t *testing.T) {
	dir := t.TempDir()
	p := New(newEngine(t))
	path := writeInput(t, dir, "note.html", "<p>vertigo</p><script>tongue deviation</script>")

	report, err := p.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, report.Result.CranialNerves, 1)
	assert.Equal(t, "CN VIII", report.Result.CranialNerves[0].Key)
}

func TestAnalyzeFile_Errors(t *testing.T) {
	dir := t.TempDir()
	p := New(newEngine(t))

	_, err := p.AnalyzeFile(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = p.AnalyzeFile(context.Background(), writeInput(t, dir, "scan.pdf", "x"))
	assert.ErrorIs(t, err, extract.ErrInvalidInput)

	_, err = p.AnalyzeFile(context.Background(), writeInput(t, dir, "empty.txt", "\n"))
	assert.ErrorIs(t, err, extract.ErrInvalidInput)

	_, err = p.AnalyzeFile(context.Background(), writeInput(t, dir, "empty.json", "[]"))
	assert.ErrorIs(t, err, extract.ErrInvalidInput)

	_, err = p.AnalyzeFile(context.Background(), writeInput(t, dir, "bad.json", "{not json"))
	assert.Error(t, err)
}

func TestDecodeTranscript_NonStringContent(t *testing.T) {
	turns, err := DecodeTranscript([]byte(`[{"role":"user","content":"ptosis"},{"role":"user","content":["a"]},{"role":"user"}]`), "json")
	require.NoError(t, err)
	require.Len(t, turns, 3)

	assert.Equal(t, "ptosis", extract.JoinTurns(turns))
}

func TestDecodeTranscript_YAMLEnvelope(t *testing.T) {
	turns, err := DecodeTranscript([]byte("messages:\n  - role: patient\n    content: vertigo\n"), "yaml")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "patient", turns[0].Role)

	_, err = DecodeTranscript([]byte("x"), "toml")
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a/b/note.TXT"))
	assert.True(t, Supported("chat.yml"))
	assert.True(t, Supported("page.htm"))
	assert.False(t, Supported("scan.pdf"))
	assert.False(t, Supported("README"))
}
