package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/pipeline"
)

// mockAnalyzer fails for paths containing "bad"
type mockAnalyzer struct{}

func (m *mockAnalyzer) AnalyzeFile(ctx context.Context, path string) (*pipeline.Report, error) {
	time.Sleep(5 * time.Millisecond)
	if strings.Contains(path, "bad") {
		return nil, errors.New("analysis error")
	}
	return &pipeline.Report{Source: path}, nil
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0, nil)

	paths := []string{"a.txt", "bad.txt", "c.txt"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("expected result %d for %s, got %s", i, paths[i], res.Path)
		}
	}

	if results[0].Error != nil || results[0].Report == nil {
		t.Errorf("expected report for a.txt, got %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Error("expected error and nil report for bad.txt")
	}
	if results[2].Error != nil {
		t.Errorf("one failure should not stop the batch: %v", results[2].Error)
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0, nil)

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 1, 0, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessPaths(ctx, []string{"a.txt", "b.txt"})
	if len(results) != 2 {
		t.Fatalf("expected a result per path, got %d", len(results))
	}
	for _, res := range results {
		if res.Error == nil {
			t.Errorf("expected %s to report cancellation", res.Path)
		}
	}
}

func TestFileResult_GetError(t *testing.T) {
	r1 := &FileResult{Path: "a.txt"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("failed")
	r2 := &FileResult{Path: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := writeTemp(t, dir, "inputs.txt", "notes/a.txt\n# comment\n/abs/b.json\n   \nnotes/a.txt\n  notes/c.html  ")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "notes", "a.txt"),
		"/abs/b.json",
		filepath.Join(dir, "notes", "c.html"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i := range paths {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestCollectInputs_Directory(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "b.txt", "x")
	writeTemp(t, dir, "a.json", "[]")
	writeTemp(t, dir, "sub/c.html", "<p>x</p>")
	writeTemp(t, dir, "skip.pdf", "x")
	writeTemp(t, dir, ".neuroloc-cache/entry.json", "{}")

	paths, err := CollectInputs(dir)
	if err != nil {
		t.Fatalf("CollectInputs failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "c.html"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
	for i := range paths {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestCollectInputs_Missing(t *testing.T) {
	if _, err := CollectInputs(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestCollectInputs_ExcludesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "note.txt", "x")
	writeTemp(t, dir, "reports/note.json", "{}")
	writeTemp(t, dir, "reports/deep/other.txt", "x")
	writeTemp(t, dir, "reports-old/kept.txt", "x")

	paths, err := CollectInputs(dir, filepath.Join(dir, "reports"))
	if err != nil {
		t.Fatalf("CollectInputs failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "note.txt"),
		filepath.Join(dir, "reports-old", "kept.txt"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
	for i := range paths {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestCollectInputs_ListFileExcludesDirectory(t *testing.T) {
	dir := t.TempDir()
	list := writeTemp(t, dir, "inputs.txt", "note.txt\nreports/note.json\n")

	paths, err := CollectInputs(list, filepath.Join(dir, "reports"))
	if err != nil {
		t.Fatalf("CollectInputs failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "note.txt") {
		t.Errorf("expected only note.txt, got %v", paths)
	}
}

func TestBatchProcessor_ExcludeSkipsOutputOnRerun(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "note.txt", "x")
	out := filepath.Join(dir, "reports")

	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0, nil)
	processor.Exclude(out)

	for run := 1; run <= 2; run++ {
		results, err := processor.Process(context.Background(), dir)
		if err != nil {
			t.Fatalf("run %d: Process failed: %v", run, err)
		}
		if len(results) != 1 {
			t.Fatalf("run %d: expected 1 result, got %d", run, len(results))
		}
		// What a report writer would leave behind
		writeTemp(t, out, "note.json", "{}")
	}
}

func TestBatchProcessor_Process_WithPipeline(t *testing.T) {
	kb, err := knowledge.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.New(extract.NewEngine(kb))

	dir := t.TempDir()
	writeTemp(t, dir, "weber.txt", "Sudden left ptosis and mydriasis with right-sided weakness")
	writeTemp(t, dir, "chat.json", `[{"role":"patient","content":"tongue deviation"}]`)
	writeTemp(t, dir, "empty.txt", "")

	processor := NewBatchProcessor(p, 2, 100, 10, nil)
	results, err := processor.Process(context.Background(), dir)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// sorted: chat.json, empty.txt, weber.txt
	if results[0].Error != nil || results[0].Report.Result.Syndrome == nil ||
		results[0].Report.Result.Syndrome.Name != "Medial Medullary Syndrome" {
		t.Errorf("unexpected result for chat.json: %+v", results[0])
	}
	if !errors.Is(results[1].Error, extract.ErrInvalidInput) {
		t.Errorf("expected invalid input for empty.txt, got %v", results[1].Error)
	}
	if results[2].Error != nil || results[2].Report.Result.Syndrome == nil ||
		results[2].Report.Result.Syndrome.Name != "Weber Syndrome" {
		t.Errorf("unexpected result for weber.txt: %+v", results[2])
	}
}
