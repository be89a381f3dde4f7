package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/neuroloc/internal/pipeline"
	"go.uber.org/zap"
)

// Analyzer analyzes one input file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*pipeline.Report, error)
}

// FileJob analyzes a single transcript or note
type FileJob struct {
	Path     string
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute waits for the rate limiter, then runs the analysis
func (j *FileJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Path); err != nil {
			return &FileResult{Path: j.Path, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	if err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}
	return &FileResult{Path: j.Path, Report: report}
}

// FileResult is the outcome of analyzing one file
type FileResult struct {
	Path   string
	Report *pipeline.Report
	Error  error
}

// GetError returns the analysis error, if any
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many files concurrently. A failing file is
// reported in its result and does not stop the others.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	logger      *zap.Logger
	exclude     []string
}

// NewBatchProcessor creates a processor. requestsPerSecond <= 0 disables throttling.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
		logger:      logger,
	}
}

// Exclude keeps Process from collecting inputs under dirs, such as the
// directory reports are written to
func (b *BatchProcessor) Exclude(dirs ...string) {
	b.exclude = append(b.exclude, dirs...)
}

// ProcessPaths analyzes paths and returns one result per path, in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{Path: path, Analyzer: b.analyzer, Limiter: b.limiter})
	}

	results := pool.Wait()

	out := make([]*FileResult, len(paths))
	for i, path := range paths {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*FileResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &FileResult{Path: path, Error: fmt.Errorf("not processed: %w", err)}
	}

	for _, r := range out {
		if r.Error != nil {
			b.logger.Warn("analysis failed", zap.String("path", r.Path), zap.Error(r.Error))
		} else {
			b.logger.Debug("analysis done", zap.String("path", r.Path))
		}
	}

	return out
}

// Process analyzes every input named by source, which is either a directory
// or a list file
func (b *BatchProcessor) Process(ctx context.Context, source string) ([]*FileResult, error) {
	paths, err := CollectInputs(source, b.exclude...)
	if err != nil {
		return nil, fmt.Errorf("collect inputs: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// CollectInputs expands source into input paths. A directory yields every
// supported file beneath it, sorted. Any other file is read as a list.
// Paths inside an exclude directory are left out either way.
func CollectInputs(source string, exclude ...string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	skip := newExcludeSet(exclude)
	if info.IsDir() {
		return readDir(source, skip)
	}

	listed, err := ReadPathsFromFile(source)
	if err != nil {
		return nil, err
	}
	paths := listed[:0]
	for _, path := range listed {
		if !skip.contains(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// excludeSet holds absolute, cleaned directory paths
type excludeSet []string

func newExcludeSet(dirs []string) excludeSet {
	var set excludeSet
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			set = append(set, abs)
		}
	}
	return set
}

// contains reports whether path is one of the directories or lies beneath one
func (s excludeSet) contains(path string) bool {
	if len(s) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range s {
		rel, err := filepath.Rel(dir, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func readDir(dir string, skip excludeSet) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if path != dir && skip.contains(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if pipeline.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadPathsFromFile reads input paths from a list file, one per line.
// Blank lines and # comments are skipped, duplicates dropped, and relative
// paths resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
