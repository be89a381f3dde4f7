// Package pipeline loads inputs, runs the extraction engine with optional
// caching, and assembles and renders reports.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/neuroloc/internal/cache"
	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/ppiankov/neuroloc/internal/session"
	"go.uber.org/zap"
)

// Report is the full analysis of one input
type Report struct {
	Source       string                      `json:"source,omitempty"`
	Kind         InputKind                   `json:"kind"`
	Catalog      string                      `json:"catalog"`
	AnalyzedAt   time.Time                   `json:"analyzedAt"`
	Result       model.ParseResult           `json:"result"`
	Session      *model.SessionFindingState  `json:"session,omitempty"`
	Differential []extract.DifferentialEntry `json:"differential,omitempty"`
	Territories  []model.Territory           `json:"territories,omitempty"`
}

// Pipeline analyzes inputs with one shared engine
type Pipeline struct {
	engine            *extract.Engine
	results           *cache.Results
	logger            *zap.Logger
	differentialLimit int
	differential      bool
	territories       bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithCache memoizes parse results; nil disables caching
func WithCache(results *cache.Results) Option {
	return func(p *Pipeline) { p.results = results }
}

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDifferential adds a differential listing of at most limit syndromes; limit <= 0 lists all
func WithDifferential(limit int) Option {
	return func(p *Pipeline) {
		p.differential = true
		p.differentialLimit = limit
	}
}

// WithTerritories adds the vascular territories implicated by the findings
func WithTerritories() Option {
	return func(p *Pipeline) { p.territories = true }
}

// New creates a pipeline around engine
func New(engine *extract.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{engine: engine, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnalyzeText analyzes one free-text input
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := extract.ValidateText(text); err != nil {
		return nil, err
	}

	return p.report(KindText, p.parse(text)), nil
}

// AnalyzeTurns analyzes a transcript. The result covers the whole
// conversation as one text; Session holds the turn-by-turn aggregate.
func (p *Pipeline) AnalyzeTurns(ctx context.Context, turns []model.Turn) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := extract.ValidateTurns(turns); err != nil {
		return nil, err
	}

	report := p.report(KindTranscript, p.parse(extract.JoinTurns(turns)))

	state := model.NewSessionFindingState()
	for _, turn := range turns {
		text, ok := turn.Text()
		if !ok {
			continue
		}
		state = session.Fold(state, p.parse(text))
	}
	report.Session = &state

	return report, nil
}

// AnalyzeFile loads and analyzes one input file
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*Report, error) {
	in, err := LoadInput(path)
	if err != nil {
		return nil, err
	}

	report, err := p.AnalyzeInput(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// AnalyzeInput analyzes an already loaded input
func (p *Pipeline) AnalyzeInput(ctx context.Context, in *Input) (*Report, error) {
	var (
		report *Report
		err    error
	)

	if in.Kind == KindTranscript {
		report, err = p.AnalyzeTurns(ctx, in.Turns)
	} else {
		report, err = p.AnalyzeText(ctx, in.Text)
		if report != nil {
			report.Kind = in.Kind
		}
	}
	if err != nil {
		return nil, err
	}

	report.Source = in.Path
	return report, nil
}

func (p *Pipeline) report(kind InputKind, result model.ParseResult) *Report {
	report := &Report{
		Kind:       kind,
		Catalog:    p.engine.Knowledge().Fingerprint(),
		AnalyzedAt: time.Now().UTC(),
		Result:     result,
	}

	if p.differential {
		report.Differential = p.engine.Differential(result, p.differentialLimit)
	}
	if p.territories {
		report.Territories = p.engine.Knowledge().TerritoriesFor(result)
	}

	return report
}

func (p *Pipeline) parse(text string) model.ParseResult {
	if p.results != nil {
		if result, ok := p.results.Get(text); ok {
			p.logger.Debug("cache hit", zap.Int("chars", len(text)))
			return result
		}
	}

	result := p.engine.Parse(text)

	if p.results != nil {
		if err := p.results.Put(text, result); err != nil {
			p.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	return result
}
