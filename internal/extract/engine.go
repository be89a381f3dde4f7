// Package extract turns free clinical text into typed neurological findings
// and matches them against the syndrome catalog.
package extract

import (
	"strings"

	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
	"go.uber.org/zap"
)

// Engine is the finding extraction and syndrome localization engine. Build
// one at startup and share it; it holds no mutable state.
type Engine struct {
	kb        *knowledge.Base
	matcher   *Matcher
	syndromes *SyndromeMatcher
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine builds an engine over a loaded knowledge base
func NewEngine(kb *knowledge.Base, opts ...Option) *Engine {
	e := &Engine{
		kb:        kb,
		matcher:   NewMatcher(kb),
		syndromes: NewSyndromeMatcher(kb),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Knowledge returns the catalog the engine was built from
func (e *Engine) Knowledge() *knowledge.Base {
	return e.kb
}

// Parse extracts findings from text. Empty text yields an empty result.
func (e *Engine) Parse(text string) model.ParseResult {
	lower := strings.ToLower(text)
	side := detectLaterality(lower)

	result := e.matcher.Match(lower, side)

	if len(result.CranialNerves) > 0 {
		pattern, ok, err := e.syndromes.Match(result)
		if err != nil {
			e.logger.Warn("syndrome matching skipped", zap.Error(err))
		} else if ok {
			result.Syndrome = &pattern
		}
	}

	if ce := e.logger.Check(zap.DebugLevel, "parsed text"); ce != nil {
		fields := []zap.Field{
			zap.Int("chars", len(text)),
			zap.String("side", string(side)),
			zap.Int("cranial_nerves", len(result.CranialNerves)),
			zap.Int("tracts", len(result.Tracts)),
			zap.Int("additional", len(result.Additional)),
		}
		if result.Level != nil {
			fields = append(fields, zap.String("level", string(*result.Level)))
		}
		if result.Syndrome != nil {
			fields = append(fields, zap.String("syndrome", result.Syndrome.Name))
		}
		ce.Write(fields...)
	}

	return result
}

// ExtractFromTurns parses a whole transcript as one text
func (e *Engine) ExtractFromTurns(turns []model.Turn) model.ParseResult {
	return e.Parse(JoinTurns(turns))
}

// JoinTurns concatenates the string contents of turns with single spaces.
// Turns whose content is not a string are skipped.
func JoinTurns(turns []model.Turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		if s, ok := t.Text(); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
