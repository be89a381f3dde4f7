package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ppiankov/neuroloc/internal/cache"
	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/ppiankov/neuroloc/internal/pipeline"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger. Logs go to stderr so stdout stays
// machine readable.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = !debug

	return zc.Build()
}

// loadKnowledge loads the configured catalog. A malformed catalog yields a
// *model.ConfigurationError, which is fatal.
func loadKnowledge(c *model.Config) (*knowledge.Base, error) {
	if c.Knowledge.CatalogPath == "" {
		return knowledge.Default()
	}
	return knowledge.LoadFile(c.Knowledge.CatalogPath)
}

func newEngine() (*extract.Engine, error) {
	kb, err := loadKnowledge(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("catalog loaded",
		zap.Int("version", kb.Version()),
		zap.String("fingerprint", kb.Fingerprint()),
		zap.Int("cranial_nerves", len(kb.CranialNerves())),
		zap.Int("syndromes", len(kb.Syndromes())),
	)

	return extract.NewEngine(kb, extract.WithLogger(logger)), nil
}

// newResultCache builds the layered memory+disk result cache, or nil when disabled
func newResultCache(c *model.Config, fingerprint string) *cache.Results {
	if !c.Cache.Enabled {
		return nil
	}

	memory := cache.NewMemoryStore(c.Cache.MemoryTTL, cleanupInterval(c.Cache.MemoryTTL))
	disk := cache.NewDiskStore(filepath.Clean(c.Cache.Dir), c.Cache.DiskTTL)

	return cache.NewResults(cache.NewLayeredStore(memory, disk), fingerprint, 0)
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Minute
	}
	return ttl
}

// writeReport prints report in format. With resultOnly, JSON output is the
// bare parse result.
func writeReport(w io.Writer, report *pipeline.Report, format string, resultOnly bool) error {
	r := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	switch format {
	case "json", "":
		if resultOnly {
			return r.WriteJSON(w, report.Result)
		}
		return r.WriteJSON(w, report)
	case "md", "markdown":
		return r.WriteMarkdown(w, report)
	default:
		return fmt.Errorf("unknown format %q (want json or md)", format)
	}
}
