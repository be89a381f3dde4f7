package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/ppiankov/neuroloc/internal/model"
)

// SyndromeMatcher evaluates the syndrome catalog against a set of findings
type SyndromeMatcher struct {
	patterns []model.SyndromePattern
}

// NewSyndromeMatcher captures the syndrome catalog of kb in priority order
func NewSyndromeMatcher(kb *knowledge.Base) *SyndromeMatcher {
	return &SyndromeMatcher{patterns: kb.Syndromes()}
}

// Match returns the first pattern, in catalog order, whose ipsilateral
// requirements all appear in the serialized findings. A requirement appears
// when its base name is a substring of the serialization, so "CN V" is also
// satisfied by "CN VII". Contralateral requirements are not evaluated.
//
// Match does not check for cranial nerve findings; the engine only calls it
// when at least one is present.
func (m *SyndromeMatcher) Match(result model.ParseResult) (model.SyndromePattern, bool, error) {
	serialized, err := serializeFindings(result)
	if err != nil {
		return model.SyndromePattern{}, false, err
	}

	for _, p := range m.patterns {
		if satisfiesIpsilateral(p, serialized) {
			return p, true, nil
		}
	}
	return model.SyndromePattern{}, false, nil
}

func satisfiesIpsilateral(p model.SyndromePattern, serialized string) bool {
	for _, req := range p.Ipsilateral() {
		if !strings.Contains(serialized, req.Finding) {
			return false
		}
	}
	return true
}

// serializeFindings renders the findings detected so far as JSON, with the
// syndrome field still unset.
func serializeFindings(result model.ParseResult) (string, error) {
	result.Syndrome = nil
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("serialize findings: %w", err)
	}
	return string(data), nil
}
