package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/model"
	"gopkg.in/yaml.v3"
)

// InputKind classifies an input file by extension
type InputKind string

const (
	KindText       InputKind = "text"
	KindHTML       InputKind = "html"
	KindTranscript InputKind = "transcript"
)

// Input is a loaded input file: free text, or a transcript of turns
type Input struct {
	Path  string
	Kind  InputKind
	Text  string
	Turns []model.Turn
}

// KindOf returns the input kind for path and whether it is supported
func KindOf(path string) (InputKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
		return KindText, true
	case ".html", ".htm":
		return KindHTML, true
	case ".json", ".yaml", ".yml":
		return KindTranscript, true
	default:
		return "", false
	}
}

// Supported reports whether path has an extension the pipeline can read
func Supported(path string) bool {
	_, ok := KindOf(path)
	return ok
}

// LoadInput reads and decodes one input file. HTML is reduced to its visible text.
func LoadInput(path string) (*Input, error) {
	kind, ok := KindOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", extract.ErrInvalidInput, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	in := &Input{Path: path, Kind: kind}

	switch kind {
	case KindText:
		in.Text = string(data)
	case KindHTML:
		text, err := extract.VisibleText(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse HTML: %w", err)
		}
		in.Text = text
	case KindTranscript:
		format := "yaml"
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "json"
		}
		turns, err := DecodeTranscript(data, format)
		if err != nil {
			return nil, err
		}
		in.Turns = turns
	}

	return in, nil
}

type transcriptEnvelope struct {
	Messages []model.Turn `json:"messages" yaml:"messages"`
}

// DecodeTranscript decodes a transcript given either as a bare list of
// {role, content} turns or as {"messages": [...]}. format is json or yaml.
func DecodeTranscript(data []byte, format string) ([]model.Turn, error) {
	switch format {
	case "json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var turns []model.Turn
			if err := json.Unmarshal(trimmed, &turns); err != nil {
				return nil, fmt.Errorf("decode transcript: %w", err)
			}
			return turns, nil
		}
		var env transcriptEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		return env.Messages, nil

	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		root := node.Content[0]
		if root.Kind == yaml.SequenceNode {
			var turns []model.Turn
			if err := root.Decode(&turns); err != nil {
				return nil, fmt.Errorf("decode transcript: %w", err)
			}
			return turns, nil
		}
		var env transcriptEnvelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		return env.Messages, nil

	default:
		return nil, fmt.Errorf("unknown transcript format %q", format)
	}
}
