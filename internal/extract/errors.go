package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
)

// ErrInvalidInput is returned by the boundary checks when there is nothing to parse
var ErrInvalidInput = errors.New("invalid input")

// ValidateText rejects empty text. The engine itself accepts empty text and
// returns an empty result; callers at the request boundary check first.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	return nil
}

// ValidateTurns rejects an empty transcript
func ValidateTurns(turns []model.Turn) error {
	if len(turns) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidInput)
	}
	return nil
}
