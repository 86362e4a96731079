// Package tokenizer estimates token counts for text content.
package tokenizer

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter selects a Counter implementation once per run. It prefers the
// tiktoken encoding for the requested model, then the default encoding, and
// finally the word-count approximation. Selection never fails: when no
// precise tokenizer initializes, the degraded strategy is returned instead.
func NewCounter(cfg Config) Counter {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	lowerModel := strings.ToLower(model)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: lowerModel}
	}
	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError == nil && fallbackEncoding != nil {
		return tiktokenCounter{encoding: fallbackEncoding, name: defaultEncodingName}
	}
	return wordCounter{}
}
