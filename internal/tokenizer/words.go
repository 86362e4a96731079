package tokenizer

import (
	"strings"
)

const wordCounterName = "words"

// wordCounter approximates token counts as the number of whitespace-delimited
// words, with a floor of one for non-empty text. It is the degraded strategy
// used when no tiktoken encoding could be initialized; counts are
// approximations and make no claim of tokenizer parity.
type wordCounter struct{}

func (wordCounter) Name() string {
	return wordCounterName
}

func (wordCounter) CountString(input string) (int, error) {
	if len(input) == 0 {
		return 0, nil
	}
	wordCount := len(strings.Fields(input))
	if wordCount == 0 {
		wordCount = 1
	}
	return wordCount, nil
}

// NewWordCounter returns the approximate word-count Counter.
func NewWordCounter() Counter {
	return wordCounter{}
}
