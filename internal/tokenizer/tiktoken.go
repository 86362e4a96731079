package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// tiktokenCounter is the precise strategy: it counts tokens by encoding the
// input with a tiktoken BPE encoding and measuring the resulting identifier
// sequence.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("tiktoken encoding not initialized")
	}
	encodedTokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(encodedTokenIDs), nil
}
