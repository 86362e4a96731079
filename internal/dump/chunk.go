// Package dump assembles the vomit.txt artifact from a filtered directory walk.
package dump

import (
	"fmt"
	"os"
	"strings"

	"github.com/temirov/vomit/internal/tokenizer"
	"github.com/temirov/vomit/internal/utils"
)

const (
	// chunkFormat wraps a file body with delimiter lines and blank-line padding.
	chunkFormat = "\n// ===== BEGIN: %s =====\n%s// ===== END  : %s =====\n"
	// readErrorBodyFormat is the placeholder body for a file that could not be read.
	readErrorBodyFormat = "// ERROR reading %s: %v"
	// binaryBodyPlaceholder is the placeholder body for binary file content.
	binaryBodyPlaceholder = "// (binary content omitted)"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"
)

// Chunk is one file's delimited representation inside the dump artifact.
// Chunks are built once per file and never mutated.
type Chunk struct {
	RelativePath string
	Text         string
	Tokens       int
}

// Builder wraps file contents into delimited chunks and estimates their token counts.
type Builder struct {
	Counter tokenizer.Counter
}

// Build reads the file at fullPath and produces its Chunk. A read failure or
// binary content substitutes a one-line placeholder body instead of failing:
// one unreadable file never aborts the dump. The body always ends with a
// trailing newline, and the token count covers the (possibly substituted) body.
// A counter failure degrades to the word-count approximation rather than
// recording zero tokens for a non-empty body.
func (builder Builder) Build(relativePath string, fullPath string) Chunk {
	fileBytes, fileReadError := os.ReadFile(fullPath)

	var body string
	switch {
	case fileReadError != nil:
		body = fmt.Sprintf(readErrorBodyFormat, relativePath, fileReadError)
	case utils.IsBinary(fileBytes):
		body = binaryBodyPlaceholder
	default:
		body = string(fileBytes)
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	tokenCount := 0
	if builder.Counter != nil {
		countedTokens, countError := builder.Counter.CountString(body)
		if countError != nil {
			fmt.Fprintf(os.Stderr, warningTokenCountFormat, relativePath, countError)
			countedTokens, _ = tokenizer.NewWordCounter().CountString(body)
		}
		tokenCount = countedTokens
	}

	return Chunk{
		RelativePath: relativePath,
		Text:         fmt.Sprintf(chunkFormat, relativePath, body, relativePath),
		Tokens:       tokenCount,
	}
}
