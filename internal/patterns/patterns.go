// Package patterns loads pattern files and evaluates substring path matches.
package patterns

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const commentLinePrefix = "#"

// Load reads a pattern file and returns its patterns in file order.
// An empty path yields an empty pattern set without error; a path that was
// supplied but cannot be read propagates the error. Blank lines and lines
// whose first non-whitespace character is '#' are skipped; all other lines
// are trimmed and used verbatim as literal substrings.
func Load(patternFilePath string) ([]string, error) {
	if patternFilePath == "" {
		return nil, nil
	}

	fileHandle, openFileError := os.Open(patternFilePath)
	if openFileError != nil {
		return nil, fmt.Errorf("opening pattern file %s: %w", patternFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", patternFilePath, closeError)
		}
	}()

	var loadedPatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentLinePrefix) {
			continue
		}
		loadedPatterns = append(loadedPatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading pattern file %s: %w", patternFilePath, scanError)
	}
	return loadedPatterns, nil
}

// MatchesAny reports whether the relative path contains at least one of the
// provided patterns as a literal substring. Matching is intentionally plain
// substring containment, not glob or regex: existing ignore files rely on it.
// An empty pattern set never matches.
func MatchesAny(relativePath string, candidatePatterns []string) bool {
	for _, patternValue := range candidatePatterns {
		if strings.Contains(relativePath, patternValue) {
			return true
		}
	}
	return false
}
