package dump

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/vomit/internal/patterns"
	"github.com/temirov/vomit/internal/tokenizer"
	"github.com/temirov/vomit/internal/utils"
)

const (
	// OutputFileName is the fixed artifact filename written inside the walk root.
	OutputFileName = "vomit.txt"
	// tempFilePattern names the temporary sibling used for the atomic replace.
	tempFilePattern = OutputFileName + ".tmp-*"

	warningAccessPathFormat = "Warning: error accessing path %s: %v\n"

	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	errorWalkFormat         = "walking %s: %w"
	errorCreateTempFormat   = "creating temporary output in %s: %w"
	errorWriteTempFormat    = "writing temporary output %s: %w"
	errorCloseTempFormat    = "closing temporary output %s: %w"
	errorRenameFormat       = "replacing %s: %w"
)

// Options configures a single dump invocation.
type Options struct {
	Root             string
	IgnorePatterns   []string
	ContainsPatterns []string
	ReportTokens     bool
	Counter          tokenizer.Counter
	// BannerWriter receives the marker-stripped token banner when reporting
	// is requested. Nil disables the console mirror.
	BannerWriter io.Writer
}

// Result summarizes a completed dump.
type Result struct {
	OutputPath  string
	Artifact    string
	ChunkCount  int
	TotalTokens int
}

// Run walks the directory tree rooted at Options.Root, applies the ignore and
// inclusion filters to every regular file, builds one Chunk per surviving
// file in walk order, and writes the assembled artifact to vomit.txt inside
// the root via a temporary sibling and an atomic rename. The output file is
// never part of its own dump. Token entries accumulate only when reporting
// was requested.
func Run(options Options) (*Result, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(options.Root)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, options.Root, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	chunkBuilder := Builder{Counter: options.Counter}
	var collectedChunks []Chunk
	var tokenEntries []TokenEntry

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			if walkedPath == cleanedRootPath {
				return accessError
			}
			fmt.Fprintf(os.Stderr, warningAccessPathFormat, walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == OutputFileName {
			return nil
		}
		if patterns.MatchesAny(relativePath, options.IgnorePatterns) {
			return nil
		}
		if len(options.ContainsPatterns) > 0 && !patterns.MatchesAny(relativePath, options.ContainsPatterns) {
			return nil
		}

		builtChunk := chunkBuilder.Build(relativePath, walkedPath)
		collectedChunks = append(collectedChunks, builtChunk)
		if options.ReportTokens {
			tokenEntries = append(tokenEntries, TokenEntry{RelativePath: builtChunk.RelativePath, Tokens: builtChunk.Tokens})
		}
		return nil
	})
	if directoryWalkError != nil {
		return nil, fmt.Errorf(errorWalkFormat, cleanedRootPath, directoryWalkError)
	}

	tokenBanner := ""
	totalTokens := 0
	if options.ReportTokens {
		tokenBanner = FormatTokenTable(tokenEntries)
		for _, tokenEntry := range tokenEntries {
			totalTokens += tokenEntry.Tokens
		}
	}

	var artifactBuilder strings.Builder
	artifactBuilder.WriteString(tokenBanner)
	for _, builtChunk := range collectedChunks {
		artifactBuilder.WriteString(builtChunk.Text)
	}
	artifactText := artifactBuilder.String()

	outputPath := filepath.Join(cleanedRootPath, OutputFileName)
	if writeError := writeAtomic(cleanedRootPath, outputPath, artifactText); writeError != nil {
		return nil, writeError
	}

	if options.ReportTokens && options.BannerWriter != nil && tokenBanner != "" {
		fmt.Fprint(options.BannerWriter, StripCommentMarkers(tokenBanner))
	}

	return &Result{
		OutputPath:  outputPath,
		Artifact:    artifactText,
		ChunkCount:  len(collectedChunks),
		TotalTokens: totalTokens,
	}, nil
}

// writeAtomic writes content to a temporary file in directory and renames it
// over outputPath, so the output is never observed in a partially written
// state and a failed write leaves a prior artifact intact.
func writeAtomic(directory string, outputPath string, content string) error {
	tempFile, createTempError := os.CreateTemp(directory, tempFilePattern)
	if createTempError != nil {
		return fmt.Errorf(errorCreateTempFormat, directory, createTempError)
	}
	tempPath := tempFile.Name()

	if _, writeError := tempFile.WriteString(content); writeError != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf(errorWriteTempFormat, tempPath, writeError)
	}
	if closeError := tempFile.Close(); closeError != nil {
		os.Remove(tempPath)
		return fmt.Errorf(errorCloseTempFormat, tempPath, closeError)
	}
	if renameError := os.Rename(tempPath, outputPath); renameError != nil {
		os.Remove(tempPath)
		return fmt.Errorf(errorRenameFormat, outputPath, renameError)
	}
	return nil
}
