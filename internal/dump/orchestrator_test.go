package dump_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/vomit/internal/dump"
	"github.com/temirov/vomit/internal/tokenizer"
)

// writeFixtureFile creates a file under rootDirectory, creating parents as needed.
func writeFixtureFile(testingInstance *testing.T, rootDirectory string, relativePath string, content string) {
	testingInstance.Helper()
	fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating fixture directory for %s: %v", relativePath, mkdirError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o600); writeError != nil {
		testingInstance.Fatalf("writing fixture %s: %v", relativePath, writeError)
	}
}

func runDump(testingInstance *testing.T, options dump.Options) *dump.Result {
	testingInstance.Helper()
	if options.Counter == nil {
		options.Counter = tokenizer.NewWordCounter()
	}
	dumpResult, runError := dump.Run(options)
	if runError != nil {
		testingInstance.Fatalf("Run error: %v", runError)
	}
	return dumpResult
}

func TestRunIgnoresMatchingPaths(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello world")
	writeFixtureFile(testingInstance, rootDirectory, ".git/config", "[core]")

	dumpResult := runDump(testingInstance, dump.Options{
		Root:           rootDirectory,
		IgnorePatterns: []string{".git/"},
	})

	if dumpResult.ChunkCount != 1 {
		testingInstance.Fatalf("expected 1 chunk, got %d", dumpResult.ChunkCount)
	}
	if !strings.Contains(dumpResult.Artifact, "// ===== BEGIN: a.txt =====") {
		testingInstance.Errorf("expected a.txt chunk in artifact: %q", dumpResult.Artifact)
	}
	if strings.Contains(dumpResult.Artifact, ".git/config") {
		testingInstance.Errorf("ignored path leaked into artifact: %q", dumpResult.Artifact)
	}
}

func TestRunInclusionFilterRestrictsFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "README.md", "# readme")
	writeFixtureFile(testingInstance, rootDirectory, "notes.txt", "notes")

	dumpResult := runDump(testingInstance, dump.Options{
		Root:             rootDirectory,
		ContainsPatterns: []string{".md"},
	})

	if dumpResult.ChunkCount != 1 {
		testingInstance.Fatalf("expected 1 chunk, got %d", dumpResult.ChunkCount)
	}
	if !strings.Contains(dumpResult.Artifact, "// ===== BEGIN: README.md =====") {
		testingInstance.Errorf("expected README.md chunk in artifact: %q", dumpResult.Artifact)
	}
	if strings.Contains(dumpResult.Artifact, "notes.txt") {
		testingInstance.Errorf("excluded file leaked into artifact: %q", dumpResult.Artifact)
	}
}

// TestRunSelfExclusionAndIdempotence verifies the output file never dumps
// itself and that an unchanged rerun produces a byte-identical artifact.
func TestRunSelfExclusionAndIdempotence(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello world")

	firstResult := runDump(testingInstance, dump.Options{Root: rootDirectory, ReportTokens: true})
	firstArtifact, firstReadError := os.ReadFile(firstResult.OutputPath)
	if firstReadError != nil {
		testingInstance.Fatalf("reading first artifact: %v", firstReadError)
	}

	secondResult := runDump(testingInstance, dump.Options{Root: rootDirectory, ReportTokens: true})
	secondArtifact, secondReadError := os.ReadFile(secondResult.OutputPath)
	if secondReadError != nil {
		testingInstance.Fatalf("reading second artifact: %v", secondReadError)
	}

	if strings.Contains(string(secondArtifact), "// ===== BEGIN: "+dump.OutputFileName) {
		testingInstance.Errorf("output file dumped itself: %q", string(secondArtifact))
	}
	if !bytes.Equal(firstArtifact, secondArtifact) {
		testingInstance.Errorf("rerun produced a different artifact:\nfirst: %q\nsecond: %q", firstArtifact, secondArtifact)
	}
}

func TestRunWalkOrderIsDeterministic(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "b.txt", "second")
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "first")

	dumpResult := runDump(testingInstance, dump.Options{Root: rootDirectory})

	firstIndex := strings.Index(dumpResult.Artifact, "BEGIN: a.txt")
	secondIndex := strings.Index(dumpResult.Artifact, "BEGIN: b.txt")
	if firstIndex < 0 || secondIndex < 0 || firstIndex > secondIndex {
		testingInstance.Fatalf("expected a.txt chunk before b.txt chunk: %q", dumpResult.Artifact)
	}
}

func TestRunTokenBannerTotalsAndMirror(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "one two three")
	writeFixtureFile(testingInstance, rootDirectory, "b.txt", "four five")

	var consoleBuffer bytes.Buffer
	dumpResult := runDump(testingInstance, dump.Options{
		Root:         rootDirectory,
		ReportTokens: true,
		BannerWriter: &consoleBuffer,
	})

	if dumpResult.TotalTokens != 5 {
		testingInstance.Fatalf("expected total of 5 tokens, got %d", dumpResult.TotalTokens)
	}
	if !strings.Contains(dumpResult.Artifact, "// ===== TOKEN USAGE (≈) =====") {
		testingInstance.Errorf("expected token banner in artifact: %q", dumpResult.Artifact)
	}
	if !strings.Contains(dumpResult.Artifact, "//       5  TOTAL") {
		testingInstance.Errorf("expected TOTAL line summing to 5: %q", dumpResult.Artifact)
	}
	if !strings.Contains(consoleBuffer.String(), "TOTAL") {
		testingInstance.Errorf("expected banner mirror on the console writer: %q", consoleBuffer.String())
	}
	if strings.Contains(consoleBuffer.String(), "//") {
		testingInstance.Errorf("console mirror kept comment markers: %q", consoleBuffer.String())
	}
}

func TestRunWithoutTokensOmitsBanner(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello")

	dumpResult := runDump(testingInstance, dump.Options{Root: rootDirectory})

	if strings.Contains(dumpResult.Artifact, "TOKEN USAGE") {
		testingInstance.Fatalf("banner present without token reporting: %q", dumpResult.Artifact)
	}
}

func TestRunEmptyRootWritesEmptyArtifact(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()

	dumpResult := runDump(testingInstance, dump.Options{Root: rootDirectory, ReportTokens: true})

	if dumpResult.ChunkCount != 0 {
		testingInstance.Fatalf("expected no chunks for empty root, got %d", dumpResult.ChunkCount)
	}
	artifactBytes, readError := os.ReadFile(dumpResult.OutputPath)
	if readError != nil {
		testingInstance.Fatalf("reading artifact: %v", readError)
	}
	if len(artifactBytes) != 0 {
		testingInstance.Errorf("expected empty artifact, got %q", artifactBytes)
	}
}

func TestRunLeavesNoTemporaryFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello")

	runDump(testingInstance, dump.Options{Root: rootDirectory})

	leftoverTempFiles, globError := filepath.Glob(filepath.Join(rootDirectory, dump.OutputFileName+".tmp-*"))
	if globError != nil {
		testingInstance.Fatalf("globbing temp files: %v", globError)
	}
	if len(leftoverTempFiles) != 0 {
		testingInstance.Fatalf("temporary files left behind: %v", leftoverTempFiles)
	}
}

// TestRunFailedWritePreservesPriorArtifact verifies the atomic-replace
// guarantee: when the temporary write cannot happen, the previous good
// artifact stays byte-identical and no temporary file remains.
func TestRunFailedWritePreservesPriorArtifact(testingInstance *testing.T) {
	if os.Geteuid() == 0 {
		testingInstance.Skip("directory permission bits do not bind the superuser")
	}

	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello world")

	firstResult := runDump(testingInstance, dump.Options{Root: rootDirectory})
	priorArtifact, priorReadError := os.ReadFile(firstResult.OutputPath)
	if priorReadError != nil {
		testingInstance.Fatalf("reading prior artifact: %v", priorReadError)
	}

	writeFixtureFile(testingInstance, rootDirectory, "b.txt", "newer content")
	testingInstance.Cleanup(func() {
		os.Chmod(rootDirectory, 0o755)
	})
	if chmodError := os.Chmod(rootDirectory, 0o555); chmodError != nil {
		testingInstance.Fatalf("making root read-only: %v", chmodError)
	}

	_, runError := dump.Run(dump.Options{Root: rootDirectory, Counter: tokenizer.NewWordCounter()})
	if runError == nil {
		testingInstance.Fatalf("expected error when the temporary file cannot be created")
	}

	currentArtifact, currentReadError := os.ReadFile(firstResult.OutputPath)
	if currentReadError != nil {
		testingInstance.Fatalf("reading artifact after failed run: %v", currentReadError)
	}
	if !bytes.Equal(priorArtifact, currentArtifact) {
		testingInstance.Errorf("failed write corrupted the prior artifact:\nprior: %q\ncurrent: %q", priorArtifact, currentArtifact)
	}
	leftoverTempFiles, globError := filepath.Glob(filepath.Join(rootDirectory, dump.OutputFileName+".tmp-*"))
	if globError != nil {
		testingInstance.Fatalf("globbing temp files: %v", globError)
	}
	if len(leftoverTempFiles) != 0 {
		testingInstance.Errorf("temporary files left behind: %v", leftoverTempFiles)
	}
}

// TestRunRenameFailureCleansUpTemporaryFile forces the rename step to fail by
// occupying the output path with a directory.
func TestRunRenameFailureCleansUpTemporaryFile(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "a.txt", "hello")
	writeFixtureFile(testingInstance, rootDirectory, dump.OutputFileName+"/inner.txt", "occupied")

	_, runError := dump.Run(dump.Options{Root: rootDirectory, Counter: tokenizer.NewWordCounter()})
	if runError == nil {
		testingInstance.Fatalf("expected error when the output path is a directory")
	}

	leftoverTempFiles, globError := filepath.Glob(filepath.Join(rootDirectory, dump.OutputFileName+".tmp-*"))
	if globError != nil {
		testingInstance.Fatalf("globbing temp files: %v", globError)
	}
	if len(leftoverTempFiles) != 0 {
		testingInstance.Fatalf("temporary files left behind: %v", leftoverTempFiles)
	}
}

func TestRunMissingRootFails(testingInstance *testing.T) {
	missingRoot := filepath.Join(testingInstance.TempDir(), "absent")
	_, runError := dump.Run(dump.Options{Root: missingRoot, Counter: tokenizer.NewWordCounter()})
	if runError == nil {
		testingInstance.Fatalf("expected fatal error for missing root %s", missingRoot)
	}
}
