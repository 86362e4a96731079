package dump

import (
	"fmt"
	"sort"
	"strings"
)

const (
	tokenBannerHeader    = "// ===== TOKEN USAGE (≈) ====="
	tokenBannerSeparator = "// ───────────────────────────"
	tokenEntryLineFormat = "//%8d  %s\n"
	tokenTotalLabel      = "TOTAL"
	commentMarkerPrefix  = "// "
	bareCommentMarker    = "//"
)

// TokenEntry associates a relative path with its estimated token count.
type TokenEntry struct {
	RelativePath string
	Tokens       int
}

// FormatTokenTable renders the comment-prefixed token banner: a header, one
// line per entry sorted descending by token count (ties keep insertion
// order), a separator, and a TOTAL line summing every count. An empty table
// formats to the empty string.
func FormatTokenTable(entries []TokenEntry) string {
	if len(entries) == 0 {
		return ""
	}

	sortedEntries := make([]TokenEntry, len(entries))
	copy(sortedEntries, entries)
	sort.SliceStable(sortedEntries, func(firstIndex, secondIndex int) bool {
		return sortedEntries[firstIndex].Tokens > sortedEntries[secondIndex].Tokens
	})

	var bannerBuilder strings.Builder
	bannerBuilder.WriteString(tokenBannerHeader + "\n")
	totalTokens := 0
	for _, tokenEntry := range sortedEntries {
		fmt.Fprintf(&bannerBuilder, tokenEntryLineFormat, tokenEntry.Tokens, tokenEntry.RelativePath)
		totalTokens += tokenEntry.Tokens
	}
	bannerBuilder.WriteString(tokenBannerSeparator + "\n")
	fmt.Fprintf(&bannerBuilder, tokenEntryLineFormat, totalTokens, tokenTotalLabel)
	return bannerBuilder.String()
}

// StripCommentMarkers returns the banner content with the leading comment
// marker removed from every line, for mirroring to the console.
func StripCommentMarkers(banner string) string {
	if banner == "" {
		return ""
	}
	bannerLines := strings.Split(strings.TrimSuffix(banner, "\n"), "\n")
	strippedLines := make([]string, 0, len(bannerLines))
	for _, bannerLine := range bannerLines {
		if strings.HasPrefix(bannerLine, commentMarkerPrefix) {
			strippedLines = append(strippedLines, strings.TrimPrefix(bannerLine, commentMarkerPrefix))
			continue
		}
		strippedLines = append(strippedLines, strings.TrimPrefix(bannerLine, bareCommentMarker))
	}
	return strings.Join(strippedLines, "\n") + "\n"
}
