// Package normalizer strips fixed-column comments and blank lines from
// legacy COBOL source.
package normalizer

import (
	"regexp"
	"strings"

	"legacy-modernizer/internal/model"
)

const (
	// commentColumn is the 0-indexed indicator area position.
	commentColumn = 6
	commentMarker = '*'

	// performThreshold is the PERFORM count above which a unit is flagged.
	performThreshold = 10
)

// lineBreak matches every separator a line splitter honours: CRLF, lone
// CR and LF, vertical tab, form feed, the file/group/record separators,
// NEL and the Unicode line and paragraph separators.
var lineBreak = regexp.MustCompile(`\r\n|[\n\r\v\f\x1c\x1d\x1e\x{85}\x{2028}\x{2029}]`)

// Normalize drops comment lines (a '*' as the 7th character) and blank
// lines and trims the rest. It never fails.
//
// Columns are counted in characters, not bytes. The comment test runs on
// the untrimmed line, so a second pass is not always a no-op: a kept line
// such as "MOVE A*B TO C." has '*' as its 7th character once trimmed and
// is dropped if normalized again. Callers normalize raw source exactly once.
func Normalize(raw string) string {
	lines := lineBreak.Split(raw, -1)
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if isComment(line) {
			continue
		}
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		kept = append(kept, clean)
	}

	return strings.Join(kept, "\n")
}

func isComment(line string) bool {
	col := 0
	for _, r := range line {
		if col == commentColumn {
			return r == commentMarker
		}
		col++
	}
	return false
}

var (
	goToPattern    = regexp.MustCompile(`(?i)\bGO\s+TO\b`)
	performPattern = regexp.MustCompile(`(?i)\bPERFORM\b`)
)

// IdentifyRisks reports structural anti-patterns in normalized code.
func IdentifyRisks(path, code string) []model.Issue {
	var issues []model.Issue

	if loc := goToPattern.FindStringIndex(code); loc != nil {
		issues = append(issues, model.Issue{
			Type:       "GO_TO",
			Level:      model.SeverityWarning,
			Message:    "Contains 'GO TO' statements (anti-pattern)",
			Suggestion: "Restructure the jump into a PERFORM or a structured loop before translating.",
			Location:   model.Location{FilePath: path, Line: lineOf(code, loc[0])},
		})
	}

	if n := len(performPattern.FindAllStringIndex(code, -1)); n > performThreshold {
		issues = append(issues, model.Issue{
			Type:       "DEEP_PERFORM",
			Level:      model.SeveritySuggestion,
			Message:    "High nesting/loop complexity detected",
			Suggestion: "Split the paragraph chain into smaller services when translating.",
			Location:   model.Location{FilePath: path},
		})
	}

	return issues
}

func lineOf(code string, offset int) int {
	return strings.Count(code[:offset], "\n") + 1
}
