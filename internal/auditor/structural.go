package auditor

import (
	"strings"

	"legacy-modernizer/internal/model"
)

const (
	// ScopePrefix is the working-storage prefix dropped before matching.
	ScopePrefix = "WS-"

	fullScore      = 100
	missingPenalty = 10
)

// DataAccessMarkers are substrings that show the generated code introduced a
// persistence abstraction for the program's embedded SQL.
var DataAccessMarkers = []string{"Repository", "@Query"}

// SimpleName maps a COBOL data name to the form expected somewhere in the
// generated code: WS-CUST-ID becomes custid.
func SimpleName(variable string) string {
	name := strings.ReplaceAll(variable, ScopePrefix, "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.ToLower(name)
}

// Audit checks generated code against the facts of the program it was
// generated from. The score is not clamped; more than ten missing
// variables yields a negative value.
func Audit(generated string, fact model.SourceFact) model.AuditResult {
	haystack := strings.ToLower(generated)
	missing := make([]string, 0)

	for _, v := range fact.Variables {
		if !strings.Contains(haystack, SimpleName(v)) {
			missing = append(missing, v)
		}
	}

	return model.AuditResult{
		ValidationScore: fullScore - missingPenalty*len(missing),
		MissingElements: missing,
		SQLIntegrityOK:  len(fact.SQLBlocks) == 0 || hasDataAccess(generated),
		Passed:          len(missing) == 0,
	}
}

func hasDataAccess(generated string) bool {
	for _, marker := range DataAccessMarkers {
		if strings.Contains(generated, marker) {
			return true
		}
	}
	return false
}

// DisplayScore clamps a validation score into 0..100 for presentation only.
func DisplayScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > fullScore:
		return fullScore
	default:
		return score
	}
}
