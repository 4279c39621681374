package model

import (
	"fmt"
	"time"
)

// UnknownProgram is the name given to units without a PROGRAM-ID clause.
const UnknownProgram = "UNKNOWN"

// Location represents the physical location of a code segment
type Location struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line,omitempty"`
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.FilePath
	}
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// SourceFact is the structured record extracted from one legacy program.
// ComplexityScore is only filled in by the scorer.
type SourceFact struct {
	Name            string   `json:"name"`
	LineCount       int      `json:"line_count"`
	Variables       []string `json:"variables"`
	Calls           []string `json:"calls"`
	SQLBlocks       []string `json:"sql_blocks"`
	LogicPoints     int      `json:"logic_points"`
	ComplexityScore float64  `json:"complexity_score"`
}

// Weights are the scorer coefficients, loaded once per process.
type Weights struct {
	LineWeight  float64 `json:"line_weight"`
	VarWeight   float64 `json:"var_weight"`
	SQLWeight   float64 `json:"sql_weight"`
	CallWeight  float64 `json:"call_weight"`
	LogicWeight float64 `json:"logic_weight"`
}

// AuditResult describes how well generated code preserves a SourceFact.
// ValidationScore is not clamped and goes negative past ten missing elements.
type AuditResult struct {
	ValidationScore int      `json:"validation_score"`
	MissingElements []string `json:"missing_elements"`
	SQLIntegrityOK  bool     `json:"sql_integrity"`
	Passed          bool     `json:"passed"`
}

// RiskLevel is the migration risk label produced by a Classifier.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// RiskLevels lists the labels a Classifier may return, in ascending order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Features is the classifier input:
// [lineCount, |variables|, |sqlBlocks|, |calls|, logicPoints].
type Features [5]float64

// FeaturesOf builds the classifier feature vector for a fact.
func FeaturesOf(f SourceFact) Features {
	return Features{
		float64(f.LineCount),
		float64(len(f.Variables)),
		float64(len(f.SQLBlocks)),
		float64(len(f.Calls)),
		float64(f.LogicPoints),
	}
}

// Severity defines the severity of an audit finding
type Severity string

const (
	SeverityFatal      Severity = "FATAL"
	SeverityWarning    Severity = "WARNING"
	SeveritySuggestion Severity = "SUGGESTION"
)

// Issue represents a potential problem found in a legacy program
type Issue struct {
	Type       string   `json:"type"` // e.g., "GO_TO", "UNSAFE_UPDATE"
	Level      Severity `json:"level"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
	Location   Location `json:"location"`
}

// SQLBlock is one EXEC SQL ... END-EXEC body together with its origin.
type SQLBlock struct {
	SQL      string   `json:"sql"`
	Index    int      `json:"index"`
	Location Location `json:"location"`
}

// SQLProfile summarises a parsed embedded SQL block.
type SQLProfile struct {
	Index  int      `json:"index"`
	Kind   string   `json:"kind"` // SELECT, INSERT, UPDATE, DELETE, OTHER, UNPARSED
	Tables []string `json:"tables,omitempty"`
}

// GenerationMeta is the metadata handed to a Generator alongside the source.
type GenerationMeta struct {
	Fact SourceFact `json:"fact"`
	Risk RiskLevel  `json:"risk"`
}

// Analysis is the full result for one analysed program.
type Analysis struct {
	Path            string       `json:"path"`
	Fact            SourceFact   `json:"fact"`
	Risk            RiskLevel    `json:"risk"`
	Issues          []Issue      `json:"issues,omitempty"`
	SQLProfiles     []SQLProfile `json:"sql_profiles,omitempty"`
	Generated       string       `json:"generated,omitempty"`
	GenerationError string       `json:"generation_error,omitempty"`
	Audit           AuditResult  `json:"audit"`
}

// Portfolio is the outcome of one batch run.
type Portfolio struct {
	RunID     string     `json:"run_id"`
	Source    string     `json:"source"`
	StartedAt time.Time  `json:"started_at"`
	Duration  string     `json:"duration"`
	Units     []Analysis `json:"units"`
	Failures  []Failure  `json:"failures,omitempty"`
	Summary   Summary    `json:"summary"`
}

// Failure records a file that could not be read.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary holds the portfolio-level statistics.
type Summary struct {
	Programs          int               `json:"programs"`
	AverageComplexity float64           `json:"average_complexity"`
	AverageValidation float64           `json:"average_validation"`
	RiskDistribution  map[RiskLevel]int `json:"risk_distribution"`
	HighRiskPrograms  int               `json:"high_risk_programs"`
	PassedAudits      int               `json:"passed_audits"`
	SQLBlocks         int               `json:"sql_blocks"`
	TotalLogicPoints  int               `json:"total_logic_points"`
}

// Summarize computes the statistics for a set of analyses.
func Summarize(units []Analysis) Summary {
	s := Summary{
		Programs:         len(units),
		RiskDistribution: make(map[RiskLevel]int),
	}
	if len(units) == 0 {
		return s
	}
	var complexity float64
	var validation int
	for _, u := range units {
		complexity += u.Fact.ComplexityScore
		validation += u.Audit.ValidationScore
		s.RiskDistribution[u.Risk]++
		if u.Risk == RiskHigh {
			s.HighRiskPrograms++
		}
		if u.Audit.Passed {
			s.PassedAudits++
		}
		s.SQLBlocks += len(u.Fact.SQLBlocks)
		s.TotalLogicPoints += u.Fact.LogicPoints
	}
	s.AverageComplexity = complexity / float64(len(units))
	s.AverageValidation = float64(validation) / float64(len(units))
	return s
}
