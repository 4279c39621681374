package extractor

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"legacy-modernizer/internal/model"
	"legacy-modernizer/internal/normalizer"
)

// Patterns for the COBOL constructs we collect.
// Go regexp (RE2) has no backreferences, so both quote styles are accepted
// on either side of a CALL target.
var (
	programIDPattern = regexp.MustCompile(`(?i)PROGRAM-ID\.\s+([\w-]+)\.`)
	variablePattern  = regexp.MustCompile(`(?i)\d{2}\s+([\w-]+)\s+PIC`)
	callPattern      = regexp.MustCompile(`(?i)CALL\s+['"]([\w-]+)['"]`)
	sqlBlockPattern  = regexp.MustCompile(`(?is)EXEC\s+SQL(.*?)END-EXEC`)
)

// LogicKeywords are the branching/looping verbs counted as logic points.
var LogicKeywords = []string{"IF", "ELSE", "PERFORM", "EVALUATE", "WHEN", "UNTIL"}

var logicPatterns = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(LogicKeywords))
	for _, kw := range LogicKeywords {
		res = append(res, regexp.MustCompile(`(?i)\b`+kw+`\b`))
	}
	return res
}()

// Extract scans normalized source and returns its facts. Missing constructs
// give empty slices, zero counts and the UNKNOWN name; it never fails.
func Extract(code string) model.SourceFact {
	fact := model.SourceFact{
		Name:      model.UnknownProgram,
		LineCount: countLines(code),
		Variables: submatches(variablePattern, code),
		Calls:     submatches(callPattern, code),
		SQLBlocks: submatches(sqlBlockPattern, code),
	}

	if m := programIDPattern.FindStringSubmatch(code); m != nil {
		fact.Name = m[1]
	}

	for _, re := range logicPatterns {
		fact.LogicPoints += len(re.FindAllStringIndex(code, -1))
	}

	return fact
}

// SQLBlocks returns the embedded SQL bodies of code with their line numbers.
func SQLBlocks(filePath, code string) []model.SQLBlock {
	var blocks []model.SQLBlock
	for i, loc := range sqlBlockPattern.FindAllStringSubmatchIndex(code, -1) {
		blocks = append(blocks, model.SQLBlock{
			SQL:   code[loc[2]:loc[3]],
			Index: i,
			Location: model.Location{
				FilePath: filePath,
				Line:     strings.Count(code[:loc[0]], "\n") + 1,
			},
		})
	}
	return blocks
}

func submatches(re *regexp.Regexp, code string) []string {
	matches := re.FindAllStringSubmatch(code, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// countLines counts lines the way a line splitter does: a trailing
// newline does not open a new line and empty input has none.
func countLines(code string) int {
	if code == "" {
		return 0
	}
	n := strings.Count(code, "\n") + 1
	if strings.HasSuffix(code, "\n") {
		n--
	}
	return n
}

// Unit is a source file after normalization and extraction.
type Unit struct {
	Path       string
	Raw        string
	Normalized string
	Fact       model.SourceFact
}

// Manager selects the handled file types and turns files into Units
type Manager struct {
	extensions map[string]struct{}
}

// DefaultExtensions are the COBOL source suffixes handled out of the box.
var DefaultExtensions = []string{"cbl", "cob", "cpy"}

func NewManager(exts ...string) *Manager {
	m := &Manager{extensions: make(map[string]struct{})}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		m.Register(ext)
	}
	return m
}

func (m *Manager) Register(ext string) {
	m.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
}

// Extensions returns the registered suffixes without dots.
func (m *Manager) Extensions() []string {
	out := make([]string, 0, len(m.extensions))
	for ext := range m.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) Load(filePath string) (*Unit, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromSource(filePath, string(content)), nil
}

// FromSource normalizes and extracts raw source text.
func FromSource(filePath, raw string) *Unit {
	clean := normalizer.Normalize(raw)
	return &Unit{
		Path:       filePath,
		Raw:        raw,
		Normalized: clean,
		Fact:       Extract(clean),
	}
}
