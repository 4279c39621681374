package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"legacy-modernizer/internal/model"
)

func TestExtract_ProgramName(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Plain PROGRAM-ID",
			content:  "       PROGRAM-ID. TEST-PROG.",
			expected: "TEST-PROG",
		},
		{
			name:     "Lower case",
			content:  "program-id. payroll01.",
			expected: "payroll01",
		},
		{
			name:     "First match wins",
			content:  "PROGRAM-ID. FIRST.\nPROGRAM-ID. SECOND.",
			expected: "FIRST",
		},
		{
			name:     "Missing clause",
			content:  "IDENTIFICATION DIVISION.\nSTOP RUN.",
			expected: model.UnknownProgram,
		},
		{
			name:     "Missing terminating period",
			content:  "PROGRAM-ID. NOPERIOD",
			expected: model.UnknownProgram,
		},
		{
			name:     "Empty",
			content:  "",
			expected: model.UnknownProgram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content).Name
			if got != tt.expected {
				t.Errorf("Extract().Name got = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtract_Variables(t *testing.T) {
	content := strings.Join([]string{
		"01 WS-CUST-ID PIC 9(6).",
		"05 ws-balance   pic S9(7)V99.",
		"01 WS-CUST-ID PIC 9(6).",
		"01 WS-GROUP.",
		"77 COUNTER PIC 99.",
	}, "\n")

	got := Extract(content).Variables
	want := []string{"WS-CUST-ID", "ws-balance", "WS-CUST-ID", "COUNTER"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variables got = %v, want %v", got, want)
	}
}

func TestExtract_Calls(t *testing.T) {
	content := `CALL 'DATEUTIL' USING WS-DATE.
call "AUDIT-LOG" using ws-msg.
CALL WS-DYNAMIC-PGM.`

	got := Extract(content).Calls
	want := []string{"DATEUTIL", "AUDIT-LOG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Calls got = %v, want %v", got, want)
	}
}

func TestExtract_SQLBlocks(t *testing.T) {
	content := `EXEC SQL
SELECT NAME INTO :WS-NAME FROM CUSTOMER WHERE ID = :WS-ID
END-EXEC.
exec sql COMMIT end-exec.`

	got := Extract(content).SQLBlocks
	want := []string{
		"\nSELECT NAME INTO :WS-NAME FROM CUSTOMER WHERE ID = :WS-ID\n",
		" COMMIT ",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SQLBlocks got = %q, want %q", got, want)
	}
}

func TestExtract_UnterminatedSQLIgnored(t *testing.T) {
	got := Extract("EXEC SQL SELECT 1").SQLBlocks
	if len(got) != 0 {
		t.Errorf("expected no blocks, got %q", got)
	}
}

func TestExtract_LogicPoints(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"IF and PERFORM", "IF X = Y PERFORM Z.", 2},
		{"All keywords", "IF A ELSE B PERFORM C EVALUATE D WHEN E UNTIL F", 6},
		{"Whole words only", "PERFORMED IFFY WHENEVER", 0},
		{"Case insensitive", "if a perform b until c", 3},
		{"Hyphenated scope terminator counts", "END-IF", 1},
		{"None", "MOVE A TO B.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content).LogicPoints
			if got != tt.want {
				t.Errorf("LogicPoints got = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtract_LineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"A.", 1},
		{"A.\nB.", 2},
		{"A.\nB.\n", 2},
	}

	for _, tt := range tests {
		if got := Extract(tt.content).LineCount; got != tt.want {
			t.Errorf("LineCount(%q) got = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	const vars, keywords = 7, 5

	var b strings.Builder
	b.WriteString("PROGRAM-ID. ROUND-TRIP.\n")
	for i := 0; i < vars; i++ {
		fmt.Fprintf(&b, "01 WS-FIELD-%d PIC X(10).\n", i)
	}
	for i := 0; i < keywords; i++ {
		b.WriteString("PERFORM STEP.\n")
	}

	fact := Extract(b.String())
	if fact.Name != "ROUND-TRIP" {
		t.Errorf("Name got = %q", fact.Name)
	}
	if len(fact.Variables) != vars {
		t.Errorf("Variables got = %d, want %d", len(fact.Variables), vars)
	}
	if fact.LogicPoints != keywords {
		t.Errorf("LogicPoints got = %d, want %d", fact.LogicPoints, keywords)
	}
	if fact.LineCount != 1+vars+keywords {
		t.Errorf("LineCount got = %d, want %d", fact.LineCount, 1+vars+keywords)
	}
	if fact.ComplexityScore != 0 {
		t.Errorf("ComplexityScore must be left to the scorer, got %v", fact.ComplexityScore)
	}
}

func TestExtract_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{"\x00\xff\xfe", "EXEC SQL END-EXEC EXEC SQL", "PROGRAM-ID.", strings.Repeat("(", 1000)}
	for _, in := range inputs {
		fact := Extract(in)
		if fact.Variables == nil || fact.Calls == nil || fact.SQLBlocks == nil {
			t.Errorf("Extract(%q) returned nil slices", in)
		}
	}
}

func TestSQLBlocks_Lines(t *testing.T) {
	code := "MOVE 1 TO X.\nEXEC SQL\nDELETE FROM T\nEND-EXEC.\nEXEC SQL COMMIT END-EXEC."
	blocks := SQLBlocks("prog.cbl", code)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Location.Line != 2 || blocks[1].Location.Line != 5 {
		t.Errorf("unexpected lines: %d, %d", blocks[0].Location.Line, blocks[1].Location.Line)
	}
	if blocks[1].Index != 1 {
		t.Errorf("expected index 1, got %d", blocks[1].Index)
	}
}

func TestManager_Load(t *testing.T) {
	dir, err := os.MkdirTemp("", "extractor-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "custinq.cbl")
	src := "       PROGRAM-ID. CUSTINQ.\n      * A COMMENT\n       01 WS-ID PIC 9.\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	unit, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if unit.Fact.Name != "CUSTINQ" {
		t.Errorf("Name got = %q", unit.Fact.Name)
	}
	if unit.Fact.LineCount != 2 {
		t.Errorf("LineCount got = %d, want 2", unit.Fact.LineCount)
	}
	if strings.Contains(unit.Normalized, "COMMENT") {
		t.Errorf("normalized text still has the comment: %q", unit.Normalized)
	}

	if _, err := m.Load(filepath.Join(dir, "missing.cbl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestManager_Extensions(t *testing.T) {
	m := NewManager(".CBL", "cob")
	want := []string{"cbl", "cob"}
	if got := m.Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() got = %v, want %v", got, want)
	}
}
