package generator

import (
	"fmt"
	"regexp"
	"strings"

	"legacy-modernizer/internal/model"
)

const systemInstruction = "You are an expert in COBOL and Java 17 refactoring."

// BuildPrompt renders the translation request for one program.
func BuildPrompt(source string, meta model.GenerationMeta) string {
	f := meta.Fact
	risk := meta.Risk
	if risk == "" {
		risk = model.RiskUnknown
	}

	var b strings.Builder
	b.WriteString("You are a senior architect specializing in mainframe modernization.\n")
	b.WriteString("Convert this legacy COBOL program into modern, production-grade Java 17.\n\n")

	b.WriteString("--- PROGRAM METADATA ---\n")
	fmt.Fprintf(&b, "Program Name: %s\n", f.Name)
	fmt.Fprintf(&b, "Complexity: %.2f (Risk: %s)\n", f.ComplexityScore, risk)
	fmt.Fprintf(&b, "Variables Found: %s\n", list(f.Variables))
	fmt.Fprintf(&b, "SQL Detected: %d block(s)\n", len(f.SQLBlocks))
	for i, sql := range f.SQLBlocks {
		fmt.Fprintf(&b, "  [%d] %s\n", i, strings.Join(strings.Fields(sql), " "))
	}
	fmt.Fprintf(&b, "External Calls: %s\n\n", list(f.Calls))

	b.WriteString("--- ARCHITECTURAL REQUIREMENTS ---\n")
	b.WriteString("1. Use Spring Boot 3.x patterns.\n")
	b.WriteString("2. SQL Handling: Convert 'EXEC SQL' blocks into Spring Data JPA Repository methods or clean JdbcTemplate code.\n")
	b.WriteString("3. Dependency Injection: Convert 'CALL' statements into injected service calls.\n")
	b.WriteString("4. Data Structures: Use Java records or classes for Working-Storage variables.\n")
	b.WriteString("5. Error Handling: Replace 'INVALID KEY' or 'SQLCODE' checks with try/catch and custom exceptions.\n")
	b.WriteString("6. Clean Code: Use camelCase names derived from the HYPHENATED-COBOL-NAMES, dropping the WS- prefix.\n\n")

	b.WriteString("--- COBOL SOURCE CODE ---\n")
	b.WriteString(source)
	b.WriteString("\n\n--- OUTPUT ---\n")
	b.WriteString("Generate only the Java class code. Include comments explaining the logic mapping.\n")
	return b.String()
}

func list(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

var fence = regexp.MustCompile("(?s)^\\s*```[\\w+-]*\\s*\\n(.*?)\\n?```\\s*$")

// StripFences removes a markdown code fence wrapped around the whole reply.
func StripFences(text string) string {
	if m := fence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}
