package model

import (
	"context"

	"github.com/pingcap/tidb/parser/ast"
)

// Rule represents a single audit logic unit over embedded SQL
type Rule interface {
	// Name returns the unique identifier of the rule
	Name() string
	// Check examines the SQL block and returns any issues found
	Check(block *SQLBlock, node ast.StmtNode) ([]Issue, error)
}

// Classifier maps a feature vector to one of RiskLevels.
// Implementations may be stateful or nondeterministic.
type Classifier interface {
	Classify(ctx context.Context, features Features) (RiskLevel, error)
}

// Generator translates legacy source into target-language text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, source string, meta GenerationMeta) (string, error)
}

// Reporter defines how to output results
type Reporter interface {
	Report(p *Portfolio) error
}

// ArtifactSink persists generated code and returns where it was written.
type ArtifactSink interface {
	Store(ctx context.Context, program, code string) (string, error)
}
