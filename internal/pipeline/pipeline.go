// Package pipeline wires normalization, extraction, scoring, risk
// classification, generation and auditing into one analysis per program.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"legacy-modernizer/internal/auditor"
	"legacy-modernizer/internal/extractor"
	"legacy-modernizer/internal/generator"
	"legacy-modernizer/internal/logging"
	"legacy-modernizer/internal/model"
	"legacy-modernizer/internal/normalizer"
	"legacy-modernizer/internal/scanner"
	"legacy-modernizer/internal/scorer"
)

// ProgramExtensions are the suffixes picked up by a batch run. Copybooks
// are fragments and are left out.
var ProgramExtensions = []string{"cbl", "cob"}

type Pipeline struct {
	scorer     *scorer.Scorer
	classifier model.Classifier
	generator  model.Generator
	sink       model.ArtifactSink
	manager    *extractor.Manager
	log        *zap.SugaredLogger
}

type Option func(*Pipeline)

func WithGenerator(g model.Generator) Option {
	return func(p *Pipeline) { p.generator = g }
}

// WithSink stores every non-empty generation.
func WithSink(s model.ArtifactSink) Option {
	return func(p *Pipeline) { p.sink = s }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

func WithManager(m *extractor.Manager) Option {
	return func(p *Pipeline) { p.manager = m }
}

// New captures the weights once; a pipeline never sees a reload.
func New(weights model.Weights, c model.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		scorer:     scorer.New(weights),
		classifier: c,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.generator == nil {
		p.generator = generator.Mock{}
	}
	if p.manager == nil {
		p.manager = extractor.NewManager(ProgramExtensions...)
	}
	if p.log == nil {
		p.log = logging.Nop()
	}
	return p
}

// Generator reports the engine used for translations.
func (p *Pipeline) Generator() model.Generator { return p.generator }

// AnalyzeSource runs every stage over one program. Collaborator failures
// degrade the result instead of failing it: a classifier error yields
// UNKNOWN risk and a generation error yields empty output.
func (p *Pipeline) AnalyzeSource(ctx context.Context, path, raw string) model.Analysis {
	return p.analyzeUnit(ctx, extractor.FromSource(path, raw))
}

func (p *Pipeline) analyzeUnit(ctx context.Context, unit *extractor.Unit) model.Analysis {
	path, raw := unit.Path, unit.Raw

	var (
		fact model.SourceFact
		risk model.RiskLevel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fact = p.scorer.Apply(unit.Fact)
		return nil
	})
	g.Go(func() error {
		risk = p.classify(gctx, unit.Fact)
		return nil
	})
	_ = g.Wait()

	// one auditor per call: the TiDB parser is not safe for concurrent use
	sqlAuditor := auditor.NewSQLAuditor(nil, p.log)
	sqlAuditor.RegisterDefaults()

	issues := normalizer.IdentifyRisks(path, unit.Normalized)
	sqlIssues, profiles := sqlAuditor.Review(extractor.SQLBlocks(path, unit.Normalized))
	issues = append(issues, sqlIssues...)

	a := model.Analysis{
		Path:        path,
		Fact:        fact,
		Risk:        risk,
		Issues:      issues,
		SQLProfiles: profiles,
	}

	generated, err := p.generator.Generate(ctx, raw, model.GenerationMeta{Fact: fact, Risk: risk})
	if err != nil {
		p.log.Warnw("generation failed", "program", fact.Name, "generator", p.generator.Name(), "error", err)
		a.GenerationError = err.Error()
		generated = ""
	}
	a.Generated = generated
	a.Audit = auditor.Audit(generated, fact)

	if p.sink != nil && generated != "" {
		loc, err := p.sink.Store(ctx, fact.Name, generated)
		if err != nil {
			p.log.Warnw("storing artifact failed", "program", fact.Name, "error", err)
		} else {
			p.log.Debugw("artifact stored", "program", fact.Name, "location", loc)
		}
	}

	return a
}

func (p *Pipeline) classify(ctx context.Context, fact model.SourceFact) model.RiskLevel {
	if p.classifier == nil {
		return model.RiskUnknown
	}
	risk, err := p.classifier.Classify(ctx, model.FeaturesOf(fact))
	if err != nil {
		p.log.Warnw("risk classification failed", "program", fact.Name, "error", err)
		return model.RiskUnknown
	}
	return risk
}

// AnalyzeFile loads a program from disk and analyses it.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Analysis, error) {
	unit, err := p.manager.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	a := p.analyzeUnit(ctx, unit)
	return &a, nil
}

// RunOptions control a batch run.
type RunOptions struct {
	Excludes []string
	Workers  int
}

// Run analyses every program under src and collects the portfolio.
// Unreadable files are listed as failures; a failed walk aborts the run.
func (p *Pipeline) Run(ctx context.Context, src string, opts RunOptions) (*model.Portfolio, error) {
	start := time.Now()
	portfolio := &model.Portfolio{
		RunID:     ulid.Make().String(),
		Source:    src,
		StartedAt: start.UTC(),
	}

	walker := scanner.NewFileWalker(p.manager.Extensions(), opts.Excludes)
	paths, walkErrs := walker.Walk(ctx, src)

	pool := scanner.NewWorkerPool(opts.Workers, p.AnalyzeFile)
	for res := range pool.Start(ctx, paths) {
		if res.Error != nil {
			p.log.Warnw("skipping file", "path", res.File, "error", res.Error)
			portfolio.Failures = append(portfolio.Failures, model.Failure{Path: res.File, Error: res.Error.Error()})
			continue
		}
		p.log.Debugw("analysed", "path", res.File, "program", res.Analysis.Fact.Name, "risk", res.Analysis.Risk)
		portfolio.Units = append(portfolio.Units, *res.Analysis)
	}

	if err := <-walkErrs; err != nil {
		return nil, fmt.Errorf("walk %s: %w", src, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(portfolio.Units, func(i, j int) bool {
		a, b := portfolio.Units[i], portfolio.Units[j]
		if a.Fact.Name != b.Fact.Name {
			return a.Fact.Name < b.Fact.Name
		}
		return a.Path < b.Path
	})
	sort.Slice(portfolio.Failures, func(i, j int) bool {
		return portfolio.Failures[i].Path < portfolio.Failures[j].Path
	})

	portfolio.Summary = model.Summarize(portfolio.Units)
	portfolio.Duration = time.Since(start).Round(time.Millisecond).String()
	return portfolio, nil
}
