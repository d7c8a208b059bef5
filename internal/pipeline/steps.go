package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/csphash/internal/model"
	"github.com/nao1215/csphash/internal/scanner"
)

// DiscoverStep lists the HTML files of the report directory and reads
// them into the report in name order.
type DiscoverStep struct {
	logger *slog.Logger
}

// NewDiscoverStep creates a new discovery step.
func NewDiscoverStep(logger *slog.Logger) *DiscoverStep {
	return &DiscoverStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do executes the discovery step.
func (s *DiscoverStep) Do(ctx context.Context, report *model.ScanReport) error {
	paths, err := scanner.Discover(report.Directory)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := scanner.ReadDocument(path)
		if err != nil {
			return err
		}
		s.logger.Debug("document read", "path", path, "bytes", len(doc.Content))
		report.Documents = append(report.Documents, doc)
	}
	return nil
}

// ExtractStep matches inline scripts in every document and hashes them.
type ExtractStep struct {
	hasher scanner.Hasher
	logger *slog.Logger
}

// NewExtractStep creates a new extraction step using hasher.
func NewExtractStep(hasher scanner.Hasher, logger *slog.Logger) *ExtractStep {
	return &ExtractStep{hasher: hasher, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extraction step.
func (s *ExtractStep) Do(_ context.Context, report *model.ScanReport) error {
	for _, doc := range report.Documents {
		for i, text := range scanner.Extract(doc.Content) {
			digest := s.hasher.Digest(text)
			report.AddFragment(model.NewScriptFragment(doc.Name, i+1, text, digest))
			s.logger.Debug("inline script hashed",
				"document", doc.Name,
				"index", i+1,
				"digest", digest,
			)
		}
	}
	return nil
}

// AuditStep parses every document with an HTML parser and records the
// inline scripts the pattern missed. It never changes the digest set.
type AuditStep struct {
	hasher scanner.Hasher
	logger *slog.Logger
}

// NewAuditStep creates a new audit step using hasher.
func NewAuditStep(hasher scanner.Hasher, logger *slog.Logger) *AuditStep {
	return &AuditStep{hasher: hasher, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do executes the audit step. Parse failures are logged and skipped.
func (s *AuditStep) Do(_ context.Context, report *model.ScanReport) error {
	for _, doc := range report.Documents {
		fragments := report.FragmentsFor(doc.Name)
		texts := make([]string, len(fragments))
		for i, f := range fragments {
			texts[i] = f.Text
		}

		uncovered, err := scanner.Audit(doc, texts, s.hasher)
		if err != nil {
			s.logger.Warn("audit skipped", "document", doc.Name, "error", err)
			continue
		}
		for _, u := range uncovered {
			s.logger.Warn("inline script not covered by the policy",
				"document", u.Document,
				"attributes", u.Attributes,
				"preview", u.Preview,
			)
		}
		report.Uncovered = append(report.Uncovered, uncovered...)
	}
	return nil
}

// AggregateStep sorts the unique digests into the report.
type AggregateStep struct{}

// NewAggregateStep creates a new aggregation step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregation step.
func (s *AggregateStep) Do(_ context.Context, report *model.ScanReport) error {
	report.Finalize()
	return nil
}

// DefaultPipeline creates a pipeline with the standard scan steps:
// discover, extract, audit (unless disabled) and aggregate.
func DefaultPipeline(hasher scanner.Hasher, audit bool, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewDiscoverStep(p.logger),
		NewExtractStep(hasher, p.logger),
	)
	if audit {
		p.AddStep(NewAuditStep(hasher, p.logger))
	}
	p.AddStep(NewAggregateStep())

	return p
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
