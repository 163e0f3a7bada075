// Package pipeline orchestrates the stages that turn a source PDF into
// stored, searchable rules: document processing, pattern extraction,
// storage, and (separately) batch correction. Grounded on the teacher's
// ingest.Run — a single entry point that owns schema setup, per-item error
// collection, and a summary result, instead of letting callers wire the
// stages themselves.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/astroerr"
	"github.com/vedavani/astrology-ai/internal/corrector"
	"github.com/vedavani/astrology-ai/internal/docproc"
	"github.com/vedavani/astrology-ai/internal/extractor"
	"github.com/vedavani/astrology-ai/internal/logging"
	"github.com/vedavani/astrology-ai/internal/rule"
	"github.com/vedavani/astrology-ai/internal/store"
)

// Pipeline wires the document processor, extractor, corrector, and store
// together. Any field may be the zero value except Store; Lexicon
// defaults to astro.Default() and Extractor to extractor.New(lexicon) if
// left nil. Logger is optional; a nil Logger disables progress logging.
type Pipeline struct {
	Store     store.Store
	Lexicon   *astro.Lexicon
	Extractor *extractor.Extractor
	Corrector *corrector.Corrector
	Logger    *logging.Logger
}

func (p *Pipeline) logInfo(msg string, kv ...interface{}) {
	if p.Logger != nil {
		p.Logger.Info(msg, kv...)
	}
}

func (p *Pipeline) logWarn(msg string, kv ...interface{}) {
	if p.Logger != nil {
		p.Logger.Warn(msg, kv...)
	}
}

// New builds a Pipeline bound to s, with a default lexicon and extractor.
// Pass a Corrector separately (via the Corrector field) once a Model is
// available; CorrectPending returns ErrModelUnavailable without one.
func New(s store.Store) *Pipeline {
	lex := astro.Default()
	return &Pipeline{
		Store:     s,
		Lexicon:   lex,
		Extractor: extractor.New(lex),
	}
}

// IngestOptions configures one IngestBook call.
type IngestOptions struct {
	SourceTitle    string
	Author         string
	AuthorityLevel rule.AuthorityLevel
}

// IngestBook extracts text from the PDF at path, segments it into
// astrological sentences, runs the pattern-extraction battery over each,
// and stores every surviving candidate rule against SourceTitle (which is
// registered, or validated against its existing authority level, as part
// of this call).
func (p *Pipeline) IngestBook(ctx context.Context, path string, opts IngestOptions) (rule.IngestReport, error) {
	if opts.SourceTitle == "" {
		return rule.IngestReport{}, fmt.Errorf("%w: source_title is required", astroerr.ErrValidation)
	}

	if p.Lexicon == nil {
		p.Lexicon = astro.Default()
	}
	if p.Extractor == nil {
		p.Extractor = extractor.New(p.Lexicon)
	}

	p.logInfo("ingest starting", "path", path, "source", opts.SourceTitle, "authority", opts.AuthorityLevel)

	if err := p.Store.EnsureSchema(ctx); err != nil {
		return rule.IngestReport{}, fmt.Errorf("ensuring schema: %w", err)
	}

	if _, err := p.Store.RegisterSource(ctx, rule.SourceBook{
		Title: opts.SourceTitle, Author: opts.Author, AuthorityLevel: opts.AuthorityLevel,
	}); err != nil {
		return rule.IngestReport{}, fmt.Errorf("%w: %v", astroerr.ErrIngest, err)
	}

	result, err := docproc.NewProcessor(p.Lexicon).ProcessFile(path)
	if err != nil {
		return rule.IngestReport{}, fmt.Errorf("%w: %v", astroerr.ErrIngest, err)
	}

	report := rule.IngestReport{
		SentencesTotal: result.SentencesTotal,
		SentencesAstro: len(result.Sentences),
	}

	var candidates []rule.Rule
	var confidenceSum float64
	for _, sentence := range result.Sentences {
		rules, warnings := p.Extractor.ExtractSentence(sentence.Text, sentence.Page)
		for _, w := range warnings {
			report.Warnings = append(report.Warnings, w.Reason+": "+w.Sentence)
		}
		for _, r := range rules {
			r.SourceTitle = opts.SourceTitle
			r.AuthorityLevel = opts.AuthorityLevel
			candidates = append(candidates, r)
			confidenceSum += r.Confidence
		}
	}

	stored, warnings, err := p.Store.StoreRulesBatch(ctx, candidates)
	if err != nil {
		return report, fmt.Errorf("%w: %v", astroerr.ErrIngest, err)
	}
	report.RulesStored = stored
	report.Warnings = append(report.Warnings, warnings...)
	if len(candidates) > 0 {
		report.AverageConfidence = confidenceSum / float64(len(candidates))
	}

	if err := p.Store.RecordExtractionStats(ctx, rule.ExtractionStats{
		SourceTitle:       opts.SourceTitle,
		SentencesTotal:    report.SentencesTotal,
		SentencesAstro:    report.SentencesAstro,
		RulesExtracted:    len(candidates),
		AverageConfidence: report.AverageConfidence,
		Method:            "pattern_battery",
	}); err != nil {
		return report, fmt.Errorf("recording extraction stats: %w", err)
	}

	p.logInfo("ingest complete", "source", opts.SourceTitle, "rules_stored", report.RulesStored,
		"sentences_astro", report.SentencesAstro, "warnings", len(report.Warnings))

	return report, nil
}

// CorrectPending fetches up to limit rules pending correction and runs
// them through the Corrector in batches of corrector.DefaultBatchSize (the
// Corrector's WithBatchSize setting is not read here), applying every accepted
// correction and recording an audit entry for every decision, accepted or
// not.
func (p *Pipeline) CorrectPending(ctx context.Context, limit int) (rule.CorrectionReport, error) {
	if p.Corrector == nil {
		return rule.CorrectionReport{}, fmt.Errorf("%w: no correction model configured", astroerr.ErrModelUnavailable)
	}

	pending, err := p.Store.ListPendingCorrection(ctx, limit)
	if err != nil {
		return rule.CorrectionReport{}, fmt.Errorf("listing pending corrections: %w", err)
	}
	p.logInfo("correction pass starting", "pending", len(pending))

	var report rule.CorrectionReport
	for start := 0; start < len(pending); start += corrector.DefaultBatchSize {
		end := start + corrector.DefaultBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		results, err := p.Corrector.RunBatch(ctx, batch)
		if err != nil {
			return report, fmt.Errorf("correcting batch: %w", err)
		}

		for _, item := range results {
			report.Attempted++
			digest := corrector.Digest(item.Rule.OriginalText)

			if item.Accept {
				audit := rule.Correction{
					Confidence:   item.ModelConf,
					FixesApplied: item.Fixes,
					ModelID:      p.Corrector.ModelID(),
				}
				if err := p.Store.ApplyCorrection(ctx, item.Rule.ID, item.Corrected, audit, digest); err != nil {
					return report, fmt.Errorf("applying correction to rule %q: %w", item.Rule.ID, err)
				}
				report.Accepted++
			} else {
				report.Rejected++
				p.logWarn("correction rejected", "rule_id", item.Rule.ID, "reason", item.Reason)
			}

			if err := p.Store.RecordCorrectionAudit(ctx, rule.CorrectionAuditEntry{
				RuleID:   item.Rule.ID,
				Accepted: item.Accept,
				Reason:   item.Reason,
				ModelID:  p.Corrector.ModelID(),
			}); err != nil {
				return report, fmt.Errorf("recording correction audit for rule %q: %w", item.Rule.ID, err)
			}
		}
	}

	return report, nil
}

// RegisterSource is a thin pass-through so callers outside ingestion (the
// CLI, the MCP server) can register a source without reaching into Store
// directly.
func (p *Pipeline) RegisterSource(ctx context.Context, source rule.SourceBook) (rule.SourceBook, error) {
	return p.Store.RegisterSource(ctx, source)
}

// Search is a thin pass-through to Store.Search.
func (p *Pipeline) Search(ctx context.Context, filters rule.SearchFilters) ([]rule.Rule, error) {
	return p.Store.Search(ctx, filters)
}

// Export is a thin pass-through to Store.Export.
func (p *Pipeline) Export(ctx context.Context, filters rule.SearchFilters) (rule.Bundle, error) {
	return p.Store.Export(ctx, filters)
}

// Import is a thin pass-through to Store.Import.
func (p *Pipeline) Import(ctx context.Context, bundle rule.Bundle, strategy rule.MergeStrategy) (rule.ImportReport, error) {
	return p.Store.Import(ctx, bundle, strategy)
}
