package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vedavani/astrology-ai/internal/pipeline"
	"github.com/vedavani/astrology-ai/internal/rule"
)

// SearchRulesInput is the input schema for search_rules.
type SearchRulesInput struct {
	Planet         string  `json:"planet,omitempty" jsonschema:"planet name"`
	House          int     `json:"house,omitempty" jsonschema:"house number 1-12"`
	Sign           string  `json:"sign,omitempty" jsonschema:"zodiac sign"`
	Nakshatra      string  `json:"nakshatra,omitempty" jsonschema:"nakshatra name"`
	Ascendant      string  `json:"ascendant,omitempty" jsonschema:"ascendant sign"`
	LordOf         int     `json:"lord_of,omitempty" jsonschema:"house whose lord is placed"`
	SourceTitle    string  `json:"source_title,omitempty" jsonschema:"restrict to one source"`
	Category       string  `json:"category,omitempty" jsonschema:"rule category"`
	MinConfidence  float64 `json:"min_confidence,omitempty" jsonschema:"minimum confidence 0-1"`
	EffectContains string  `json:"effect_contains,omitempty" jsonschema:"substring to match in effects"`
	Limit          int     `json:"limit,omitempty" jsonschema:"maximum results, default 20"`
}

// GetRuleInput is the input schema for get_rule.
type GetRuleInput struct {
	ID string `json:"id" jsonschema:"rule id"`
}

// ListSourcesInput is the input schema for list_sources (no parameters).
type ListSourcesInput struct{}

// IngestBookInput is the input schema for ingest_book.
type IngestBookInput struct {
	Path           string `json:"path" jsonschema:"filesystem path to the source PDF"`
	SourceTitle    string `json:"source_title" jsonschema:"title to register the source under"`
	Author         string `json:"author,omitempty" jsonschema:"source author"`
	AuthorityLevel int    `json:"authority_level" jsonschema:"1=classical, 2=traditional, 3=modern"`
}

// RuleOutput is the wire shape for one returned rule.
type RuleOutput struct {
	ID               string   `json:"id"`
	OriginalText     string   `json:"original_text"`
	CorrectedText    string   `json:"corrected_text,omitempty"`
	Planet           string   `json:"planet,omitempty"`
	House            int      `json:"house,omitempty"`
	Sign             string   `json:"sign,omitempty"`
	Nakshatra        string   `json:"nakshatra,omitempty"`
	Ascendant        string   `json:"ascendant,omitempty"`
	LordOf           int      `json:"lord_of,omitempty"`
	Effects          []string `json:"effects"`
	Polarity         string   `json:"polarity"`
	Category         string   `json:"category"`
	SourceTitle      string   `json:"source_title"`
	AuthorityLevel   int      `json:"authority_level"`
	Confidence       float64  `json:"confidence"`
	ExtractionMethod string   `json:"extraction_method"`
}

// SearchRulesOutput wraps search_rules results.
type SearchRulesOutput struct {
	Rules []RuleOutput `json:"rules"`
}

// SourceOutput is the wire shape for one registered source.
type SourceOutput struct {
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	AuthorityLevel int    `json:"authority_level"`
}

// ListSourcesOutput wraps list_sources results.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
}

// IngestBookOutput is the wire shape for an ingest_book report.
type IngestBookOutput struct {
	SentencesTotal    int      `json:"sentences_total"`
	SentencesAstro    int      `json:"sentences_astrological"`
	RulesStored       int      `json:"rules_stored"`
	AverageConfidence float64  `json:"average_confidence"`
	Warnings          []string `json:"warnings,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_rules",
		Description: "Search stored astrological rules by condition, source, and confidence",
	}, s.handleSearchRules)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_rule",
		Description: "Retrieve a single rule by id",
	}, s.handleGetRule)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_sources",
		Description: "List every registered source book",
	}, s.handleListSources)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "ingest_book",
		Description: "Extract and store rules from a PDF source",
	}, s.handleIngestBook)
}

func (s *Server) handleSearchRules(ctx context.Context, req *sdk.CallToolRequest, input SearchRulesInput) (*sdk.CallToolResult, SearchRulesOutput, error) {
	filters := rule.SearchFilters{
		Planet:         input.Planet,
		House:          input.House,
		Sign:           input.Sign,
		Nakshatra:      input.Nakshatra,
		Ascendant:      input.Ascendant,
		LordOf:         input.LordOf,
		SourceTitle:    input.SourceTitle,
		Category:       rule.Category(input.Category),
		MinConfidence:  input.MinConfidence,
		EffectContains: input.EffectContains,
		Limit:          input.Limit,
	}
	if filters.Limit == 0 {
		filters.Limit = 20
	}

	results, err := s.pipeline.Search(ctx, filters)
	if err != nil {
		return nil, SearchRulesOutput{}, err
	}

	output := make([]RuleOutput, 0, len(results))
	for _, r := range results {
		output = append(output, ruleOutputFromRule(r))
	}
	return nil, SearchRulesOutput{Rules: output}, nil
}

func (s *Server) handleGetRule(ctx context.Context, req *sdk.CallToolRequest, input GetRuleInput) (*sdk.CallToolResult, RuleOutput, error) {
	if input.ID == "" {
		return nil, RuleOutput{}, fmt.Errorf("id is required")
	}
	r, err := s.pipeline.Store.GetRule(ctx, input.ID)
	if err != nil {
		return nil, RuleOutput{}, err
	}
	if r == nil {
		return nil, RuleOutput{}, fmt.Errorf("rule not found")
	}
	return nil, ruleOutputFromRule(*r), nil
}

func (s *Server) handleListSources(ctx context.Context, req *sdk.CallToolRequest, input ListSourcesInput) (*sdk.CallToolResult, ListSourcesOutput, error) {
	sources, err := s.pipeline.Store.ListSources(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}
	output := make([]SourceOutput, 0, len(sources))
	for _, src := range sources {
		output = append(output, SourceOutput{
			Title: src.Title, Author: src.Author, AuthorityLevel: int(src.AuthorityLevel),
		})
	}
	return nil, ListSourcesOutput{Sources: output}, nil
}

func (s *Server) handleIngestBook(ctx context.Context, req *sdk.CallToolRequest, input IngestBookInput) (*sdk.CallToolResult, IngestBookOutput, error) {
	if input.Path == "" || input.SourceTitle == "" {
		return nil, IngestBookOutput{}, fmt.Errorf("path and source_title are required")
	}
	report, err := s.pipeline.IngestBook(ctx, input.Path, pipeline.IngestOptions{
		SourceTitle:    input.SourceTitle,
		Author:         input.Author,
		AuthorityLevel: rule.AuthorityLevel(input.AuthorityLevel),
	})
	if err != nil {
		return nil, IngestBookOutput{}, err
	}
	return nil, IngestBookOutput{
		SentencesTotal:    report.SentencesTotal,
		SentencesAstro:    report.SentencesAstro,
		RulesStored:       report.RulesStored,
		AverageConfidence: report.AverageConfidence,
		Warnings:          report.Warnings,
	}, nil
}

func ruleOutputFromRule(r rule.Rule) RuleOutput {
	return RuleOutput{
		ID:               r.ID,
		OriginalText:     r.OriginalText,
		CorrectedText:    r.CorrectedText,
		Planet:           r.Conditions.Planet,
		House:            r.Conditions.House,
		Sign:             r.Conditions.Sign,
		Nakshatra:        r.Conditions.Nakshatra,
		Ascendant:        r.Conditions.Ascendant,
		LordOf:           r.Conditions.LordOf,
		Effects:          r.Effects,
		Polarity:         string(r.Polarity),
		Category:         string(r.Category),
		SourceTitle:      r.SourceTitle,
		AuthorityLevel:   int(r.AuthorityLevel),
		Confidence:       r.Confidence,
		ExtractionMethod: string(r.ExtractionMethod),
	}
}
