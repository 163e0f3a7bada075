// Package rule defines the central domain entities of the knowledge
// pipeline: SourceBook, Rule, and the audit records that accompany it.
// Conditions is a closed-key record rather than an untyped map, per the
// dynamic-field design note: every recognized key gets its own typed,
// optional field.
package rule

import "time"

// AuthorityLevel classifies a SourceBook's reliability.
type AuthorityLevel int

const (
	AuthorityClassical   AuthorityLevel = 1
	AuthorityTraditional AuthorityLevel = 2
	AuthorityModern      AuthorityLevel = 3
)

// Valid reports whether a is one of the three recognized levels.
func (a AuthorityLevel) Valid() bool {
	return a == AuthorityClassical || a == AuthorityTraditional || a == AuthorityModern
}

// SourceBook is a registered origin for rules.
type SourceBook struct {
	Title          string         `json:"title" yaml:"title"`
	Author         string         `json:"author,omitempty" yaml:"author,omitempty"`
	AuthorityLevel AuthorityLevel `json:"authority_level" yaml:"authority_level"`
	RegisteredAt   time.Time      `json:"registered_at" yaml:"registered_at"`
}

// Polarity is the inferred sentiment of a rule's effects.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
	PolarityMixed    Polarity = "mixed"
)

// Category is the closed classification of a rule's structural shape.
type Category string

const (
	CategoryPlanetaryPlacement Category = "planetary_placement"
	CategoryHouseLordship      Category = "house_lordship"
	CategoryAspect             Category = "aspect"
	CategoryNakshatra          Category = "nakshatra"
	CategoryYoga               Category = "yoga"
	CategoryOther              Category = "other"
)

// ExtractionMethod identifies which stage of the pattern battery (or
// fallback chain) produced a rule.
type ExtractionMethod string

const (
	MethodBasicPlacement    ExtractionMethod = "basic_placement"
	MethodAscendantSpecific ExtractionMethod = "ascendant_specific"
	MethodAspectConjunction ExtractionMethod = "aspect_conjunction"
	MethodLordship          ExtractionMethod = "lordship"
	MethodNakshatra         ExtractionMethod = "nakshatra"
	MethodYoga              ExtractionMethod = "yoga"
	MethodRelaxedFallback   ExtractionMethod = "relaxed_fallback"
	MethodKeywordFallback   ExtractionMethod = "keyword_fallback"
)

// Conditions is the closed-key record of matched structural fields. Zero
// value of a string/int field means "absent". Planet/Sign/Nakshatra hold
// canonical spellings; House and LordOf are 1..12.
type Conditions struct {
	Planet    string `json:"planet,omitempty" yaml:"planet,omitempty"`
	House     int    `json:"house,omitempty" yaml:"house,omitempty"`
	Sign      string `json:"sign,omitempty" yaml:"sign,omitempty"`
	Nakshatra string `json:"nakshatra,omitempty" yaml:"nakshatra,omitempty"`
	Aspect    string `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	Strength  string `json:"strength,omitempty" yaml:"strength,omitempty"`
	LordOf    int    `json:"lord_of,omitempty" yaml:"lord_of,omitempty"`
	Ascendant string `json:"ascendant,omitempty" yaml:"ascendant,omitempty"`
}

// HasAnyOf reports whether at least one of planet, house, sign is set, the
// minimum requirement for a storable rule.
func (c Conditions) HasAnyOf() bool {
	return c.Planet != "" || c.House != 0 || c.Sign != ""
}

// Correction is the audit record left by the LLM corrector on acceptance.
type Correction struct {
	Confidence   float64   `json:"confidence"`
	FixesApplied []string  `json:"fixes_applied"`
	ModelID      string    `json:"model_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Rule is the central stored entity: a structured astrological claim with
// provenance and confidence.
type Rule struct {
	ID                string           `json:"id"`
	OriginalText      string           `json:"original_text"`
	CorrectedText     string           `json:"corrected_text,omitempty"`
	LastCorrectedHash string           `json:"-"`
	Conditions        Conditions       `json:"conditions"`
	Effects           []string         `json:"effects"`
	Polarity          Polarity         `json:"polarity"`
	Tags              []string         `json:"tags,omitempty"`
	Category          Category         `json:"category"`
	SourceTitle       string           `json:"source_title"`
	Page              int              `json:"page,omitempty"`
	Chapter           string           `json:"chapter,omitempty"`
	Verse             string           `json:"verse,omitempty"`
	AuthorityLevel    AuthorityLevel   `json:"authority_level"`
	Confidence        float64          `json:"confidence"`
	ExtractionMethod  ExtractionMethod `json:"extraction_method"`
	Correction        *Correction      `json:"correction,omitempty"`
	Validated         bool             `json:"validated"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ExtractionStats is an append-only per-ingest audit record.
type ExtractionStats struct {
	ID                 string    `json:"id"`
	SourceTitle        string    `json:"source_title"`
	SentencesTotal     int       `json:"sentences_total"`
	SentencesAstro     int       `json:"sentences_astrological"`
	RulesExtracted     int       `json:"rules_extracted"`
	AverageConfidence  float64   `json:"average_confidence"`
	Method             string    `json:"method"`
	Timestamp          time.Time `json:"timestamp"`
}

// CorrectionAuditEntry records one accept/reject decision made by the
// post-validation gate, whether or not the correction was ultimately
// written back to the rule.
type CorrectionAuditEntry struct {
	ID        string    `json:"id"`
	RuleID    string    `json:"rule_id"`
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason,omitempty"`
	ModelID   string    `json:"model_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchFilters is the closed set of criteria accepted by Store.Search.
type SearchFilters struct {
	Planet           string
	House            int
	Sign             string
	Nakshatra        string
	Ascendant        string
	LordOf           int
	SourceTitle      string
	AuthorityLevel   AuthorityLevel
	Category         Category
	Tags             []string
	MinConfidence    float64
	MaxConfidence    float64
	EffectContains   string
	ExtractionMethod ExtractionMethod
	Limit            int
	Offset           int
	OrderBy          OrderBy
}

// OrderBy is the closed set of result orderings.
type OrderBy string

const (
	OrderByRelevance OrderBy = "relevance"
	OrderByConfidence OrderBy = "confidence"
	OrderByAuthority OrderBy = "authority"
	OrderByCreatedAt OrderBy = "created_at"
)

// Relevance computes the default ranking score: classical sources and
// high-confidence rules float up.
func Relevance(authorityLevel AuthorityLevel, confidence float64) float64 {
	return 0.4*(4-float64(authorityLevel))/3 + 0.6*confidence
}

// StoreOutcome is the result of a single store_rule call.
type StoreOutcome string

const (
	OutcomeStored   StoreOutcome = "STORED"
	OutcomeDuplicate StoreOutcome = "DUPLICATE"
	OutcomeRejected StoreOutcome = "REJECTED"
)

// IngestReport summarizes one ingest_book call.
type IngestReport struct {
	SentencesTotal      int
	SentencesAstro      int
	RulesStored         int
	AverageConfidence   float64
	Warnings            []string
}

// CorrectionReport summarizes one correct_pending call.
type CorrectionReport struct {
	Attempted int
	Accepted  int
	Rejected  int
}

// MergeStrategy is the closed set of import merge behaviors.
type MergeStrategy string

const (
	MergeReplace        MergeStrategy = "replace"
	MergeAppend         MergeStrategy = "append"
	MergeSkipDuplicates MergeStrategy = "skip_duplicates"
)

// ImportReport summarizes one import_bundle call.
type ImportReport struct {
	SourcesImported int
	RulesImported   int
	RulesSkipped    int
}

// Bundle is the round-trippable export/import document.
type Bundle struct {
	SchemaVersion  string         `json:"schema_version"`
	ExportedAt     time.Time      `json:"exported_at"`
	TotalRules     int            `json:"total_rules"`
	FiltersApplied *SearchFilters `json:"filters_applied,omitempty"`
	Sources        []SourceBook   `json:"sources"`
	Rules          []Rule         `json:"rules"`
}
