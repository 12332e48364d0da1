package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "matching-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog store.
type CatalogConfig struct {
	// DataDir is the base directory for the catalog database
	// (contains catalog.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// IngestConfig holds settings for ClinicalTrials.gov ingestion.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Condition is the registry condition query
	// (default "NSCLC OR Non-Small Cell Lung Cancer").
	Condition string `json:"condition" yaml:"condition"`

	// PageSize is the registry page size (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages bounds pagination; 0 means fetch until exhausted.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// PageDelay is the delay between page fetches (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// ComparatorDeltas holds the signed contribution each criterion family adds
// to the raw eligibility accumulator. All values feed the shift-and-clamp
// transform in ScoringConfig; none is a calibrated quantity.
type ComparatorDeltas struct {
	// Range criteria (age, ECOG).
	RangeMatch     float64 `json:"range_match" yaml:"range_match"`
	RangeViolation float64 `json:"range_violation" yaml:"range_violation"`

	// Categorical allow/deny criteria (stage, histology).
	ListAllowed    float64 `json:"list_allowed" yaml:"list_allowed"`
	ListExcluded   float64 `json:"list_excluded" yaml:"list_excluded"`
	ListNotInAllow float64 `json:"list_not_in_allow" yaml:"list_not_in_allow"`

	// Required-positive biomarker outcomes. MutationMatch must stay above
	// PositiveMatch so a confirmed specific mutation outranks generic
	// positivity.
	MutationMatch       float64 `json:"mutation_match" yaml:"mutation_match"`
	PositiveMatch       float64 `json:"positive_match" yaml:"positive_match"`
	PositiveUnconfirmed float64 `json:"positive_unconfirmed" yaml:"positive_unconfirmed"`
	PositiveRequired    float64 `json:"positive_required" yaml:"positive_required"`

	// Required-negative biomarker outcomes.
	NegativeMatch     float64 `json:"negative_match" yaml:"negative_match"`
	NegativeViolation float64 `json:"negative_violation" yaml:"negative_violation"`

	// Expression-threshold outcomes (PD-L1 TPS).
	ExpressionMet   float64 `json:"expression_met" yaml:"expression_met"`
	ExpressionBelow float64 `json:"expression_below" yaml:"expression_below"`

	// Boolean-flag outcomes (brain metastases, treatment-naive).
	FlagAgreement float64 `json:"flag_agreement" yaml:"flag_agreement"`
	FlagViolation float64 `json:"flag_violation" yaml:"flag_violation"`

	// Prior-treatment outcomes.
	TreatmentRequired  float64 `json:"treatment_required" yaml:"treatment_required"`
	TreatmentExcluded  float64 `json:"treatment_excluded" yaml:"treatment_excluded"`
	LineCountViolation float64 `json:"line_count_violation" yaml:"line_count_violation"`
}

// TreatmentDeltas holds the scoring contributions for the approved-therapy
// matcher. Treatments have no tier model, only a ranking score, and their
// historical deltas differ from the trial comparator deltas.
type TreatmentDeltas struct {
	PositiveMatch       float64 `json:"positive_match" yaml:"positive_match"`
	MutationMatch       float64 `json:"mutation_match" yaml:"mutation_match"`
	PositiveUnconfirmed float64 `json:"positive_unconfirmed" yaml:"positive_unconfirmed"`
	WildTypeMatch       float64 `json:"wild_type_match" yaml:"wild_type_match"`

	// BroadApplicability is the flat score for a treatment with no
	// biomarker requirements whose drug class is broadly applicable.
	BroadApplicability float64 `json:"broad_applicability" yaml:"broad_applicability"`
}

// SimilarityWeights holds the fixed weighting of the five competitive
// similarity components. They sum to 1.
type SimilarityWeights struct {
	Biomarker   float64 `json:"biomarker" yaml:"biomarker"`
	Stage       float64 `json:"stage" yaml:"stage"`
	Geographic  float64 `json:"geographic" yaml:"geographic"`
	Phase       float64 `json:"phase" yaml:"phase"`
	Eligibility float64 `json:"eligibility" yaml:"eligibility"`
}

// ScoringConfig is the immutable configuration for all scorers. Callers
// construct it once (usually via DefaultScoringConfig) and share it across
// concurrent invocations; nothing in the engine mutates it.
type ScoringConfig struct {
	Deltas          ComparatorDeltas  `json:"deltas" yaml:"deltas"`
	TreatmentDeltas TreatmentDeltas   `json:"treatment_deltas" yaml:"treatment_deltas"`
	Weights         SimilarityWeights `json:"weights" yaml:"weights"`

	// ScoreShift recenters the raw accumulator before clamping to [0,1],
	// so net-zero evidence lands in the uncertain band.
	ScoreShift float64 `json:"score_shift" yaml:"score_shift"`

	// EligibleThreshold and UncertainThreshold split the bounded score
	// into tiers: eligible >= EligibleThreshold,
	// uncertain >= UncertainThreshold, ineligible below.
	EligibleThreshold  float64 `json:"eligible_threshold" yaml:"eligible_threshold"`
	UncertainThreshold float64 `json:"uncertain_threshold" yaml:"uncertain_threshold"`

	// ECOGStepPenalty is the per-step decay for ECOG ordinal agreement.
	ECOGStepPenalty float64 `json:"ecog_step_penalty" yaml:"ecog_step_penalty"`

	// PhaseStepPenalty is the per-step decay for phase proximity.
	PhaseStepPenalty float64 `json:"phase_step_penalty" yaml:"phase_step_penalty"`

	// PhaseOrder maps named phases to ordinal positions; combined phases
	// sit on half steps.
	PhaseOrder map[string]float64 `json:"phase_order" yaml:"phase_order"`

	// BroadDrugClasses lists drug-class substrings treated as broadly
	// applicable when a treatment has no biomarker requirements.
	BroadDrugClasses []string `json:"broad_drug_classes" yaml:"broad_drug_classes"`

	// MinSimilarity is the overall-similarity floor below which a
	// competitor is discarded (exclusive).
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity"`

	// MaxCompetitors truncates the ranked competitor set.
	MaxCompetitors int `json:"max_competitors" yaml:"max_competitors"`

	// MaxCandidates bounds the candidate batch a single scoring call
	// accepts; larger batches are a caller-contract violation.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// MaxTrialEvaluations bounds how many pre-filtered trials are scored
	// per request.
	MaxTrialEvaluations int `json:"max_trial_evaluations" yaml:"max_trial_evaluations"`

	// TopReasons is how many reasons per bucket feed the explanation string.
	TopReasons int `json:"top_reasons" yaml:"top_reasons"`
}

// DefaultScoringConfig returns the engine defaults. The shift (0.5) and the
// tier thresholds (0.7/0.3) are inherited constants without a documented
// derivation; they are configuration, not calibration.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Deltas: ComparatorDeltas{
			RangeMatch:          0.1,
			RangeViolation:      -0.5,
			ListAllowed:         0.15,
			ListExcluded:        -0.5,
			ListNotInAllow:      -0.3,
			MutationMatch:       0.35,
			PositiveMatch:       0.3,
			PositiveUnconfirmed: 0.15,
			PositiveRequired:    -0.6,
			NegativeMatch:       0.15,
			NegativeViolation:   -0.5,
			ExpressionMet:       0.2,
			ExpressionBelow:     -0.4,
			FlagAgreement:       0.05,
			FlagViolation:       -0.5,
			TreatmentRequired:   0.1,
			TreatmentExcluded:   -0.5,
			LineCountViolation:  -0.4,
		},
		TreatmentDeltas: TreatmentDeltas{
			PositiveMatch:       0.8,
			MutationMatch:       1.0,
			PositiveUnconfirmed: 0.5,
			WildTypeMatch:       0.6,
			BroadApplicability:  0.3,
		},
		Weights: SimilarityWeights{
			Biomarker:   0.35,
			Stage:       0.20,
			Geographic:  0.20,
			Phase:       0.10,
			Eligibility: 0.15,
		},
		ScoreShift:         0.5,
		EligibleThreshold:  0.7,
		UncertainThreshold: 0.3,
		ECOGStepPenalty:    0.5,
		PhaseStepPenalty:   0.3,
		PhaseOrder: map[string]float64{
			"Phase 1":         1,
			"Phase 1/Phase 2": 1.5,
			"Phase 2":         2,
			"Phase 2/Phase 3": 2.5,
			"Phase 3":         3,
			"Phase 4":         4,
		},
		BroadDrugClasses:    []string{"chemotherapy", "immunotherapy", "pd-1", "pd-l1"},
		MinSimilarity:       0.1,
		MaxCompetitors:      50,
		MaxCandidates:       1000,
		MaxTrialEvaluations: 100,
		TopReasons:          3,
	}
}
