// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Tier classifies a trial eligibility score.
type Tier string

const (
	TierEligible   Tier = "eligible"
	TierUncertain  Tier = "uncertain"
	TierIneligible Tier = "ineligible"
)

// Rank orders tiers for sorting: eligible < uncertain < ineligible.
// Unknown tiers rank with uncertain.
func (t Tier) Rank() int {
	switch t {
	case TierEligible:
		return 0
	case TierIneligible:
		return 2
	default:
		return 1
	}
}

// EligibilityResult is the outcome of scoring one patient against one
// trial's structured eligibility.
type EligibilityResult struct {
	// Status is the tier derived from Score.
	Status Tier `json:"status" yaml:"status"`

	// Score is the bounded match score in [0,1], rounded to 3 decimals.
	Score float64 `json:"score" yaml:"score"`

	// Confidence in [0,1] reflects distance from the neutral point. It is
	// a relevance signal, not a calibrated probability.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// MatchingCriteria lists satisfied criteria in evaluation order.
	MatchingCriteria []string `json:"matching_criteria" yaml:"matching_criteria"`

	// ExcludingCriteria lists violated criteria in evaluation order.
	ExcludingCriteria []string `json:"excluding_criteria" yaml:"excluding_criteria"`

	// Explanation concatenates the leading reasons from each bucket.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// TrialMatch pairs a candidate trial with its eligibility evaluation.
type TrialMatch struct {
	NCTID                 string              `json:"nct_id" yaml:"nct_id"`
	Title                 string              `json:"title,omitempty" yaml:"title,omitempty"`
	Phase                 string              `json:"phase,omitempty" yaml:"phase,omitempty"`
	Status                string              `json:"status,omitempty" yaml:"status,omitempty"`
	Sponsor               string              `json:"sponsor,omitempty" yaml:"sponsor,omitempty"`
	BriefSummary          string              `json:"brief_summary,omitempty" yaml:"brief_summary,omitempty"`
	BiomarkerRequirements map[string][]string `json:"biomarker_requirements,omitempty" yaml:"biomarker_requirements,omitempty"`
	Eligibility           EligibilityResult   `json:"eligibility" yaml:"eligibility"`
	StudyURL              string              `json:"study_url,omitempty" yaml:"study_url,omitempty"`

	// Locations holds up to 5 sites, filtered to the patient's location
	// when one was supplied.
	Locations []Location `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// TreatmentMatch is a matched approved therapy with its relevance score.
type TreatmentMatch struct {
	GenericName           string              `json:"generic_name" yaml:"generic_name"`
	BrandNames            []string            `json:"brand_names,omitempty" yaml:"brand_names,omitempty"`
	DrugClass             string              `json:"drug_class,omitempty" yaml:"drug_class,omitempty"`
	MechanismOfAction     string              `json:"mechanism_of_action,omitempty" yaml:"mechanism_of_action,omitempty"`
	BiomarkerRequirements map[string][]string `json:"biomarker_requirements,omitempty" yaml:"biomarker_requirements,omitempty"`
	ApprovalStatus        string              `json:"fda_approval_status,omitempty" yaml:"fda_approval_status,omitempty"`

	// MatchReason concatenates the matching reasons ("; "-joined).
	MatchReason string `json:"match_reason" yaml:"match_reason"`

	// MatchScore is the relevance score in [0,1], rounded to 3 decimals.
	MatchScore float64 `json:"match_score" yaml:"match_score"`
}

// CompetitorMatch is a competing trial with its similarity breakdown.
type CompetitorMatch struct {
	NCTID   string `json:"nct_id" yaml:"nct_id"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Phase   string `json:"phase,omitempty" yaml:"phase,omitempty"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
	Sponsor string `json:"sponsor,omitempty" yaml:"sponsor,omitempty"`

	// SimilarityScore is the weighted overall similarity in [0,1].
	SimilarityScore float64 `json:"similarity_score" yaml:"similarity_score"`

	// Component scores, each in [0,1].
	BiomarkerOverlap       float64 `json:"biomarker_overlap" yaml:"biomarker_overlap"`
	StageOverlap           float64 `json:"stage_overlap" yaml:"stage_overlap"`
	GeographicOverlap      float64 `json:"geographic_overlap" yaml:"geographic_overlap"`
	PhaseProximity         float64 `json:"phase_proximity" yaml:"phase_proximity"`
	EligibilitySimilarity  float64 `json:"eligibility_similarity" yaml:"eligibility_similarity"`

	// Overlap sets justifying the biomarker/stage/geography components.
	OverlappingBiomarkers []string `json:"overlapping_biomarkers" yaml:"overlapping_biomarkers"`
	OverlappingStages     []string `json:"overlapping_stages" yaml:"overlapping_stages"`
	OverlappingLocations  []string `json:"overlapping_locations" yaml:"overlapping_locations"`

	Locations    []Location `json:"locations,omitempty" yaml:"locations,omitempty"`
	StudyURL     string     `json:"study_url,omitempty" yaml:"study_url,omitempty"`
	BriefSummary string     `json:"brief_summary,omitempty" yaml:"brief_summary,omitempty"`
}

// NameCount is a frequency-table entry.
type NameCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// MarketInsights aggregates a competitor set into summary statistics.
type MarketInsights struct {
	TotalCompetingTrials int            `json:"total_competing_trials" yaml:"total_competing_trials"`
	TopSponsors          []NameCount    `json:"top_sponsors" yaml:"top_sponsors"`
	GeographicHotspots   []NameCount    `json:"geographic_hotspots" yaml:"geographic_hotspots"`
	PhaseDistribution    map[string]int `json:"phase_distribution" yaml:"phase_distribution"`
	CommonBiomarkers     []NameCount    `json:"common_biomarkers" yaml:"common_biomarkers"`

	// AvgSimilarityScore is the mean overall similarity, 0 for an empty set.
	AvgSimilarityScore float64 `json:"avg_similarity_score" yaml:"avg_similarity_score"`
}
