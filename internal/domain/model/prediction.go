package model

// FeatureContribution explains one feature's share of the logit.
type FeatureContribution struct {
	Feature      string  `json:"feature"`
	RawValue     float64 `json:"raw_value"`
	ScaledValue  float64 `json:"scaled_value"`
	Coefficient  float64 `json:"coefficient"`
	Contribution float64 `json:"contribution"`
}

// ScoredPrediction is the transient result of scoring one feature source.
type ScoredPrediction struct {
	Player      *Identity `json:"player,omitempty"`
	Cluster     ClusterID `json:"cluster"`
	Logit       float64   `json:"logit_total"`
	Probability float64   `json:"probability"`

	// Set only when the post-hoc adjustment applies.
	AdjustedProbability *float64 `json:"adjusted_probability,omitempty"`
	Adjustment          *float64 `json:"adjustment,omitempty"`

	Breakdown []FeatureContribution `json:"feature_breakdown"`
}

// FinalProbability returns the adjusted probability when present.
func (p ScoredPrediction) FinalProbability() float64 {
	if p.AdjustedProbability != nil {
		return *p.AdjustedProbability
	}
	return p.Probability
}

// Band is a qualitative rating label.
type Band string

// Rating bands, best first.
const (
	BandElite        Band = "ELITE"
	BandGreat        Band = "GREAT"
	BandVeryGood     Band = "VERY GOOD"
	BandGood         Band = "GOOD"
	BandAboveAverage Band = "ABOVE AVERAGE"
	BandAverage      Band = "AVERAGE"
	BandBelowAverage Band = "BELOW AVERAGE"
	BandPoor         Band = "POOR"
)

// CohortRating places a scored player inside a comparison population.
// Rating always equals the player's probability; Rank and Percentile are auxiliary.
type CohortRating struct {
	Cluster    ClusterID `json:"cluster"`
	Rank       int       `json:"rank"` // 1-based, 0 when the player is not in the cohort
	Size       int       `json:"size"`
	InCohort   bool      `json:"in_cohort"`
	Percentile float64   `json:"percentile"` // share of the cohort scoring strictly lower
	Rating     float64   `json:"rating"`
	Band       Band      `json:"band"`
}
