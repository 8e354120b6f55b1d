package cohort

import "github.com/okian/prospect/internal/domain/model"

// bandThresholds lists lower bounds, highest first. Each bound is inclusive.
var bandThresholds = []struct {
	min  float64
	band model.Band
}{
	{0.9, model.BandElite},
	{0.8, model.BandGreat},
	{0.7, model.BandVeryGood},
	{0.6, model.BandGood},
	{0.5, model.BandAboveAverage},
	{0.4, model.BandAverage},
	{0.3, model.BandBelowAverage},
}

// BandFor maps a rating in [0,1] to its band. Anything below 0.3 is POOR.
func BandFor(rating float64) model.Band {
	for _, t := range bandThresholds {
		if rating >= t.min {
			return t.band
		}
	}
	return model.BandPoor
}

// Bands returns every band, best first.
func Bands() []model.Band {
	out := make([]model.Band, 0, len(bandThresholds)+1)
	for _, t := range bandThresholds {
		out = append(out, t.band)
	}
	return append(out, model.BandPoor)
}
