package probe

import (
	"fmt"
	"math"

	"github.com/okian/prospect/internal/domain/cohort"
	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/types"
)

const epsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= epsilon }

// verifyRankings checks one year's listing: ranks are 1..n, probabilities
// never increase, rating equals probability and the band matches the rating.
func verifyRankings(year int, entries []types.Entry) []string {
	var out []string
	for i, e := range entries {
		if e.Rank != i+1 {
			out = append(out, fmt.Sprintf("%d: entry %d (%s) has rank %d", year, i, e.Name, e.Rank))
		}
		if e.Year != year {
			out = append(out, fmt.Sprintf("%d: %s listed with year %d", year, e.Name, e.Year))
		}
		if i > 0 && e.Probability > entries[i-1].Probability {
			out = append(out, fmt.Sprintf("%d: %s (%.4f) ranked below %s (%.4f)",
				year, e.Name, e.Probability, entries[i-1].Name, entries[i-1].Probability))
		}
		out = append(out, verifyRating(fmt.Sprintf("%d: %s", year, e.Name), e.Probability, e.Rating, e.Band)...)
	}
	return out
}

// verifyCohortRating checks a cohort rating against the listing entry it was fetched for.
func verifyCohortRating(e types.Entry, r model.CohortRating) []string {
	label := "rating " + e.Name
	out := verifyRating(label, e.Probability, r.Rating, r.Band)
	if !r.InCohort {
		return append(out, label+": player missing from its own cohort")
	}
	if r.Rank < 1 || r.Rank > r.Size {
		out = append(out, fmt.Sprintf("%s: rank %d outside 1..%d", label, r.Rank, r.Size))
	}
	if r.Cluster != e.Cluster {
		out = append(out, fmt.Sprintf("%s: cluster %s, listed as %s", label, r.Cluster, e.Cluster))
	}
	return out
}

// sameRecord reports whether a by-name report describes the listed record.
func sameRecord(e types.Entry, rep types.Report) bool {
	p := rep.Prediction.Player
	return p != nil && p.Name == e.Name && p.Year == e.Year && p.Pick == e.Pick && p.Team == e.Team
}

// verifyReport checks that a full prediction agrees with the listing entry.
func verifyReport(e types.Entry, rep types.Report) []string {
	label := "report " + e.Name
	var out []string
	if !near(rep.Prediction.Probability, e.Probability) {
		out = append(out, fmt.Sprintf("%s: probability %.6f, listed %.6f", label, rep.Prediction.Probability, e.Probability))
	}
	if rep.Rating == nil {
		return append(out, label+": no cohort rating")
	}
	return append(out, verifyRating(label, rep.Prediction.Probability, rep.Rating.Rating, rep.Rating.Band)...)
}

func verifyRating(label string, probability, rating float64, band model.Band) []string {
	var out []string
	if !near(rating, probability) {
		out = append(out, fmt.Sprintf("%s: rating %.6f differs from probability %.6f", label, rating, probability))
	}
	if want := cohort.BandFor(rating); band != want {
		out = append(out, fmt.Sprintf("%s: band %q, want %q", label, band, want))
	}
	return out
}
