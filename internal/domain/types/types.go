// Package types contains response types shared by the service and its adapters.
package types

import "github.com/okian/prospect/internal/domain/model"

// Entry is one row of a ranked listing (year rankings, draft class, lottery, steals).
type Entry struct {
	Rank        int             `json:"rank"`
	Name        string          `json:"name"`
	Team        string          `json:"team,omitempty"`
	Year        int             `json:"year"`
	Pick        int             `json:"pick,omitempty"`
	Cluster     model.ClusterID `json:"cluster"`
	ClusterName string          `json:"cluster_name,omitempty"`
	Probability float64         `json:"probability"`
	Rating      float64         `json:"rating"`
	Band        model.Band      `json:"band"`
	CohortRank  int             `json:"cohort_rank"`
	CohortSize  int             `json:"cohort_size"`
}

// Report is a player's prediction together with its cohort rating.
type Report struct {
	Prediction model.ScoredPrediction `json:"prediction"`
	Rating     *model.CohortRating    `json:"rating,omitempty"`
}

// Comparison holds two reports side by side.
type Comparison struct {
	First  Report `json:"first"`
	Second Report `json:"second"`
	// Diff is First minus Second on the final probability.
	Diff float64 `json:"probability_diff"`
}

// ClusterInfo describes a cluster model without its parameters.
type ClusterInfo struct {
	ID          model.ClusterID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
}

// Stats summarizes what the service has loaded.
type Stats struct {
	Players       int     `json:"players"`
	Clusters      int     `json:"clusters"`
	DatasetSource string  `json:"dataset_source"`
	ModelSource   string  `json:"model_source"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// EntryFromRating builds a listing row from a player and its cohort rating.
func EntryFromRating(p model.PlayerRecord, clusterName string, r model.CohortRating) Entry {
	return Entry{
		Name:        p.Name,
		Team:        p.Team,
		Year:        p.DraftYear(),
		Pick:        p.Pick,
		Cluster:     p.Cluster,
		ClusterName: clusterName,
		Probability: r.Rating,
		Rating:      r.Rating,
		Band:        r.Band,
		CohortRank:  r.Rank,
		CohortSize:  r.Size,
	}
}
