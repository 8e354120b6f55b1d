// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
)

// centuryOffset converts between 4-digit draft years and the 2-digit encoding
// carried by the dataset.
const centuryOffset = 2000

// ClusterID identifies a play-style cluster (0.0 big men, 1.0 forwards, 2.0 guards
// in the shipped artifacts). It is kept as a float because the artifacts encode it
// that way.
type ClusterID float64

// String renders the identifier the way the artifacts print it, e.g. "1.0".
func (c ClusterID) String() string {
	return strconv.FormatFloat(float64(c), 'f', 1, 64)
}

// ParseClusterID parses identifiers such as "1", "1.0" or "2.00".
func ParseClusterID(s string) (ClusterID, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return ClusterID(f), nil
}

// PlayerRecord is one player-season row of the dataset.
type PlayerRecord struct {
	Name    string    // not guaranteed unique
	Cluster ClusterID // play-style cluster
	Year    int       // last two digits of the draft year
	Pick    int       // draft pick, 0 when undrafted
	Team    string
	Height  string
	Actual  string // observed outcome label, empty when unknown

	// Features holds named statistical features. Absent keys resolve to 0.0.
	Features map[string]float64
}

// Value returns the named feature. Missing and non-finite values report false.
func (p PlayerRecord) Value(name string) (float64, bool) {
	v, ok := p.Features[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Drafted reports whether the player has a draft pick.
func (p PlayerRecord) Drafted() bool { return p.Pick > 0 }

// DraftYear returns the 4-digit draft year.
func (p PlayerRecord) DraftYear() int { return p.Year + centuryOffset }

// InternalYear converts a user-facing year into the dataset's 2-digit encoding.
// Values that already look 2-digit are returned unchanged.
func InternalYear(year int) int {
	if year >= centuryOffset {
		return year - centuryOffset
	}
	return year
}

// Identity is the subset of a PlayerRecord echoed back with predictions.
type Identity struct {
	Name   string `json:"name"`
	Team   string `json:"team,omitempty"`
	Year   int    `json:"year"`
	Pick   int    `json:"pick,omitempty"`
	Height string `json:"height,omitempty"`
	Actual string `json:"actual,omitempty"`
}

// Identity returns the player's identity fields.
func (p PlayerRecord) Identity() Identity {
	return Identity{
		Name:   p.Name,
		Team:   p.Team,
		Year:   p.DraftYear(),
		Pick:   p.Pick,
		Height: p.Height,
		Actual: p.Actual,
	}
}
