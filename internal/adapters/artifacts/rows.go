// Package artifacts reads the trained model bundle and the player dataset from disk.
package artifacts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/prospect/internal/domain/model"
)

// Dataset column names. Every other numeric column is treated as a feature.
const (
	ColName    = "Name"
	ColCluster = "PlayStyleCluster"
	ColYear    = "Year"
	ColPick    = "Pick"
	ColTeam    = "Team"
	ColHeight  = "Height"
	ColActual  = "Actual"
)

// Dataset is the result of reading player rows.
type Dataset struct {
	Players []model.PlayerRecord
	// Skipped counts rows without a name or with an unparsable cluster.
	Skipped int
	Source  string
}

// rowBuilder maps cell text to PlayerRecords using a header.
type rowBuilder struct {
	header  []string
	name    int
	cluster int
	year    int
	pick    int
	team    int
	height  int
	actual  int
}

func newRowBuilder(header []string) (*rowBuilder, error) {
	b := &rowBuilder{header: header, name: -1, cluster: -1, year: -1, pick: -1, team: -1, height: -1, actual: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColName:
			b.name = i
		case ColCluster:
			b.cluster = i
		case ColYear:
			b.year = i
		case ColPick:
			b.pick = i
		case ColTeam:
			b.team = i
		case ColHeight:
			b.height = i
		case ColActual:
			b.actual = i
		}
	}
	if b.name < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColName)
	}
	if b.cluster < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColCluster)
	}
	return b, nil
}

func (b *rowBuilder) identity(i int) bool {
	switch i {
	case b.name, b.cluster, b.year, b.pick, b.team, b.height, b.actual:
		return true
	}
	return false
}

// build converts one row. ok is false when the row cannot be attributed to a
// named player in a cluster.
func (b *rowBuilder) build(cells []string) (model.PlayerRecord, bool) {
	name := strings.TrimSpace(cell(cells, b.name))
	if name == "" {
		return model.PlayerRecord{}, false
	}
	cluster, ok := number(cell(cells, b.cluster))
	if !ok {
		return model.PlayerRecord{}, false
	}

	p := model.PlayerRecord{
		Name:     name,
		Cluster:  model.ClusterID(cluster),
		Team:     strings.TrimSpace(cell(cells, b.team)),
		Height:   strings.TrimSpace(cell(cells, b.height)),
		Actual:   strings.TrimSpace(cell(cells, b.actual)),
		Features: make(map[string]float64, len(b.header)),
	}
	if y, ok := number(cell(cells, b.year)); ok {
		p.Year = model.InternalYear(int(y))
	}
	if pk, ok := number(cell(cells, b.pick)); ok && pk > 0 {
		p.Pick = int(pk)
	}

	for i, h := range b.header {
		if b.identity(i) {
			continue
		}
		if v, ok := number(cell(cells, i)); ok {
			p.Features[strings.TrimSpace(h)] = v
		}
	}
	return p, true
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// number parses a finite float; empty, NaN and text cells report false.
func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
