package cohort_test

import (
	"errors"
	"testing"

	"github.com/okian/prospect/internal/domain/cohort"
	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// identityModel scores a player by its single feature "x".
func identityModel(id model.ClusterID) *model.ClusterModel {
	return &model.ClusterModel{
		ID:           id,
		Features:     []string{"x"},
		Mean:         []float64{0},
		Scale:        []float64{1},
		Coefficients: []float64{1},
	}
}

func player(name string, cluster model.ClusterID, year int, x float64) model.PlayerRecord {
	return model.PlayerRecord{
		Name:     name,
		Cluster:  cluster,
		Year:     year,
		Features: map[string]float64{"x": x},
	}
}

type countingScorer struct {
	calls int
}

func (c *countingScorer) Score(m *model.ClusterModel, src features.Source) model.ScoredPrediction {
	c.calls++
	x, _ := src.Value("x")
	return model.ScoredPrediction{Cluster: m.ID, Probability: x}
}

func TestFilter(t *testing.T) {
	Convey("Given players across clusters and years", t, func() {
		players := []model.PlayerRecord{
			player("a", 1, 9, 0),
			player("b", 1, 10, 0),
			player("c", 2, 15, 0),
			player("d", 1, 25, 0),
			player("e", 1, 26, 0),
		}

		Convey("Then only the cluster's players inside the inclusive range remain", func() {
			got := cohort.Filter(players, 1, 10, 25)
			So(got, ShouldHaveLength, 2)
			So(got[0].Name, ShouldEqual, "b")
			So(got[1].Name, ShouldEqual, "d")
		})
	})
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given a cohort ranker", t, func() {
		m := identityModel(1)
		r := cohort.NewRanker(cohort.WithScorer(&countingScorer{}))

		population := []model.PlayerRecord{
			player("low", 1, 12, 0.2),
			player("tie-first", 1, 13, 0.6),
			player("top", 1, 14, 0.9),
			player("tie-second", 1, 15, 0.6),
		}

		Convey("When the target is in the population", func() {
			rating, err := r.Rank(cohort.Target{Name: "tie-second", Probability: 0.6}, m, population)
			So(err, ShouldBeNil)

			Convey("Then ties keep dataset order and the rank is 1-based", func() {
				So(rating.InCohort, ShouldBeTrue)
				So(rating.Rank, ShouldEqual, 3)
				So(rating.Size, ShouldEqual, 4)
			})

			Convey("And the rating is the probability itself", func() {
				So(rating.Rating, ShouldEqual, 0.6)
				So(rating.Band, ShouldEqual, model.BandGood)
				So(rating.Percentile, ShouldEqual, 0.25)
				So(rating.Cluster, ShouldEqual, model.ClusterID(1))
			})
		})

		Convey("When the target is the best player", func() {
			rating, err := r.Rank(cohort.Target{Name: "top", Probability: 0.9}, m, population)
			So(err, ShouldBeNil)
			So(rating.Rank, ShouldEqual, 1)
			So(rating.Band, ShouldEqual, model.BandElite)
		})

		Convey("When the target is not in the population", func() {
			rating, err := r.Rank(cohort.Target{Name: "outsider", Probability: 0.45}, m, population)

			Convey("Then the miss is reported but the rating still equals the probability", func() {
				So(err, ShouldBeNil)
				So(rating.InCohort, ShouldBeFalse)
				So(rating.Rank, ShouldEqual, 0)
				So(rating.Rating, ShouldEqual, 0.45)
				So(rating.Band, ShouldEqual, model.BandAverage)
			})
		})

		Convey("When the population is empty", func() {
			_, err := r.Rank(cohort.Target{Name: "top", Probability: 0.9}, m, nil)

			Convey("Then ErrEmptyCohort is returned", func() {
				So(errors.Is(err, cohort.ErrEmptyCohort), ShouldBeTrue)
			})
		})

		Convey("When names repeat across seasons", func() {
			dup := append(population, player("top", 1, 20, 0.95))
			rating, err := r.Rank(cohort.Target{Name: "top", Probability: 0.9}, m, dup)
			So(err, ShouldBeNil)

			Convey("Then the first match in ranked order wins", func() {
				So(rating.Rank, ShouldEqual, 1)
			})
		})
	})

	Convey("Given the default linear scorer", t, func() {
		r := cohort.NewRanker()
		m := identityModel(0)
		population := []model.PlayerRecord{player("a", 0, 10, -1), player("b", 0, 11, 2)}

		Convey("Then members are ordered by logistic probability", func() {
			p := r.Build(m, population)
			So(p.Len(), ShouldEqual, 2)
			So(p.Entries[0].Player.Name, ShouldEqual, "b")
			So(p.Entries[0].Probability, ShouldBeGreaterThan, p.Entries[1].Probability)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given a request-scoped session", t, func() {
		scorer := &countingScorer{}
		r := cohort.NewRanker(cohort.WithScorer(scorer))
		players := []model.PlayerRecord{
			player("a", 1, 19, 0.3),
			player("b", 1, 20, 0.7),
			player("c", 2, 20, 0.5),
			player("old", 1, 5, 0.99),
		}
		s := r.NewSession(players, 10, 25)
		m := identityModel(1)

		Convey("When rating several players of one cluster", func() {
			ra, err := s.Rate(cohort.Target{Name: "a", Probability: 0.3}, m)
			So(err, ShouldBeNil)
			rb, err := s.Rate(cohort.Target{Name: "b", Probability: 0.7}, m)
			So(err, ShouldBeNil)

			Convey("Then the cohort is scored once", func() {
				So(scorer.calls, ShouldEqual, 2)
				So(ra.Rank, ShouldEqual, 2)
				So(rb.Rank, ShouldEqual, 1)
				So(ra.Size, ShouldEqual, 2)
			})
		})

		Convey("When the cluster has no members in range", func() {
			_, err := s.Rate(cohort.Target{Name: "z", Probability: 0.5}, identityModel(7))
			So(errors.Is(err, cohort.ErrEmptyCohort), ShouldBeTrue)
		})
	})
}

func TestBandFor(t *testing.T) {
	Convey("Given the eight rating bands", t, func() {
		Convey("Then lower bounds are inclusive", func() {
			So(cohort.BandFor(0.9), ShouldEqual, model.BandElite)
			So(cohort.BandFor(0.8), ShouldEqual, model.BandGreat)
			So(cohort.BandFor(0.7), ShouldEqual, model.BandVeryGood)
			So(cohort.BandFor(0.6), ShouldEqual, model.BandGood)
			So(cohort.BandFor(0.5), ShouldEqual, model.BandAboveAverage)
			So(cohort.BandFor(0.4), ShouldEqual, model.BandAverage)
			So(cohort.BandFor(0.3), ShouldEqual, model.BandBelowAverage)
			So(cohort.BandFor(0.2999), ShouldEqual, model.BandPoor)
		})

		Convey("And every value in [0,1] maps to exactly one band, in order", func() {
			order := map[model.Band]int{}
			for i, b := range cohort.Bands() {
				order[b] = i
			}
			So(order, ShouldHaveLength, 8)
			prev := order[model.BandPoor]
			for i := 0; i <= 1000; i++ {
				b := cohort.BandFor(float64(i) / 1000)
				idx, ok := order[b]
				So(ok, ShouldBeTrue)
				So(idx, ShouldBeLessThanOrEqualTo, prev)
				prev = idx
			}
			So(cohort.BandFor(0), ShouldEqual, model.BandPoor)
			So(cohort.BandFor(1), ShouldEqual, model.BandElite)
		})
	})
}
