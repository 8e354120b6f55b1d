package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	service "github.com/okian/prospect/internal/app"
	"github.com/okian/prospect/internal/adapters/repository"
	"github.com/okian/prospect/internal/domain/cohort"
	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/registry"
	"github.com/okian/prospect/internal/domain/scoring"
	"github.com/okian/prospect/internal/domain/types"
	"github.com/okian/prospect/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// xModel scores players by their single feature "x": probability = sigmoid(x).
func xModel(id model.ClusterID, name string) model.ClusterModel {
	return model.ClusterModel{
		ID:           id,
		Name:         name,
		Description:  name + " description",
		Features:     []string{"x"},
		Mean:         []float64{0},
		Scale:        []float64{1},
		Coefficients: []float64{1},
	}
}

func row(name string, cluster model.ClusterID, year, pick int, x float64) model.PlayerRecord {
	return model.PlayerRecord{Name: name, Cluster: cluster, Year: year, Pick: pick, Features: map[string]float64{"x": x}}
}

func fixture() *service.Service {
	rows := []model.PlayerRecord{
		row("Alan Ace", 1, 19, 1, 2.0),
		row("Bob Bench", 1, 19, 20, 1.0),
		row("Cal Cole", 1, 12, 5, 0.5),
		row("Dan Deep", 1, 20, 0, -1.0),
		row("Eli Edge", 2, 19, 3, 0.0),
		row("Fay Far", 2, 19, 30, -3.0),
		row("Gus Giant", 0, 21, 10, 1.5),
		row("Hal Hidden", 5, 19, 2, 0.0),
	}
	reg, err := registry.New(xModel(0, "Big Men"), xModel(1, "Forwards"), xModel(2, "Guards"))
	if err != nil {
		panic(err)
	}
	return service.New(
		repository.NewMemoryStore(rows, repository.WithSource("fixture")),
		reg,
		service.WithLogger(logger.Get()),
		service.WithModelSource("models.yaml"),
	)
}

func logit(p float64) float64 { return math.Log(p / (1 - p)) }

func TestService_ScoreByIdentity(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("When scoring a known player", func() {
			pred, err := svc.ScoreByIdentity(ctx, "Alan Ace")

			Convey("Then the player's cluster model is used", func() {
				So(err, ShouldBeNil)
				So(pred.Cluster, ShouldEqual, model.ClusterID(1))
				So(pred.Probability, ShouldEqual, scoring.Sigmoid(2.0))
				So(pred.Player, ShouldNotBeNil)
				So(pred.Player.Name, ShouldEqual, "Alan Ace")
				So(pred.Player.Year, ShouldEqual, 2019)
				So(pred.AdjustedProbability, ShouldBeNil)
			})

			Convey("Then repeated calls are bit-identical", func() {
				again, err := svc.ScoreByIdentity(ctx, "Alan Ace")
				So(err, ShouldBeNil)
				So(math.Float64bits(again.Probability), ShouldEqual, math.Float64bits(pred.Probability))
			})
		})

		Convey("When the name is unknown", func() {
			_, err := svc.ScoreByIdentity(ctx, "alan ace")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(service.Outcome(err), ShouldEqual, "player_not_found")
			})
		})

		Convey("When the player's cluster has no model", func() {
			_, err := svc.ScoreByIdentity(ctx, "Hal Hidden")

			Convey("Then ErrUnknownCluster is returned", func() {
				So(errors.Is(err, registry.ErrUnknownCluster), ShouldBeTrue)
			})
		})
	})
}

func TestService_ScoreManual(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("When the cluster is unknown", func() {
			_, err := svc.ScoreManual(ctx, 99.0, features.Values{"x": 1})

			Convey("Then ErrUnknownCluster is returned", func() {
				So(errors.Is(err, registry.ErrUnknownCluster), ShouldBeTrue)
			})
		})

		Convey("When no features are supplied", func() {
			pred, err := svc.ScoreManual(ctx, 0.0, features.Values{})

			Convey("Then missing features default to zero", func() {
				So(err, ShouldBeNil)
				So(pred.Logit, ShouldEqual, 0)
				So(pred.Probability, ShouldEqual, 0.5)
				So(pred.Breakdown, ShouldHaveLength, 1)
				So(pred.Breakdown[0].RawValue, ShouldEqual, 0)
			})
		})

		Convey("When a forward's probability is above the ceiling with a positive delta", func() {
			pred, err := svc.ScoreManual(ctx, 1.0, features.Values{"x": logit(0.95), "Player_Encoded": 1})

			Convey("Then the adjusted probability stays unchanged", func() {
				So(err, ShouldBeNil)
				So(pred.Probability, ShouldAlmostEqual, 0.95, 1e-9)
				So(pred.AdjustedProbability, ShouldNotBeNil)
				So(*pred.AdjustedProbability, ShouldEqual, pred.Probability)
				So(*pred.Adjustment, ShouldEqual, 0.07)
			})
		})

		Convey("When a low forward probability takes a large negative delta", func() {
			pred, err := svc.ScoreManual(ctx, 1.0, features.Values{"x": logit(0.05), "Player_Encoded": 4})

			Convey("Then the result clamps at zero", func() {
				So(err, ShouldBeNil)
				So(*pred.AdjustedProbability, ShouldEqual, 0.0)
				So(*pred.Adjustment, ShouldEqual, -0.13)
				So(pred.FinalProbability(), ShouldEqual, 0.0)
			})
		})

		Convey("When another cluster carries a class-year code", func() {
			pred, err := svc.ScoreManual(ctx, 2.0, features.Values{"x": 0, "Player_Encoded": 1})

			Convey("Then no adjustment is reported", func() {
				So(err, ShouldBeNil)
				So(pred.AdjustedProbability, ShouldBeNil)
				So(pred.Adjustment, ShouldBeNil)
			})
		})
	})
}

func TestService_RankWithinCohort(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("When ranking the best forward of 2010-2025", func() {
			r, err := svc.RankWithinCohort(ctx, "Alan Ace", 1.0, 2010, 2025)

			Convey("Then the player ranks first among the four forwards", func() {
				So(err, ShouldBeNil)
				So(r.InCohort, ShouldBeTrue)
				So(r.Rank, ShouldEqual, 1)
				So(r.Size, ShouldEqual, 4)
				So(r.Percentile, ShouldEqual, 0.75)
				So(r.Rating, ShouldEqual, scoring.Sigmoid(2.0))
				So(r.Band, ShouldEqual, model.BandGreat)
			})
		})

		Convey("When 2-digit years are used", func() {
			r, err := svc.RankWithinCohort(ctx, "Cal Cole", 1.0, 10, 25)

			Convey("Then they behave like 4-digit years", func() {
				So(err, ShouldBeNil)
				So(r.Rank, ShouldEqual, 3)
			})
		})

		Convey("When the player belongs to another cluster", func() {
			r, err := svc.RankWithinCohort(ctx, "Eli Edge", 1.0, 2010, 2025)

			Convey("Then the miss is reported and the rating still equals the probability", func() {
				So(err, ShouldBeNil)
				So(r.InCohort, ShouldBeFalse)
				So(r.Rank, ShouldEqual, 0)
				So(r.Rating, ShouldEqual, 0.5)
				So(r.Band, ShouldEqual, model.BandAboveAverage)
			})
		})

		Convey("When the window holds nobody", func() {
			_, err := svc.RankWithinCohort(ctx, "Alan Ace", 1.0, 2030, 2031)

			Convey("Then ErrEmptyCohort is returned", func() {
				So(errors.Is(err, cohort.ErrEmptyCohort), ShouldBeTrue)
				So(service.Outcome(err), ShouldEqual, "empty_cohort")
			})
		})

		Convey("When the range is inverted", func() {
			_, err := svc.RankWithinCohort(ctx, "Alan Ace", 1.0, 2025, 2010)

			Convey("Then ErrInvalidRange is returned", func() {
				So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			})
		})
	})
}

func TestService_Reports(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("When building a report", func() {
			rep, err := svc.Report(ctx, "Bob Bench")

			Convey("Then it carries the prediction and the cohort rating", func() {
				So(err, ShouldBeNil)
				So(rep.Rating, ShouldNotBeNil)
				So(rep.Rating.Rank, ShouldEqual, 2)
				So(rep.Rating.Rating, ShouldEqual, rep.Prediction.Probability)
			})
		})

		Convey("When comparing two players", func() {
			cmp, err := svc.Compare(ctx, "Alan Ace", "Eli Edge")

			Convey("Then the difference is first minus second", func() {
				So(err, ShouldBeNil)
				So(cmp.First.Prediction.Player.Name, ShouldEqual, "Alan Ace")
				So(cmp.Second.Prediction.Player.Name, ShouldEqual, "Eli Edge")
				So(cmp.Diff, ShouldAlmostEqual, scoring.Sigmoid(2.0)-0.5, 1e-12)
			})
		})

		Convey("When one side is unknown", func() {
			_, err := svc.Compare(ctx, "Alan Ace", "Nobody")

			Convey("Then the lookup error is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Suggest(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("Then short queries return nothing", func() {
			So(svc.Suggest(ctx, "a"), ShouldBeEmpty)
			So(svc.Suggest(ctx, "  a "), ShouldBeEmpty)
		})

		Convey("Then matches are case-insensitive and in dataset order", func() {
			So(svc.Suggest(ctx, "AL"), ShouldResemble, []string{"Alan Ace", "Cal Cole", "Hal Hidden"})
		})

		Convey("Then unmatched queries return an empty list", func() {
			So(svc.Suggest(ctx, "zz"), ShouldResemble, []string{})
		})
	})
}

func TestService_Listings(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("When ranking a draft year", func() {
			entries, err := svc.YearRankings(ctx, 2019, 0)

			Convey("Then players with a model are ordered by rating", func() {
				So(err, ShouldBeNil)
				So(names(entries), ShouldResemble, []string{"Alan Ace", "Bob Bench", "Eli Edge", "Fay Far"})
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[2].CohortRank, ShouldEqual, 1)
				So(entries[2].CohortSize, ShouldEqual, 2)
				So(entries[0].ClusterName, ShouldEqual, "Forwards")
			})
		})

		Convey("When the limit is smaller than the class", func() {
			entries, err := svc.YearRankings(ctx, 19, 2)
			So(err, ShouldBeNil)
			So(names(entries), ShouldResemble, []string{"Alan Ace", "Bob Bench"})
		})

		Convey("When the year is outside the display window", func() {
			_, err := svc.YearRankings(ctx, 2018, 10)
			So(errors.Is(err, service.ErrYearOutOfRange), ShouldBeTrue)

			_, err = svc.DraftClass(ctx, 2026)
			So(errors.Is(err, service.ErrYearOutOfRange), ShouldBeTrue)
		})

		Convey("When listing a draft class", func() {
			entries, err := svc.DraftClass(ctx, 2019)

			Convey("Then drafted players come back in pick order", func() {
				So(err, ShouldBeNil)
				So(names(entries), ShouldResemble, []string{"Alan Ace", "Eli Edge", "Bob Bench", "Fay Far"})
				So(entries[1].Pick, ShouldEqual, 3)
			})
		})

		Convey("When listing lottery picks", func() {
			entries := svc.LotteryPicks(ctx)

			Convey("Then display-window picks 1-14 are ordered by rating", func() {
				So(names(entries), ShouldResemble, []string{"Alan Ace", "Gus Giant", "Eli Edge"})
			})
		})

		Convey("When listing draft steals", func() {
			entries := svc.DraftSteals(ctx, 0)

			Convey("Then only late picks above the rating floor remain", func() {
				So(names(entries), ShouldResemble, []string{"Bob Bench"})
				So(entries[0].Rating, ShouldBeGreaterThanOrEqualTo, 0.3)
			})
		})
	})
}

func TestService_ClustersAndStats(t *testing.T) {
	Convey("Given a service over a small dataset", t, func() {
		svc := fixture()
		ctx := context.Background()

		Convey("Then every cluster is described in id order", func() {
			infos := svc.Clusters(ctx)
			So(infos, ShouldHaveLength, 3)
			So(infos[0].Name, ShouldEqual, "Big Men")
			So(infos[2].Features, ShouldResemble, []string{"x"})
		})

		Convey("Then unknown clusters are rejected", func() {
			_, err := svc.ClusterInfo(ctx, 7)
			So(errors.Is(err, registry.ErrUnknownCluster), ShouldBeTrue)

			info, err := svc.ClusterInfo(ctx, 1)
			So(err, ShouldBeNil)
			So(info.Description, ShouldEqual, "Forwards description")
		})

		Convey("Then stats reflect what was loaded", func() {
			stats := svc.GetStats(ctx)
			So(stats.Players, ShouldEqual, 8)
			So(stats.Clusters, ShouldEqual, 3)
			So(stats.DatasetSource, ShouldEqual, "fixture")
			So(stats.ModelSource, ShouldEqual, "models.yaml")
		})

		Convey("Then the display window is reported in 4-digit years", func() {
			lo, hi := svc.DisplayYears()
			So(lo, ShouldEqual, 2019)
			So(hi, ShouldEqual, 2025)
		})
	})
}

func names(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
