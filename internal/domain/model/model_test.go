package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/prospect/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClusterID(t *testing.T) {
	Convey("Given cluster identifiers", t, func() {
		So(model.ClusterID(1).String(), ShouldEqual, "1.0")
		So(model.ClusterID(99).String(), ShouldEqual, "99.0")

		id, err := model.ParseClusterID("2.0")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, model.ClusterID(2))

		_, err = model.ParseClusterID("guards")
		So(err, ShouldNotBeNil)
	})
}

func TestPlayerRecord(t *testing.T) {
	Convey("Given a player record", t, func() {
		p := model.PlayerRecord{
			Name:     "Jalen Example",
			Year:     21,
			Pick:     7,
			Features: map[string]float64{"LogStl": 0.4, "LogBlk": math.NaN()},
		}

		Convey("Then present finite features resolve", func() {
			v, ok := p.Value("LogStl")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 0.4)
		})

		Convey("And NaN or absent features do not", func() {
			_, ok := p.Value("LogBlk")
			So(ok, ShouldBeFalse)
			_, ok = p.Value("LogAst")
			So(ok, ShouldBeFalse)
		})

		Convey("And the identity carries the 4-digit year", func() {
			So(p.DraftYear(), ShouldEqual, 2021)
			So(p.Identity().Year, ShouldEqual, 2021)
			So(p.Drafted(), ShouldBeTrue)
		})
	})

	Convey("Given user-facing years", t, func() {
		So(model.InternalYear(2019), ShouldEqual, 19)
		So(model.InternalYear(19), ShouldEqual, 19)
	})
}

func TestClusterModel_Validate(t *testing.T) {
	valid := func() model.ClusterModel {
		return model.ClusterModel{
			ID:           0,
			Features:     []string{"LogBlk", "LogREB"},
			Mean:         []float64{0.1, 0.2},
			Scale:        []float64{1, 2},
			Coefficients: []float64{0.5, 0.7},
		}
	}

	Convey("Given a cluster model", t, func() {
		Convey("When every array matches the feature list", func() {
			m := valid()
			So(m.Validate(), ShouldBeNil)
		})

		Convey("When an array is short", func() {
			m := valid()
			m.Mean = m.Mean[:1]
			So(errors.Is(m.Validate(), model.ErrInvalidModel), ShouldBeTrue)
		})

		Convey("When there are no features", func() {
			m := model.ClusterModel{}
			So(errors.Is(m.Validate(), model.ErrInvalidModel), ShouldBeTrue)
		})

		Convey("When a feature repeats", func() {
			m := valid()
			m.Features[1] = "LogBlk"
			So(errors.Is(m.Validate(), model.ErrInvalidModel), ShouldBeTrue)
		})

		Convey("When a parameter is not finite", func() {
			m := valid()
			m.Coefficients[0] = math.Inf(1)
			So(errors.Is(m.Validate(), model.ErrInvalidModel), ShouldBeTrue)
		})
	})
}

func TestScoredPrediction_FinalProbability(t *testing.T) {
	Convey("Given a prediction", t, func() {
		p := model.ScoredPrediction{Probability: 0.4}
		So(p.FinalProbability(), ShouldEqual, 0.4)

		adjusted := 0.33
		p.AdjustedProbability = &adjusted
		So(p.FinalProbability(), ShouldEqual, 0.33)
	})
}
