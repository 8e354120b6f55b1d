package features_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given an ordered feature list", t, func() {
		names := []string{"LogAst", "LogStl", "DraftValue"}

		Convey("When the source has every feature", func() {
			src := features.Values{"DraftValue": 3, "LogAst": 1, "LogStl": 2}

			Convey("Then the vector follows the list order", func() {
				So(features.Build(src, names), ShouldResemble, []float64{1, 2, 3})
			})
		})

		Convey("When some features are missing", func() {
			src := features.Values{"LogStl": 2}

			Convey("Then they default to zero", func() {
				So(features.Build(src, names), ShouldResemble, []float64{0, 2, 0})
			})
		})

		Convey("When the source is empty or nil", func() {
			So(features.Build(features.Values{}, names), ShouldResemble, []float64{0, 0, 0})
			So(features.Build(nil, names), ShouldResemble, []float64{0, 0, 0})
		})

		Convey("When a player record carries NaN and Inf", func() {
			p := model.PlayerRecord{Features: map[string]float64{
				"LogAst":     math.NaN(),
				"LogStl":     math.Inf(1),
				"DraftValue": 4,
			}}

			Convey("Then non-finite values become zero", func() {
				So(features.Build(p, names), ShouldResemble, []float64{0, 0, 4})
			})
		})
	})
}

func TestParseRaw(t *testing.T) {
	Convey("Given raw manual input", t, func() {
		raw := map[string]any{
			"a":              1.5,
			"b":              "2.25",
			"c":              "not a number",
			"d":              true,
			"e":              json.Number("7"),
			"f":              "Inf",
			"Player_Encoded": nil,
		}

		Convey("When parsing it", func() {
			v := features.ParseRaw(raw)

			Convey("Then numbers and numeric strings are kept", func() {
				So(v["a"], ShouldEqual, 1.5)
				So(v["b"], ShouldEqual, 2.25)
				So(v["e"], ShouldEqual, 7.0)
			})

			Convey("And everything else becomes zero but stays present", func() {
				So(v["c"], ShouldEqual, 0.0)
				So(v["d"], ShouldEqual, 0.0)
				So(v["f"], ShouldEqual, 0.0)
				So(v.Has("Player_Encoded"), ShouldBeTrue)
				So(v.Has("missing"), ShouldBeFalse)
			})
		})
	})
}
