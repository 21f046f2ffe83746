package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/finml/creditserve/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatrix(t *testing.T) {
	Convey("Given a Matrix", t, func() {
		Convey("When creating an empty matrix", func() {
			m := types.Matrix{}

			Convey("Then it should have zero rows", func() {
				So(m.Rows(), ShouldEqual, 0)
			})
		})

		Convey("When creating a nil matrix", func() {
			var m types.Matrix

			Convey("Then it should have zero rows", func() {
				So(m.Rows(), ShouldEqual, 0)
			})
		})

		Convey("When creating a matrix with records", func() {
			m := types.Matrix{
				{1.0, 2.0, 3.0},
				{4.0, 5.0, 6.0},
			}

			Convey("Then it should report the record count", func() {
				So(m.Rows(), ShouldEqual, 2)
			})

			Convey("And rows should keep their values", func() {
				So(m[0], ShouldResemble, []float64{1.0, 2.0, 3.0})
				So(m[1], ShouldResemble, []float64{4.0, 5.0, 6.0})
			})
		})

		Convey("When creating a single-row matrix", func() {
			m := types.Matrix{{0.5}}

			Convey("Then it should have one row", func() {
				So(m.Rows(), ShouldEqual, 1)
			})
		})
	})
}

func TestFeatureValue(t *testing.T) {
	Convey("Given a FeatureValue", t, func() {
		Convey("When marshaling to JSON", func() {
			fv := types.FeatureValue{Feature: "P_2_last", Value: 0.42}

			data, err := json.Marshal(fv)

			Convey("Then it should use the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"feature":"P_2_last"`)
				So(string(data), ShouldContainSubstring, `"value":0.42`)
			})
		})

		Convey("When creating with zero values", func() {
			fv := types.FeatureValue{}

			Convey("Then it should have default values", func() {
				So(fv.Feature, ShouldEqual, "")
				So(fv.Value, ShouldEqual, 0.0)
			})
		})

		Convey("When creating with a negative contribution", func() {
			fv := types.FeatureValue{Feature: "B_11_last", Value: -1.5}

			Convey("Then it should accept negative values", func() {
				So(fv.Value, ShouldEqual, -1.5)
			})
		})
	})
}

func TestAttribution(t *testing.T) {
	Convey("Given an Attribution", t, func() {
		Convey("When creating a zero-value attribution", func() {
			a := types.Attribution{}

			Convey("Then it should have defaults", func() {
				So(a.BaseValue, ShouldEqual, 0.0)
				So(a.BaseValueDefaulted, ShouldBeFalse)
				So(a.Rows, ShouldBeNil)
			})
		})

		Convey("When building an attribution with contributions", func() {
			a := types.Attribution{
				BaseValue: -0.25,
				Rows: [][]float64{
					{0.1, -0.2, 0.3},
					{-0.4, 0.5, -0.6},
				},
			}

			Convey("Then rows should match the input records", func() {
				So(len(a.Rows), ShouldEqual, 2)
				So(a.Rows[0], ShouldResemble, []float64{0.1, -0.2, 0.3})
			})

			Convey("And the baseline should be preserved", func() {
				So(a.BaseValue, ShouldEqual, -0.25)
			})
		})

		Convey("When the baseline was substituted", func() {
			a := types.Attribution{BaseValueDefaulted: true}

			Convey("Then the flag should distinguish it from a real zero", func() {
				So(a.BaseValue, ShouldEqual, 0.0)
				So(a.BaseValueDefaulted, ShouldBeTrue)
			})
		})
	})
}
