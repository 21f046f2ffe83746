package explain_test

import (
	"context"
	"testing"

	"github.com/finml/creditserve/internal/domain/explain"
	"github.com/finml/creditserve/internal/domain/model"
	"github.com/finml/creditserve/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct {
	ensemble *model.Ensemble
}

func (s *stubSource) Get() (*model.Ensemble, bool) {
	return s.ensemble, s.ensemble != nil
}

// testEnsemble builds two stumps over two features. Tree 0: split f0 at 0.5,
// leaves -1 (cover 3) and 2 (cover 1), root expectation -0.25. Tree 1: split
// f1 at 0, leaves 0.5 and -0.5 with equal cover, root expectation 0.
func testEnsemble(raw string) *model.Ensemble {
	e, err := model.Parse([]byte(raw))
	if err != nil {
		panic(err)
	}
	return e
}

const twoStumps = `{
	"base_score": 0.1,
	"objective": "binary:logistic",
	"num_features": 2,
	"trees": [
		{"nodes": [
			{"feature_idx": 0, "threshold": 0.5, "left": 1, "right": 2, "cover": 4},
			{"is_leaf": true, "leaf_value": -1.0, "cover": 3},
			{"is_leaf": true, "leaf_value": 2.0, "cover": 1}
		]},
		{"nodes": [
			{"feature_idx": 1, "threshold": 0.0, "left": 1, "right": 2, "cover": 4},
			{"is_leaf": true, "leaf_value": 0.5, "cover": 2},
			{"is_leaf": true, "leaf_value": -0.5, "cover": 2}
		]}
	]
}`

func TestExplain(t *testing.T) {
	Convey("Given an explainer over a loaded model", t, func() {
		ensemble := testEnsemble(twoStumps)
		e := explain.New(&stubSource{ensemble: ensemble})
		ctx := context.Background()

		Convey("When explaining one row", func() {
			attribution, err := e.Explain(ctx, types.Matrix{{0.0, -1.0}})

			Convey("Then the baseline should be base score plus root expectations", func() {
				So(err, ShouldBeNil)
				So(attribution.BaseValue, ShouldAlmostEqual, 0.1+(-0.25)+0.0, 1e-12)
				So(attribution.BaseValueDefaulted, ShouldBeFalse)
			})

			Convey("And each split feature should carry the expectation delta", func() {
				So(len(attribution.Rows), ShouldEqual, 1)
				contrib := attribution.Rows[0]
				So(contrib[0], ShouldAlmostEqual, -1.0-(-0.25), 1e-12) // went left in tree 0
				So(contrib[1], ShouldAlmostEqual, 0.5-0.0, 1e-12)      // went left in tree 1
			})
		})

		Convey("When checking additivity over arbitrary rows", func() {
			matrix := types.Matrix{
				{0.0, -1.0},
				{1.0, 1.0},
				{0.5, 0.0},
				{-2.3, 4.7},
			}
			attribution, err := e.Explain(ctx, matrix)
			So(err, ShouldBeNil)

			Convey("Then baseline plus contributions should equal the margin exactly", func() {
				for i, row := range matrix {
					margin, merr := ensemble.Margin(row)
					So(merr, ShouldBeNil)

					total := attribution.BaseValue
					for _, c := range attribution.Rows[i] {
						total += c
					}
					So(total, ShouldAlmostEqual, margin, 1e-9)
				}
			})
		})

		Convey("When explaining an empty matrix", func() {
			attribution, err := e.Explain(ctx, types.Matrix{})

			Convey("Then the baseline should still be reported", func() {
				So(err, ShouldBeNil)
				So(len(attribution.Rows), ShouldEqual, 0)
				So(attribution.BaseValue, ShouldAlmostEqual, -0.15, 1e-12)
			})
		})

		Convey("When a row has the wrong width", func() {
			_, err := e.Explain(ctx, types.Matrix{{1.0}})

			Convey("Then it should report the width mismatch", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, model.ErrRowWidth)
			})
		})

		Convey("When explaining twice", func() {
			m := types.Matrix{{0.9, 0.1}}
			first, err1 := e.Explain(ctx, m)
			second, err2 := e.Explain(ctx, m)

			Convey("Then cached expectations should not change the result", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})
	})

	Convey("Given a model with a substituted baseline", t, func() {
		raw := `{
			"base_score": {},
			"objective": "binary:logistic",
			"num_features": 1,
			"trees": [{"nodes": [{"is_leaf": true, "leaf_value": 0.4, "cover": 1}]}]
		}`
		e := explain.New(&stubSource{ensemble: testEnsemble(raw)})

		Convey("When explaining", func() {
			attribution, err := e.Explain(context.Background(), types.Matrix{{0.0}})

			Convey("Then the substitution should be surfaced", func() {
				So(err, ShouldBeNil)
				So(attribution.BaseValueDefaulted, ShouldBeTrue)
				So(attribution.BaseValue, ShouldAlmostEqual, 0.4, 1e-12)
			})
		})
	})

	Convey("Given an explainer with no model", t, func() {
		e := explain.New(&stubSource{})

		Convey("When explaining", func() {
			_, err := e.Explain(context.Background(), types.Matrix{{0, 0}})

			Convey("Then it should report the model as unavailable", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldEqual, explain.ErrModelUnavailable)
			})
		})
	})
}
