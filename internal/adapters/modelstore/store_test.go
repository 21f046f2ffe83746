package modelstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/finml/creditserve/internal/adapters/modelstore"
	"github.com/finml/creditserve/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const validArtifact = `{
	"base_score": 0.2,
	"objective": "binary:logistic",
	"num_features": 2,
	"trees": [
		{"nodes": [
			{"feature_idx": 0, "threshold": 0.5, "left": 1, "right": 2, "cover": 4},
			{"is_leaf": true, "leaf_value": -1.0, "cover": 3},
			{"is_leaf": true, "leaf_value": 2.0, "cover": 1}
		]}
	]
}`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store", t, func() {
		ctx := context.Background()

		Convey("When loading a valid artifact", func() {
			path := writeArtifact(t, validArtifact)
			store := modelstore.New(modelstore.WithPath(path))

			err := store.Load(ctx)

			Convey("Then the ensemble should be available", func() {
				So(err, ShouldBeNil)

				ensemble, ok := store.Get()
				So(ok, ShouldBeTrue)
				So(ensemble, ShouldNotBeNil)
				So(ensemble.NumTrees(), ShouldEqual, 1)
				So(ensemble.NumFeatures, ShouldEqual, 2)
			})

			Convey("And the path should be reported", func() {
				So(store.Path(), ShouldEqual, path)
			})
		})

		Convey("When the artifact file is missing", func() {
			store := modelstore.New(modelstore.WithPath(filepath.Join(t.TempDir(), "absent.json")))

			err := store.Load(ctx)

			Convey("Then loading should fail and the store stays empty", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, modelstore.ErrLoadFailed)

				_, ok := store.Get()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the artifact is not valid JSON", func() {
			path := writeArtifact(t, `{"trees": [`)
			store := modelstore.New(modelstore.WithPath(path))

			err := store.Load(ctx)

			Convey("Then loading should fail with both kinds", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, modelstore.ErrLoadFailed)
				So(err, ShouldWrap, model.ErrInvalidModel)

				_, ok := store.Get()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the artifact fails structural validation", func() {
			path := writeArtifact(t, `{"num_features": 2, "trees": []}`)
			store := modelstore.New(modelstore.WithPath(path))

			err := store.Load(ctx)

			Convey("Then loading should fail", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, model.ErrInvalidModel)
			})
		})

		Convey("When no path option is given", func() {
			store := modelstore.New()

			Convey("Then the default artifact path should be used", func() {
				So(store.Path(), ShouldEqual, "outputs/credit_default.json")
			})
		})

		Convey("When Get is called before Load", func() {
			store := modelstore.New()

			_, ok := store.Get()

			Convey("Then no ensemble should be available", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
