package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finml/creditserve/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given the docs routes", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("When requesting the docs page", func() {
			req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the ReDoc page should come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "redoc")
				So(rec.Body.String(), ShouldContainSubstring, "/openapi.yaml")
			})
		})

		Convey("When requesting the OpenAPI document", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the embedded spec should come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "yaml")
				So(rec.Body.String(), ShouldContainSubstring, "openapi: 3.0.3")
				So(rec.Body.String(), ShouldContainSubstring, "/predict")
			})
		})

		Convey("When registering on a nil mux", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestEmbeddedSpec(t *testing.T) {
	Convey("Given the embedded OpenAPI document", t, func() {
		Convey("Then it should not be empty", func() {
			So(len(swagger.OpenAPI), ShouldBeGreaterThan, 0)
		})

		Convey("And it should document the serving contract", func() {
			spec := string(swagger.OpenAPI)
			So(spec, ShouldContainSubstring, "PredictResponse")
			So(spec, ShouldContainSubstring, "base_value_defaulted")
			So(spec, ShouldContainSubstring, "/healthz")
		})
	})
}
