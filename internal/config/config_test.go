package config_test

import (
	"testing"

	"github.com/finml/creditserve/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "outputs/credit_default.json")
			convey.So(cfg.ExplainEnabled, convey.ShouldBeTrue)
		})
	})
}
