package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/packlist/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.IndexPath, convey.ShouldEqual, "web/index.html")
			convey.So(cfg.StaticDir, convey.ShouldEqual, "web/static")
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 256<<20)
			convey.So(cfg.MaxFieldBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
