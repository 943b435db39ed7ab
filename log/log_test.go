package log

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/key"
)

func TestSetup(t *testing.T) {
	Convey("Log Setup", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv("TAPEDECK_CONFIG_PATH", "/config")
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			enabled = false
			filesystem.SetOsFs()
		})

		Convey("Disabled logging is a no-op", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			So(enabled, ShouldBeFalse)
			So(func() { WithFields(Fields{"url": "x"}).Info("dropped") }, ShouldNotPanic)
		})

		Convey("Enabled logging creates a dated file", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			So(Setup(), ShouldBeNil)
			So(enabled, ShouldBeTrue)

			Infof("hello %s", "log")
			files, err := filesystem.API().ReadDir("/config/logs")
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)
		})
	})
}
