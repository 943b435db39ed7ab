package source

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrack(t *testing.T) {
	Convey("Track", t, func() {
		Convey("Uses reported title and uploader", func() {
			tr := &Track{ID: "42", Title: mo.Some("Night Drive"), Uploader: mo.Some("Kavinsky")}
			So(tr.TitleOrDefault(), ShouldEqual, "Night Drive")
			So(tr.ArtistOrDefault(), ShouldEqual, "Kavinsky")
			So(tr.CanonicalName(), ShouldEqual, "Kavinsky - Night Drive.mp3")
		})

		Convey("Falls back to the id for a missing title", func() {
			tr := &Track{ID: "42"}
			So(tr.TitleOrDefault(), ShouldEqual, "track_42")
			So(tr.ArtistOrDefault(), ShouldEqual, "Unknown Artist")
		})

		Convey("Falls back to unknown for a missing id", func() {
			tr := &Track{Title: mo.Some("")}
			So(tr.TitleOrDefault(), ShouldEqual, "track_unknown")
		})

		Convey("Sanitizes both halves of the canonical name", func() {
			So(CanonicalName(" AC/DC ", "Back: In Black?"), ShouldEqual, "ACDC - Back In Black.mp3")
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Options.WithCookies copies the bundle", t, func() {
		anon := Options{Format: "bestaudio", Ledger: "/out/downloaded.txt"}
		authed := anon.WithCookies("/app/cookies.txt")

		So(anon.CookieFile, ShouldBeEmpty)
		So(authed.CookieFile, ShouldEqual, "/app/cookies.txt")
		So(authed.Format, ShouldEqual, anon.Format)
		So(authed.Ledger, ShouldEqual, anon.Ledger)
	})
}
