package resolver

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tapedeck-cli/tapedeck/source"
)

type listCall struct {
	url        string
	cookieFile string
}

type fakeEngine struct {
	calls   []listCall
	listing *source.Listing
	// fail is returned for anonymous calls, failAuthed for calls carrying cookies
	fail       error
	failAuthed error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) List(_ context.Context, url string, cookieFile string) (*source.Listing, error) {
	f.calls = append(f.calls, listCall{url: url, cookieFile: cookieFile})
	if cookieFile == "" && f.fail != nil {
		return nil, f.fail
	}
	if cookieFile != "" && f.failAuthed != nil {
		return nil, f.failAuthed
	}
	return f.listing, nil
}

func (f *fakeEngine) Download(context.Context, string, source.Options) (*source.Track, string, error) {
	return nil, "", errors.New("not used")
}

const setURL = "https://soundcloud.com/user/sets/late-night"

func TestResolve(t *testing.T) {
	Convey("Given a collection with entries lacking a URL", t, func() {
		engine := &fakeEngine{listing: &source.Listing{
			Collection: true,
			Entries: []source.Entry{
				{WebpageURL: "https://soundcloud.com/user/one", Thumbnail: "https://i1.sndcdn.com/one.jpg"},
				{},
				{URL: "https://api.soundcloud.com/tracks/2"},
				{Thumbnail: "https://i1.sndcdn.com/orphan.jpg"},
				{WebpageURL: "https://soundcloud.com/user/three", URL: "https://api.soundcloud.com/tracks/3"},
			},
		}}

		Convey("When it is resolved", func() {
			items, err := Resolve(context.Background(), engine, setURL, false, "")

			Convey("Then only resolvable entries are kept, in order", func() {
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 3)
				So(items[0].URL, ShouldEqual, "https://soundcloud.com/user/one")
				So(items[0].Thumbnail.MustGet(), ShouldEqual, "https://i1.sndcdn.com/one.jpg")
				So(items[1].URL, ShouldEqual, "https://api.soundcloud.com/tracks/2")
				So(items[1].Thumbnail.IsPresent(), ShouldBeFalse)
				So(items[2].URL, ShouldEqual, "https://soundcloud.com/user/three")
			})

			Convey("Then the engine was called once, anonymously", func() {
				So(engine.calls, ShouldResemble, []listCall{{url: setURL}})
			})
		})
	})

	Convey("Given a single item", t, func() {
		engine := &fakeEngine{listing: &source.Listing{
			WebpageURL: "https://soundcloud.com/k/night-drive",
			Thumbnail:  "https://i1.sndcdn.com/t.jpg",
		}}

		Convey("Then exactly one item is returned", func() {
			items, err := Resolve(context.Background(), engine, "https://on.soundcloud.com/xyz", false, "")
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 1)
			So(items[0].URL, ShouldEqual, "https://soundcloud.com/k/night-drive")
			So(items[0].Thumbnail.MustGet(), ShouldEqual, "https://i1.sndcdn.com/t.jpg")
		})

		Convey("Then the input URL is used when no page URL is reported", func() {
			engine.listing.WebpageURL = ""
			items, err := Resolve(context.Background(), engine, "https://on.soundcloud.com/xyz", false, "")
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 1)
			So(items[0].URL, ShouldEqual, "https://on.soundcloud.com/xyz")
		})
	})

	Convey("Given an empty collection", t, func() {
		engine := &fakeEngine{listing: &source.Listing{Collection: true}}

		Convey("Then no items are returned and no error", func() {
			items, err := Resolve(context.Background(), engine, setURL, false, "")
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})
	})

	Convey("Given a listing that fails with an authentication error", t, func() {
		engine := &fakeEngine{
			fail:    errors.New("ERROR: [soundcloud] HTTP Error 403: Forbidden"),
			listing: &source.Listing{Collection: true, Entries: []source.Entry{{WebpageURL: "https://soundcloud.com/user/one"}}},
		}

		Convey("When authentication is enabled with a cookie file", func() {
			items, err := Resolve(context.Background(), engine, setURL, true, "/app/cookies.txt")

			Convey("Then it is retried once with the cookie file", func() {
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 1)
				So(engine.calls, ShouldResemble, []listCall{{url: setURL}, {url: setURL, cookieFile: "/app/cookies.txt"}})
			})
		})

		Convey("When the credentialed retry fails too", func() {
			engine.failAuthed = errors.New("ERROR: private playlist")
			_, err := Resolve(context.Background(), engine, setURL, true, "/app/cookies.txt")

			Convey("Then a resolution error carrying the last failure is returned", func() {
				var resErr *ResolutionError
				So(errors.As(err, &resErr), ShouldBeTrue)
				So(resErr.URL, ShouldEqual, setURL)
				So(resErr.Err, ShouldEqual, engine.failAuthed)
				So(engine.calls, ShouldHaveLength, 2)
			})
		})

		Convey("When authentication is disabled", func() {
			_, err := Resolve(context.Background(), engine, setURL, false, "/app/cookies.txt")

			Convey("Then it is not retried", func() {
				So(err, ShouldNotBeNil)
				So(engine.calls, ShouldHaveLength, 1)
			})
		})

		Convey("When no cookie file is available", func() {
			_, err := Resolve(context.Background(), engine, setURL, true, "")

			Convey("Then it is not retried", func() {
				So(err, ShouldNotBeNil)
				So(engine.calls, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a listing that fails for another reason", t, func() {
		engine := &fakeEngine{fail: errors.New("ERROR: Unsupported URL")}

		Convey("Then it is not retried even with authentication", func() {
			_, err := Resolve(context.Background(), engine, "https://example.com", true, "/app/cookies.txt")
			So(err, ShouldNotBeNil)
			So(engine.calls, ShouldHaveLength, 1)
		})
	})
}
