package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/filesystem"
	"github.com/tapedeck-cli/tapedeck/source"
)

const (
	trackURL = "https://soundcloud.com/kavinsky/nightcall"
	// engine output name before the rename
	nightcallTemp = "Nightcall [1052].mp3"
)

func exists(name string) bool {
	ok, _ := filesystem.API().Exists(filepath.Join(musicDir, name))
	return ok
}

func TestProcess(t *testing.T) {
	Convey("Given a processor over an in-memory output folder", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().MkdirAll(musicDir, 0755), ShouldBeNil)

		engine := newFakeEngine(map[string]fakeTrack{
			trackURL: {id: "1052", title: "Nightcall", uploader: "Kavinsky", thumb: "https://i1.sndcdn.com/nightcall.jpg"},
		})
		tags := newFakeTagger()
		art := &fakeArtwork{}
		p := &Processor{
			Engine:  engine,
			Prober:  fakeProber{kbps: 320},
			Tagger:  tags,
			Artwork: art,
			Options: testOptions(false),
		}
		item := source.Item{URL: trackURL}

		Convey("When the item downloads at the minimum bitrate", func() {
			r := p.Process(context.Background(), item)

			Convey("Then it is tagged, covered and renamed", func() {
				So(r.Err, ShouldBeNil)
				So(r.Outcome, ShouldEqual, Success)
				So(r.Attempts, ShouldEqual, 1)
				So(r.Path, ShouldEqual, filepath.Join(musicDir, "Kavinsky - Nightcall.mp3"))
				So(exists("Kavinsky - Nightcall.mp3"), ShouldBeTrue)
				So(exists(nightcallTemp), ShouldBeFalse)

				So(tags.tags[nightcallTemp].Title, ShouldEqual, "Nightcall")
				So(tags.tags[nightcallTemp].Artist, ShouldEqual, "Kavinsky")
				So(tags.tags[nightcallTemp].Album, ShouldEqual, "SoundCloud Playlist")
				So(tags.covers[nightcallTemp], ShouldNotBeEmpty)
				So(art.urls, ShouldResemble, []string{"https://i1.sndcdn.com/nightcall.jpg"})
			})
		})

		Convey("When the item is one kbps under the minimum", func() {
			p.Prober = fakeProber{kbps: 319}
			r := p.Process(context.Background(), item)

			Convey("Then the file is deleted and the item skipped", func() {
				So(r.Outcome, ShouldEqual, SkippedLowBitrate)
				So(errors.Is(r.Err, ErrLowBitrate), ShouldBeTrue)
				So(r.Bitrate, ShouldEqual, 319)
				So(exists(nightcallTemp), ShouldBeFalse)
				So(exists("Kavinsky - Nightcall.mp3"), ShouldBeFalse)
				So(tags.tags, ShouldBeEmpty)
			})
		})

		Convey("When the bitrate cannot be measured", func() {
			p.Prober = fakeProber{kbps: 0}
			r := p.Process(context.Background(), item)

			Convey("Then it is treated as below the floor", func() {
				So(r.Outcome, ShouldEqual, SkippedLowBitrate)
				So(exists(nightcallTemp), ShouldBeFalse)
			})
		})

		Convey("When the engine reports success but writes nothing", func() {
			engine.ledger[trackURL] = true
			r := p.Process(context.Background(), item)

			Convey("Then the item fails with no output", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(errors.Is(r.Err, ErrNoOutput), ShouldBeTrue)
			})
		})

		Convey("When the item was renamed by an earlier run", func() {
			So(p.Process(context.Background(), item).Outcome, ShouldEqual, Success)
			r := p.Process(context.Background(), item)

			Convey("Then it is skipped as existing and no duplicate appears", func() {
				So(r.Outcome, ShouldEqual, SkippedExisting)
				So(r.Err, ShouldBeNil)
				So(r.Path, ShouldEqual, filepath.Join(musicDir, "Kavinsky - Nightcall.mp3"))
				So(exists("Kavinsky - Nightcall (1).mp3"), ShouldBeFalse)
			})
		})

		Convey("When the canonical name is already taken by other files", func() {
			So(filesystem.API().WriteFile(filepath.Join(musicDir, "Kavinsky - Nightcall.mp3"), []byte("x"), 0644), ShouldBeNil)
			So(filesystem.API().WriteFile(filepath.Join(musicDir, "Kavinsky - Nightcall (1).mp3"), []byte("x"), 0644), ShouldBeNil)
			engine.ledger = map[string]bool{}
			r := p.Process(context.Background(), item)

			Convey("Then the smallest free suffix is used", func() {
				So(r.Outcome, ShouldEqual, Success)
				So(r.Path, ShouldEqual, filepath.Join(musicDir, "Kavinsky - Nightcall (2).mp3"))
			})
		})

		Convey("When the engine reports no title or uploader", func() {
			engine.tracks[trackURL] = fakeTrack{id: "1234"}
			r := p.Process(context.Background(), item)

			Convey("Then the fallback names are used", func() {
				So(r.Outcome, ShouldEqual, Success)
				So(r.Path, ShouldEqual, filepath.Join(musicDir, "Unknown Artist - track_1234.mp3"))
			})
		})

		Convey("When the artwork fetch fails", func() {
			art.fail = errors.New("context deadline exceeded")
			r := p.Process(context.Background(), item)

			Convey("Then the item still succeeds without a cover", func() {
				So(r.Outcome, ShouldEqual, Success)
				So(r.Err, ShouldBeNil)
				So(tags.covers, ShouldBeEmpty)
			})
		})

		Convey("When only the resolved item knows a thumbnail", func() {
			engine.tracks[trackURL] = fakeTrack{title: "Nightcall", uploader: "Kavinsky"}
			item.Thumbnail = mo.Some("https://i1.sndcdn.com/from-listing.jpg")
			p.Process(context.Background(), item)

			Convey("Then that thumbnail is fetched", func() {
				So(art.urls, ShouldResemble, []string{"https://i1.sndcdn.com/from-listing.jpg"})
			})
		})

		Convey("When artwork is disabled", func() {
			p.Options.Artwork = false
			p.Process(context.Background(), item)

			Convey("Then nothing is fetched", func() {
				So(art.urls, ShouldBeEmpty)
			})
		})

		Convey("When tagging fails", func() {
			tags.fail = errors.New("disk full")
			r := p.Process(context.Background(), item)

			Convey("Then the item fails", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(r.Err, ShouldEqual, tags.fail)
			})
		})
	})
}

func TestProcessAuthFallback(t *testing.T) {
	Convey("Given an item whose anonymous download is forbidden", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().MkdirAll(musicDir, 0755), ShouldBeNil)

		engine := newFakeEngine(map[string]fakeTrack{
			trackURL: {id: "1052", title: "Nightcall", uploader: "Kavinsky", fail: errors.New("ERROR: [soundcloud] nightcall: HTTP Error 403: Forbidden")},
		})
		p := &Processor{
			Engine:  engine,
			Prober:  fakeProber{kbps: 320},
			Tagger:  newFakeTagger(),
			Artwork: &fakeArtwork{},
			Options: testOptions(true),
		}
		item := source.Item{URL: trackURL}

		Convey("When a credentialed bundle exists", func() {
			r := p.Process(context.Background(), item)

			Convey("Then exactly one retry with cookies is made and it succeeds", func() {
				So(r.Outcome, ShouldEqual, Success)
				So(r.Attempts, ShouldEqual, 2)
				So(engine.callsFor(trackURL), ShouldResemble, []downloadCall{
					{url: trackURL},
					{url: trackURL, cookieFile: "/app/soundcloud_cookies.txt"},
				})
			})
		})

		Convey("When the credentialed retry is forbidden too", func() {
			ft := engine.tracks[trackURL]
			ft.failAuthed = errors.New("ERROR: HTTP Error 403: Forbidden")
			engine.tracks[trackURL] = ft
			r := p.Process(context.Background(), item)

			Convey("Then the item fails after exactly two attempts", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(r.Attempts, ShouldEqual, 2)
				So(engine.callsFor(trackURL), ShouldHaveLength, 2)

				var downloadErr *DownloadError
				So(errors.As(r.Err, &downloadErr), ShouldBeTrue)
				So(downloadErr.URL, ShouldEqual, trackURL)
			})
		})

		Convey("When authentication is disabled", func() {
			p.Options = testOptions(false)
			r := p.Process(context.Background(), item)

			Convey("Then no retry is made", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(r.Attempts, ShouldEqual, 1)
				So(engine.callsFor(trackURL), ShouldHaveLength, 1)
			})
		})

		Convey("When the failure is not authentication related", func() {
			engine.tracks[trackURL] = fakeTrack{title: "Nightcall", fail: errors.New("ERROR: Unable to extract stream")}
			r := p.Process(context.Background(), item)

			Convey("Then no retry is made", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(engine.callsFor(trackURL), ShouldHaveLength, 1)
			})
		})
	})
}

func TestProcessExistenceCheckError(t *testing.T) {
	Convey("Given an output folder path that is a regular file", t, func() {
		filesystem.SetOsFs()
		tmp := t.TempDir()
		notDir := filepath.Join(tmp, "music")
		So(os.WriteFile(notDir, nil, 0644), ShouldBeNil)

		engine := newFakeEngine(map[string]fakeTrack{
			trackURL: {id: "1052", title: "Nightcall", uploader: "Kavinsky"},
		})
		engine.ledger[trackURL] = true

		options := *testOptions(false)
		options.Dir = notDir
		options.Anonymous.OutputTemplate = filepath.Join(tmp, constant.OutputTemplate)
		p := &Processor{
			Engine:  engine,
			Prober:  fakeProber{kbps: 320},
			Tagger:  newFakeTagger(),
			Artwork: &fakeArtwork{},
			Options: &options,
		}

		Convey("When the canonical file cannot be stat'ed", func() {
			r := p.Process(context.Background(), source.Item{URL: trackURL})

			Convey("Then the stat error is reported instead of missing output", func() {
				So(r.Outcome, ShouldEqual, Failed)
				So(r.Err, ShouldNotBeNil)
				So(errors.Is(r.Err, ErrNoOutput), ShouldBeFalse)
			})
		})
	})
}
