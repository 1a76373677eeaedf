package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"anigo/internal/httputil"
	"anigo/internal/media"
	"anigo/internal/provider"
)

const (
	testIframeRef = "//cvh.example/iframe/777"
	testIframeURL = "https://cvh.example/iframe/777"
)

func TestCVHPlaylist(t *testing.T) {
	iframe := readFixture(t, "cvh_iframe.html")
	playlist := readFixture(t, "playlist.json")

	Convey("Given a CVH iframe", t, func() {
		site := newFakeSite()
		site.handle(testIframeURL, iframe)
		site.handle(PlaylistURL, playlist)
		cvh := NewCVH(testReferer, site)
		ctx := context.Background()

		Convey("Playlist should query the fixed endpoint with the marker attributes", func() {
			_, err := cvh.Playlist(ctx, media.RawRef(testIframeRef))
			So(err, ShouldBeNil)
			So(site.calls(), ShouldEqual, 2)

			iframeReq := site.request(0)
			So(iframeReq.URL, ShouldEqual, testIframeURL)
			So(iframeReq.Header.Get("Referer"), ShouldEqual, testReferer)

			playlistReq := site.request(1)
			So(playlistReq.URL, ShouldEqual, PlaylistURL)
			So(playlistReq.Query, ShouldResemble, url.Values{
				"pub":  {"5"},
				"aggr": {"x"},
				"id":   {"99"},
			})
		})

		Convey("Playlist should decode every item in order", func() {
			c, err := cvh.Playlist(ctx, media.PlayerPart{Service: "CVH", StreamRef: testIframeRef, DubID: 46})
			So(err, ShouldBeNil)
			So(c.Title, ShouldEqual, "Ванпанчмен")
			So(c.IsSerial, ShouldBeTrue)
			So(len(c.Items), ShouldEqual, 3)
			So(c.Items[0], ShouldResemble, media.AlternateCatalogItem{
				CvhID:       "77a1",
				Name:        "",
				VkID:        "-218724373_456239017",
				VoiceStudio: "AniLibria",
				VoiceType:   "dub",
				Season:      1,
				Episode:     1,
			})
			So(c.Items[1].Name, ShouldEqual, "Второй удар")
			So(c.Items[2].VoiceType, ShouldEqual, "sub")
		})

		Convey("A missing marker should be reported as not found", func() {
			site.handle(testIframeURL, []byte(`<html><body><iframe></iframe></body></html>`))

			_, err := cvh.Playlist(ctx, media.RawRef(testIframeRef))
			var nf *provider.NotFoundError
			So(errors.As(err, &nf), ShouldBeTrue)
			So(nf.Element, ShouldEqual, "video-player")
			So(site.calls(), ShouldEqual, 1)
		})

		Convey("A missing marker attribute should name the attribute", func() {
			site.handle(testIframeURL, []byte(`<video-player data-publisher-id="5" data-title-id="99"></video-player>`))

			_, err := cvh.Playlist(ctx, media.RawRef(testIframeRef))
			var di *provider.DataIncorrectError
			So(errors.As(err, &di), ShouldBeTrue)
			So(di.Detail, ShouldEqual, "missing key: data-aggregator")
			So(site.calls(), ShouldEqual, 1)
		})

		Convey("An item without vkId should fail the whole playlist", func() {
			site.handle(PlaylistURL, readFixture(t, "playlist_missing_vkid.json"))

			c, err := cvh.Playlist(ctx, media.RawRef(testIframeRef))
			var di *provider.DataIncorrectError
			So(errors.As(err, &di), ShouldBeTrue)
			So(di.Detail, ShouldEqual, "missing key: vkId")
			So(c, ShouldResemble, media.AlternateCatalog{})
		})

		Convey("A non-JSON playlist should be a parse error", func() {
			site.handle(PlaylistURL, []byte(`<html>503</html>`))

			_, err := cvh.Playlist(ctx, media.RawRef(testIframeRef))
			var di *provider.DataIncorrectError
			So(errors.As(err, &di), ShouldBeTrue)
			So(di.Detail, ShouldEqual, "json parse error")
		})

		Convey("An unsupported reference should fail before any fetch", func() {
			_, err := cvh.Playlist(ctx, media.RawRef("cvh.example/iframe/777"))
			So(errors.Is(err, httputil.ErrUnsupportedReference), ShouldBeTrue)
			So(site.calls(), ShouldEqual, 0)
		})
	})
}

func TestDecodePlaylist(t *testing.T) {
	Convey("DecodePlaylist", t, func() {
		Convey("Should accept numeric ids and null names", func() {
			c, err := DecodePlaylist([]byte(`{"titleName":"T","isSerial":false,"items":[{"cvhId":12,"name":null,"vkId":345,"voiceStudio":"S","voiceType":"sub","season":"2","episode":3}]}`))
			So(err, ShouldBeNil)
			So(c.IsSerial, ShouldBeFalse)
			So(c.Items[0].CvhID, ShouldEqual, "12")
			So(c.Items[0].VkID, ShouldEqual, "345")
			So(c.Items[0].Season, ShouldEqual, 2)
		})

		Convey("Should name missing top-level keys", func() {
			for key, body := range map[string]string{
				"titleName": `{"isSerial":true,"items":[]}`,
				"isSerial":  `{"titleName":"T","items":[]}`,
				"items":     `{"titleName":"T","isSerial":true}`,
			} {
				_, err := DecodePlaylist([]byte(body))
				var di *provider.DataIncorrectError
				So(errors.As(err, &di), ShouldBeTrue)
				So(di.Detail, ShouldEqual, "missing key: "+key)
			}
		})

		Convey("Should accept an empty item list", func() {
			c, err := DecodePlaylist([]byte(`{"titleName":"T","isSerial":true,"items":[]}`))
			So(err, ShouldBeNil)
			So(len(c.Items), ShouldEqual, 0)
		})

		Convey("Should reject wrongly typed values", func() {
			for _, items := range []string{`"none"`, `null`} {
				_, err := DecodePlaylist([]byte(`{"titleName":"T","isSerial":true,"items":` + items + `}`))
				var di *provider.DataIncorrectError
				So(errors.As(err, &di), ShouldBeTrue)
				So(di.Detail, ShouldEqual, "json parse error")
			}
		})
	})
}

func TestCVHVideo(t *testing.T) {
	const vkID = "-218724373_456239017"
	record := []byte(`{"vkId":"-218724373_456239017","sources":{"hlsUrl":"https://vk.example/video.m3u8"}}`)

	Convey("Given a CVH video endpoint", t, func() {
		site := newFakeSite()
		site.handle(VideoURL+vkID, record)
		cvh := NewCVH(testReferer, site)
		ctx := context.Background()

		Convey("Video should accept a raw id", func() {
			raw, err := cvh.Video(ctx, media.RawVideoID(vkID))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, string(record))
			So(site.request(0).URL, ShouldEqual, VideoURL+vkID)
		})

		Convey("Video should accept a playlist item", func() {
			raw, err := cvh.Video(ctx, media.AlternateCatalogItem{CvhID: "77a1", VkID: vkID})
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded["vkId"], ShouldEqual, vkID)
		})

		Convey("Video should reject ids that could escape the endpoint path", func() {
			_, err := cvh.Video(ctx, media.RawVideoID("../playlist"))
			So(err, ShouldNotBeNil)
			_, err = cvh.Video(ctx, nil)
			So(errors.Is(err, httputil.ErrUnsupportedReference), ShouldBeTrue)
			So(site.calls(), ShouldEqual, 0)
		})

		Convey("A non-JSON record should be a parse error", func() {
			site.handle(VideoURL+vkID, []byte(`not found`))

			_, err := cvh.Video(ctx, media.RawVideoID(vkID))
			var di *provider.DataIncorrectError
			So(errors.As(err, &di), ShouldBeTrue)
			So(di.Detail, ShouldEqual, "json parse error")
		})
	})
}

// redirectTransport sends every request to a single test server, keeping
// path and query.
type redirectTransport struct {
	host string
	next http.RoundTripper
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = "https"
	req.URL.Host = rt.host
	return rt.next.RoundTrip(req)
}

func TestCVHEndToEnd(t *testing.T) {
	iframe := readFixture(t, "cvh_iframe.html")
	playlist := readFixture(t, "playlist.json")

	var gotQuery url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/iframe/777", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(iframe)
	})
	mux.HandleFunc("/api/v1/player/sv/playlist", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(playlist)
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	httpClient := srv.Client()
	httpClient.Transport = redirectTransport{host: srv.Listener.Addr().String(), next: httpClient.Transport}
	client := httputil.New(httputil.WithHTTPClient(httpClient))

	Convey("Playlist over a real HTTP client", t, func() {
		c, err := NewCVH(testReferer, client).Playlist(context.Background(), media.RawRef(testIframeRef))
		So(err, ShouldBeNil)
		So(len(c.Items), ShouldEqual, 3)
		So(gotQuery.Get("pub"), ShouldEqual, "5")
		So(gotQuery.Get("aggr"), ShouldEqual, "x")
		So(gotQuery.Get("id"), ShouldEqual, "99")
	})
}
