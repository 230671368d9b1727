package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"

	"github.com/okian/packlist/internal/adapters/http/api"
	service "github.com/okian/packlist/internal/app"
	"github.com/okian/packlist/internal/domain/checklist"
	"github.com/okian/packlist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWith(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
}

// newTestServer runs the real API stack.
func newTestServer(t *testing.T, opts ...api.Option) *httptest.Server {
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r := mux.NewRouter()
	api.NewServer(svc, svc, opts...).Register(context.Background(), r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func tokyo() Trip {
	return Trip{
		Files:       []File{FromBytes("shibuya.jpg", []byte("jpeg")), FromBytes("clip.mp4", bytes.Repeat([]byte("v"), 1<<16))},
		Destination: "Tokyo, Japan",
		StartDate:   "2024-03-15",
		EndDate:     "2024-03-22",
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a running packlist server", t, func() {
		srv := newTestServer(t)
		c := New(srv.URL+"/", WithTimeout(0))
		ctx := context.Background()

		Convey("When the Tokyo trip is uploaded", func() {
			resp, err := c.Generate(ctx, tokyo())

			Convey("Then the echoed fields and catalog come back in order", func() {
				So(err, ShouldBeNil)
				So(resp.Destination, ShouldEqual, "Tokyo, Japan")
				So(resp.StartDate, ShouldEqual, "2024-03-15")
				So(resp.EndDate, ShouldEqual, "2024-03-22")
				So(resp.Checklist.Names(), ShouldResemble, checklist.Default().Names())
				So(resp.Checklist.ItemCount(), ShouldEqual, 37)
			})
		})

		Convey("When a file is read from disk with notes", func() {
			path := filepath.Join(t.TempDir(), "Kyōto temple.png")
			So(os.WriteFile(path, []byte("png"), 0o600), ShouldBeNil)
			notes := "ryokan"
			trip := tokyo()
			trip.Files = []File{FromPath(path)}
			trip.Notes = &notes

			resp, err := c.Generate(ctx, trip)
			So(err, ShouldBeNil)
			So(resp.Checklist.Len(), ShouldEqual, 5)
		})

		Convey("When no files are given", func() {
			trip := tokyo()
			trip.Files = nil
			_, err := c.Generate(ctx, trip)

			So(errors.Is(err, ErrNoFiles), ShouldBeTrue)
		})

		Convey("When a file cannot be opened", func() {
			trip := tokyo()
			trip.Files = []File{FromPath(filepath.Join(t.TempDir(), "missing.jpg"))}
			_, err := c.Generate(ctx, trip)

			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a server with a tiny upload limit", t, func() {
		srv := newTestServer(t, api.WithMaxUploadBytes(512))
		c := New(srv.URL)

		Convey("When a large trip is uploaded", func() {
			_, err := c.Generate(context.Background(), tokyo())

			Convey("Then the API error is decoded", func() {
				var apiErr *APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Status, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(apiErr.Code, ShouldEqual, "payload_too_large")
			})
		})
	})

	Convey("Given a server answering with a field list", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"code":"bad_request","message":"missing required fields: destination","fields":["destination"]}`)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Generate(context.Background(), tokyo())

		var apiErr *APIError
		So(errors.As(err, &apiErr), ShouldBeTrue)
		So(apiErr.Fields, ShouldResemble, []string{"destination"})
		So(err.Error(), ShouldEqual, "server answered 400 bad_request: missing required fields: destination [destination]")
	})

	Convey("Given a server answering plain text", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Generate(context.Background(), tokyo())

		var apiErr *APIError
		So(errors.As(err, &apiErr), ShouldBeTrue)
		So(apiErr.Code, ShouldEqual, "unknown")
		So(apiErr.Message, ShouldEqual, "upstream down")
	})
}

func TestRepeat(t *testing.T) {
	Convey("Given a running packlist server", t, func() {
		srv := newTestServer(t)
		c := New(srv.URL)

		Convey("When the same trip is sent concurrently", func() {
			report, err := c.Repeat(context.Background(), tokyo(), RepeatConfig{Requests: 20, Workers: 4})

			Convey("Then every answer carries the same checklist", func() {
				So(err, ShouldBeNil)
				So(report.Succeeded, ShouldEqual, 20)
				So(report.Failed, ShouldEqual, 0)
				So(report.Mismatched, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a server whose checklist changes between answers", t, func() {
		var n atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			item := "Passport"
			if n.Add(1)%2 == 0 {
				item = "Visa"
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"destination":"x","start_date":"a","end_date":"b","checklist":{"Documents":["`+item+`"]}}`)
		}))
		defer srv.Close()

		report, err := New(srv.URL).Repeat(context.Background(), tokyo(), RepeatConfig{Requests: 4, Workers: 1})

		So(errors.Is(err, ErrMismatch), ShouldBeTrue)
		So(report.Mismatched, ShouldEqual, 2)
	})

	Convey("Given an unreachable server", t, func() {
		report, err := New("http://127.0.0.1:1").Repeat(context.Background(), tokyo(), RepeatConfig{})

		So(err, ShouldNotBeNil)
		So(report.Requests, ShouldEqual, 1)
		So(report.Failed, ShouldEqual, 1)
	})
}

func TestRender(t *testing.T) {
	Convey("Given a checklist response", t, func() {
		srv := newTestServer(t)
		resp, err := New(srv.URL).Generate(context.Background(), tokyo())
		So(err, ShouldBeNil)

		Convey("When nothing is packed", func() {
			var buf bytes.Buffer
			So(Render(&buf, resp, nil), ShouldBeNil)
			out := buf.String()

			Convey("Then the header, items and progress are shown", func() {
				So(out, ShouldContainSubstring, "Tokyo, Japan")
				So(out, ShouldContainSubstring, "2024-03-15 → 2024-03-22")
				So(out, ShouldContainSubstring, "☐ Passport")
				So(out, ShouldContainSubstring, "Toothbrush & toothpaste")
				So(out, ShouldContainSubstring, "0/37")
				So(strings.Index(out, "Documents"), ShouldBeLessThan, strings.Index(out, "Miscellaneous"))
			})
		})

		Convey("When some items are packed", func() {
			var buf bytes.Buffer
			packed := Packed{{Category: "Documents", Item: "Passport"}: true, {Category: "Electronics", Item: "Camera"}: true}
			So(Render(&buf, resp, packed), ShouldBeNil)

			So(buf.String(), ShouldContainSubstring, "☑")
			So(buf.String(), ShouldContainSubstring, "2/37")
		})
	})

	Convey("Given status helpers", t, func() {
		var buf bytes.Buffer
		OK(&buf, "saved")
		Fail(&buf, "nope")
		So(buf.String(), ShouldContainSubstring, "✔ saved")
		So(buf.String(), ShouldContainSubstring, "✖ nope")
	})

	Convey("Given a progress bar", t, func() {
		So(progressBar(0, 0, 4), ShouldEqual, "[░░░░] 0/1")
		So(progressBar(2, 4, 4), ShouldEqual, "[██░░] 2/4")
		So(progressBar(9, 4, 4), ShouldEqual, "[████] 9/4")
	})
}
