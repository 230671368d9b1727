package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/packlist/internal/adapters/http/api"
	app "github.com/okian/packlist/internal/app"
	"github.com/okian/packlist/pkg/logger"
)

func TestParseFlags(t *testing.T) {
	convey.Convey("Given command-line arguments", t, func() {
		convey.Convey("When every required value is given", func() {
			o, err := parseFlags([]string{
				"-destination", "Tokyo, Japan", "-start", "2024-03-15", "-end", "2024-03-22",
				"-notes", "", "-o", "out.txt", "a.jpg", "b.mp4",
			}, io.Discard)

			convey.Convey("Then they are parsed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(o.destination, convey.ShouldEqual, "Tokyo, Japan")
				convey.So(o.files, convey.ShouldResemble, []string{"a.jpg", "b.mp4"})
				convey.So(o.notes, convey.ShouldNotBeNil)
				convey.So(*o.notes, convey.ShouldEqual, "")
				convey.So(o.output, convey.ShouldEqual, "out.txt")
			})
		})

		convey.Convey("When notes are not given", func() {
			o, err := parseFlags([]string{"-destination", "x", "-start", "s", "-end", "e", "a.jpg"}, io.Discard)
			convey.So(err, convey.ShouldBeNil)
			convey.So(o.notes, convey.ShouldBeNil)
		})

		convey.Convey("When values are missing", func() {
			_, err := parseFlags([]string{"-start", "s"}, io.Discard)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldEqual, "missing -destination, -end, FILE")
		})

		convey.Convey("When help is requested", func() {
			_, err := parseFlags([]string{"-h"}, io.Discard)
			convey.So(errors.Is(err, flag.ErrHelp), convey.ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server and a photo on disk", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatal(err)
		}
		svc := app.New()
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()
		r := mux.NewRouter()
		api.NewServer(svc, svc).Register(context.Background(), r)
		srv := httptest.NewServer(r)
		defer srv.Close()

		dir := t.TempDir()
		photo := filepath.Join(dir, "shibuya.jpg")
		convey.So(os.WriteFile(photo, []byte("jpeg"), 0o600), convey.ShouldBeNil)
		out := filepath.Join(dir, "checklist.txt")

		base := options{
			baseURL:     srv.URL,
			destination: "Tokyo, Japan",
			startDate:   "2024-03-15",
			endDate:     "2024-03-22",
			files:       []string{photo},
			workers:     2,
		}

		convey.Convey("When exporting to a text file", func() {
			o := base
			o.output = out
			var stdout bytes.Buffer

			convey.So(run(context.Background(), o, &stdout), convey.ShouldBeNil)

			convey.Convey("Then the checklist is printed and saved", func() {
				convey.So(stdout.String(), convey.ShouldContainSubstring, "☐ Passport")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "saved "+out)

				data, err := os.ReadFile(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldStartWith,
					"TRAVEL CHECKLIST\n================\n\nDestination: Tokyo, Japan\nTravel Dates: 2024-03-15 - 2024-03-22\n\n")
				convey.So(strings.Count(string(data), "☐ "), convey.ShouldEqual, 37)
			})
		})

		convey.Convey("When repeating the request", func() {
			o := base
			o.repeat = 5
			var stdout bytes.Buffer

			convey.So(run(context.Background(), o, &stdout), convey.ShouldBeNil)
			convey.So(stdout.String(), convey.ShouldContainSubstring, "5/5 identical answers")
		})

		convey.Convey("When the file does not exist", func() {
			o := base
			o.files = []string{filepath.Join(dir, "missing.jpg")}

			convey.So(run(context.Background(), o, io.Discard), convey.ShouldNotBeNil)
		})
	})
}
