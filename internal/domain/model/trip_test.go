package model

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func validSubmission() *Submission {
	s := NewSubmission()
	s.AddFile(FieldFiles, Upload{Filename: "beach.jpg", ContentType: "image/jpeg", Size: 10})
	s.AddText(FieldDestination, "Tokyo, Japan")
	s.AddText(FieldStartDate, "2024-03-15")
	s.AddText(FieldEndDate, "2024-03-22")
	return s
}

func TestSubmission_TripRequest(t *testing.T) {
	Convey("Given a checklist submission", t, func() {
		Convey("When every required field is present", func() {
			req, err := validSubmission().TripRequest()

			Convey("Then values are carried verbatim", func() {
				So(err, ShouldBeNil)
				So(req.Destination, ShouldEqual, "Tokyo, Japan")
				So(req.StartDate, ShouldEqual, "2024-03-15")
				So(req.EndDate, ShouldEqual, "2024-03-22")
				So(req.Notes, ShouldBeNil)
				So(req.Files, ShouldHaveLength, 1)
				So(req.TotalBytes(), ShouldEqual, 10)
			})
		})

		Convey("When contents are odd but present", func() {
			s := NewSubmission()
			s.AddFile(FieldFiles, Upload{Filename: ""})
			s.AddFile(FieldFiles, Upload{Filename: "b.mov", Size: 5})
			s.AddText(FieldDestination, "")
			s.AddText(FieldStartDate, "banana")
			s.AddText(FieldEndDate, "1999-01-01")
			s.AddText(FieldNotes, "")

			req, err := s.TripRequest()

			Convey("Then nothing is rejected or normalized", func() {
				So(err, ShouldBeNil)
				So(req.Destination, ShouldEqual, "")
				So(req.StartDate, ShouldEqual, "banana")
				So(req.Files, ShouldHaveLength, 2)
				So(req.Files[0].Filename, ShouldEqual, "")
				So(req.Notes, ShouldNotBeNil)
				So(*req.Notes, ShouldEqual, "")
			})
		})

		Convey("When a text field repeats", func() {
			s := validSubmission()
			s.AddText(FieldDestination, "Osaka")

			req, err := s.TripRequest()
			So(err, ShouldBeNil)
			So(req.Destination, ShouldEqual, "Osaka")
		})

		for _, field := range []string{FieldFiles, FieldDestination, FieldStartDate, FieldEndDate} {
			Convey(fmt.Sprintf("When %s is omitted", field), func() {
				s := validSubmission()
				if field == FieldFiles {
					s.Files = nil
					delete(s.FileParts, FieldFiles)
				} else {
					delete(s.Text, field)
				}

				_, err := s.TripRequest()

				Convey("Then exactly that field is reported missing", func() {
					So(errors.Is(err, ErrMissingFields), ShouldBeTrue)
					So(Fields(err), ShouldResemble, []string{field})
				})
			})
		}

		Convey("When the submission is empty", func() {
			_, err := NewSubmission().TripRequest()

			Convey("Then every required field is listed in order", func() {
				So(err.Error(), ShouldEqual, "missing required fields: files, destination, start_date, end_date")
				So(Fields(err), ShouldResemble, []string{FieldFiles, FieldDestination, FieldStartDate, FieldEndDate})
			})
		})

		Convey("When files arrive as plain text", func() {
			s := validSubmission()
			s.Files = nil
			delete(s.FileParts, FieldFiles)
			s.AddText(FieldFiles, "beach.jpg")

			_, err := s.TripRequest()

			Convey("Then it is a field type error", func() {
				So(errors.Is(err, ErrFieldType), ShouldBeTrue)
				So(errors.Is(err, ErrMissingFields), ShouldBeFalse)
				So(Fields(err), ShouldResemble, []string{FieldFiles})
			})
		})

		Convey("When destination and notes arrive as files", func() {
			s := validSubmission()
			delete(s.Text, FieldDestination)
			s.AddFile(FieldDestination, Upload{Filename: "dest.txt"})
			s.AddFile(FieldNotes, Upload{Filename: "notes.txt"})

			_, err := s.TripRequest()

			Convey("Then both are reported with the wrong type", func() {
				So(errors.Is(err, ErrFieldType), ShouldBeTrue)
				So(Fields(err), ShouldResemble, []string{FieldDestination, FieldNotes})
				So(err.Error(), ShouldEqual, "wrong field type: destination, notes")
			})
		})

		Convey("When fields are both missing and mistyped", func() {
			s := validSubmission()
			delete(s.Text, FieldEndDate)
			delete(s.Text, FieldDestination)
			s.AddFile(FieldDestination, Upload{Filename: "dest.txt"})

			_, err := s.TripRequest()

			Convey("Then missing fields win", func() {
				So(errors.Is(err, ErrMissingFields), ShouldBeTrue)
				So(Fields(err), ShouldResemble, []string{FieldEndDate})
			})
		})

		Convey("When files are uploaded under another name", func() {
			s := validSubmission()
			s.AddFile("attachments", Upload{Filename: "x.png"})

			req, err := s.TripRequest()
			So(err, ShouldBeNil)
			So(req.Files, ShouldHaveLength, 1)
		})

		Convey("When Fields gets an unrelated error", func() {
			So(Fields(errors.New("boom")), ShouldBeNil)
		})
	})
}
