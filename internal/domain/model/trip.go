// Package model contains domain models passed between layers.
package model

import (
	"github.com/okian/packlist/internal/domain/checklist"
)

// Form field names of a checklist request.
const (
	FieldFiles       = "files"
	FieldDestination = "destination"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldNotes       = "notes"
)

// requiredText lists the required text fields in reporting order.
var requiredText = []string{FieldDestination, FieldStartDate, FieldEndDate}

// Upload describes one received file part. Content is drained, never kept.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
}

// TripRequest is a validated checklist request.
type TripRequest struct {
	Files       []Upload
	Destination string
	StartDate   string
	EndDate     string
	Notes       *string // nil when the field was not sent
}

// TotalBytes returns the summed size of all uploads.
func (r TripRequest) TotalBytes() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Size
	}
	return n
}

// ChecklistResponse is the JSON body of a successful checklist request.
type ChecklistResponse struct {
	Destination string               `json:"destination"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Checklist   *checklist.Checklist `json:"checklist"`
}

// Submission is the raw content of a multipart checklist form, before
// required-field checks. Only the last text value of a repeated field is kept.
type Submission struct {
	Files     []Upload          // file parts named "files", in arrival order
	Text      map[string]string // text parts by field name
	FileParts map[string]int    // number of file parts per field name
}

// NewSubmission returns an empty Submission ready to be filled.
func NewSubmission() *Submission {
	return &Submission{
		Text:      make(map[string]string),
		FileParts: make(map[string]int),
	}
}

// AddText records a text part. A later value for the same name wins.
func (s *Submission) AddText(name, value string) {
	s.Text[name] = value
}

// AddFile records a file part.
func (s *Submission) AddFile(name string, u Upload) {
	s.FileParts[name]++
	if name == FieldFiles {
		s.Files = append(s.Files, u)
	}
}

// TripRequest checks required fields and part types. Missing fields are
// reported before wrong part types.
//
// Field contents are not inspected: empty strings, non-date strings and
// zero-byte files are all accepted.
func (s *Submission) TripRequest() (TripRequest, error) {
	var missing, wrongType []string

	if len(s.Files) == 0 {
		if _, asText := s.Text[FieldFiles]; asText {
			wrongType = append(wrongType, FieldFiles)
		} else {
			missing = append(missing, FieldFiles)
		}
	}
	for _, name := range requiredText {
		if _, ok := s.Text[name]; ok {
			continue
		}
		if s.FileParts[name] > 0 {
			wrongType = append(wrongType, name)
		} else {
			missing = append(missing, name)
		}
	}
	if _, ok := s.Text[FieldNotes]; !ok && s.FileParts[FieldNotes] > 0 {
		wrongType = append(wrongType, FieldNotes)
	}

	if len(missing) > 0 {
		return TripRequest{}, &MissingFieldsError{Fields: missing}
	}
	if len(wrongType) > 0 {
		return TripRequest{}, &FieldTypeError{Fields: wrongType}
	}

	req := TripRequest{
		Files:       append([]Upload(nil), s.Files...),
		Destination: s.Text[FieldDestination],
		StartDate:   s.Text[FieldStartDate],
		EndDate:     s.Text[FieldEndDate],
	}
	if notes, ok := s.Text[FieldNotes]; ok {
		req.Notes = &notes
	}
	return req, nil
}
