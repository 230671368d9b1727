// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/okian/packlist/internal/domain/model"
	"github.com/okian/packlist/pkg/logger"
)

// ChecklistHandler handles checklist generation requests.
type ChecklistHandler struct {
	deps           Dependencies
	maxUploadBytes int64
	maxFieldBytes  int64
	logger         logger.Logger
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(deps Dependencies, maxUploadBytes, maxFieldBytes int64, l logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
		maxFieldBytes:  maxFieldBytes,
		logger:         l,
	}
}

// HandleGenerate handles POST /api/generate-checklist requests.
func (h *ChecklistHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_checklist"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	sub, err := h.readSubmission(r)
	if err != nil {
		err = classifyRead(op, err)
		h.logger.Debug(r.Context(), "checklist form rejected", logger.Error(err))
		writeError(w, err)
		return
	}

	resp, err := h.deps.GenerateChecklist(r.Context(), sub)
	if err != nil {
		if !errors.Is(err, model.ErrMissingFields) && !errors.Is(err, model.ErrFieldType) {
			err = Wrap(op, err)
			h.logger.Error(r.Context(), "checklist generation failed", logger.Error(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readSubmission streams the multipart body part by part. File contents are
// drained to io.Discard; only name, content type and size are kept.
func (h *ChecklistHandler) readSubmission(r *http.Request) (*model.Submission, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	sub := model.NewSubmission()
	for {
		part, err := mr.NextPart()
		if err == io.EOF { //nolint:errorlint // multipart reports a clean end with a bare io.EOF
			return sub, nil
		}
		if err != nil {
			return nil, err
		}
		if err := h.readPart(sub, part); err != nil {
			_ = part.Close()
			return nil, err
		}
		_ = part.Close()
	}
}

func (h *ChecklistHandler) readPart(sub *model.Submission, part *multipart.Part) error {
	name := part.FormName()
	if name == "" {
		_, err := io.Copy(io.Discard, part)
		return err
	}

	if isFilePart(part) {
		n, err := io.Copy(io.Discard, part)
		if err != nil {
			return err
		}
		sub.AddFile(name, model.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        n,
		})
		return nil
	}

	value, err := io.ReadAll(io.LimitReader(part, h.maxFieldBytes+1))
	if err != nil {
		return err
	}
	if int64(len(value)) > h.maxFieldBytes {
		return fmt.Errorf("%w: field %q exceeds %d bytes", errFieldTooLarge, name, h.maxFieldBytes)
	}
	sub.AddText(name, string(value))
	return nil
}

var errFieldTooLarge = errors.New("form field too large")

// isFilePart reports whether the part's Content-Disposition carries a
// filename parameter. An empty filename still marks a file part.
func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

// classifyRead maps body read failures to API kinds.
func classifyRead(op string, err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, errFieldTooLarge):
		return WrapKind(op, ErrTooLarge, err)
	default:
		return WrapKind(op, ErrBadRequest, err)
	}
}
