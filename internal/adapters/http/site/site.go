// Package site serves the front page and static assets from disk.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/okian/packlist/internal/adapters/http/respond"
	"github.com/okian/packlist/pkg/logger"
	"github.com/okian/packlist/pkg/metrics"
)

// Error constants
var (
	ErrNotFound    = errors.New("file not found")
	ErrUnsafePath  = errors.New("unsafe static path")
	ErrIsDirectory = errors.New("path is a directory")
)

// StaticPrefix is the URL prefix of the static asset subtree.
const StaticPrefix = "/static/"

// Metric kinds and results.
const (
	kindPage     = "page"
	kindAsset    = "asset"
	resultHit    = "hit"
	resultMiss   = "miss"
	resultDenied = "denied"
)

// Middleware decorates a handler with an endpoint label, e.g. for metrics.
type Middleware func(next http.HandlerFunc, endpoint string) http.HandlerFunc

// Handler serves the page file and the static directory. Nothing is cached:
// files are opened on every request.
type Handler struct {
	indexPath string
	staticDir string
	logger    logger.Logger
}

// New creates a Handler for the given page file and static directory.
func New(indexPath, staticDir string, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Get()
	}
	return &Handler{indexPath: indexPath, staticDir: staticDir, logger: l}
}

// Register attaches GET / and GET /static/ to r. The router must be built
// with SkipClean(true) so traversal attempts reach the static guard instead
// of being redirected.
func Register(_ context.Context, r *mux.Router, h *Handler, mw Middleware) {
	if r == nil {
		panic("router is nil")
	}
	if mw == nil {
		mw = func(next http.HandlerFunc, _ string) http.HandlerFunc { return next }
	}

	r.HandleFunc("/", mw(h.HandlePage, "root")).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix(StaticPrefix).
		Handler(mw(h.HandleStatic, "static")).
		Methods(http.MethodGet, http.MethodHead)
}

// HandlePage handles GET / by returning the page file's bytes.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.indexPath)
	if err != nil {
		h.miss(w, r, kindPage, err)
		return
	}
	defer f.Close()

	h.serve(w, r, kindPage, filepath.Base(h.indexPath), f)
}

// HandleStatic handles GET /static/{path}. The relative path is checked
// before any filesystem access and then opened inside an os.Root, so neither
// ".." segments nor symlinks can leave the static directory.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, StaticPrefix)
	if !SafeRelPath(rel) {
		metrics.RecordStaticRequest(kindAsset, resultDenied)
		h.logger.Warn(r.Context(), "static path rejected", logger.String("path", r.URL.Path))
		respond.Error(w, http.StatusNotFound, "not_found", ErrNotFound.Error())
		return
	}

	root, err := os.OpenRoot(h.staticDir)
	if err != nil {
		h.miss(w, r, kindAsset, err)
		return
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(rel))
	if err != nil {
		h.miss(w, r, kindAsset, err)
		return
	}
	defer f.Close()

	h.serve(w, r, kindAsset, rel, f)
}

// SafeRelPath reports whether rel is a clean, relative, slash-separated path
// without "." or ".." elements, backslashes or NUL bytes.
func SafeRelPath(rel string) bool {
	if rel == "" || strings.ContainsAny(rel, "\\\x00") {
		return false
	}
	return fs.ValidPath(rel) && rel != "."
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, kind, name string, f *os.File) {
	info, err := f.Stat()
	if err != nil {
		h.miss(w, r, kind, err)
		return
	}
	if info.IsDir() {
		h.miss(w, r, kind, ErrIsDirectory)
		return
	}
	metrics.RecordStaticRequest(kind, resultHit)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// miss answers 404 for missing files and 500 for other failures.
func (h *Handler) miss(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrIsDirectory) ||
		errors.Is(err, syscall.ENOTDIR) || isEscape(err) {
		metrics.RecordStaticRequest(kind, resultMiss)
		h.logger.Debug(r.Context(), "file not found", logger.String("kind", kind), logger.String("path", r.URL.Path))
		respond.Error(w, http.StatusNotFound, "not_found", ErrNotFound.Error())
		return
	}
	metrics.RecordStaticRequest(kind, "error")
	h.logger.Error(r.Context(), "file open failed", logger.String("kind", kind), logger.Error(err))
	respond.Error(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// isEscape reports an os.Root refusal, e.g. a symlink pointing outside the
// static directory.
func isEscape(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "escapes from parent")
}
