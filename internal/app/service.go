// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/packlist/internal/domain/checklist"
	"github.com/okian/packlist/internal/domain/model"
	"github.com/okian/packlist/pkg/logger"
	"github.com/okian/packlist/pkg/metrics"
)

// ErrNotStarted is returned by GenerateChecklist before Start or after Stop.
var ErrNotStarted = errors.New("checklist service not started")

// Rejection reasons reported to metrics.
const (
	reasonMissingFields = "missing_fields"
	reasonFieldType     = "field_type"
)

// Service answers checklist requests. Aside from lifecycle state and
// counters it holds nothing mutable; every request is independent.
type Service struct {
	mu sync.RWMutex

	catalog *checklist.Checklist
	logger  logger.Logger

	started   bool
	startedAt time.Time

	generated atomic.Int64
	rejected  atomic.Int64
	files     atomic.Int64
	bytes     atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the packing catalog. Used by tests.
func WithCatalog(c *checklist.Checklist) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog: checklist.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service ready to answer requests.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "checklist service started",
		logger.Int("categories", s.catalog.Len()),
		logger.Int("items", s.catalog.ItemCount()),
	)
	return nil
}

// Stop marks the service stopped. Requests after Stop fail with ErrNotStarted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "checklist service stopped",
		logger.Int64("generated", s.generated.Load()),
		logger.Int64("rejected", s.rejected.Load()),
	)
}

// GenerateChecklist validates a submission and answers it with the packing
// catalog. Uploaded files and notes have no effect on the result; the trip
// fields are echoed verbatim.
//
// Media analysis is not performed: every valid request gets the same catalog.
func (s *Service) GenerateChecklist(ctx context.Context, sub *model.Submission) (model.ChecklistResponse, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.ChecklistResponse{}, ErrNotStarted
	}

	req, err := sub.TripRequest()
	if err != nil {
		s.rejected.Add(1)
		reason := reasonFieldType
		if errors.Is(err, model.ErrMissingFields) {
			reason = reasonMissingFields
		}
		metrics.RecordChecklistRejected(reason)
		s.logger.Debug(ctx, "checklist request rejected",
			logger.String("reason", reason),
			logger.Any("fields", model.Fields(err)),
		)
		return model.ChecklistResponse{}, err
	}

	total := req.TotalBytes()
	s.generated.Add(1)
	s.files.Add(int64(len(req.Files)))
	s.bytes.Add(total)
	metrics.RecordUpload(len(req.Files), total)
	metrics.RecordChecklistGenerated()

	s.logger.Info(ctx, "checklist generated",
		logger.Int("files", len(req.Files)),
		logger.Int64("bytes", total),
		logger.Any("notes", req.Notes != nil),
	)

	return model.ChecklistResponse{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Checklist:   s.catalog,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             s.started,
		"checklistsGenerated": s.generated.Load(),
		"requestsRejected":    s.rejected.Load(),
		"filesDiscarded":      s.files.Load(),
		"bytesDiscarded":      s.bytes.Load(),
		"catalogCategories":   s.catalog.Len(),
		"catalogItems":        s.catalog.ItemCount(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
