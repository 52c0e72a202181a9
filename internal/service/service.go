// Package service implements the gym's business rules: validation, the
// registration engine and directory queries, orchestrated over a
// repository.Store.
package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Shivanand-hulikatti/steelfist/internal/model"
	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// GymService orchestrates every gym operation. It holds no per-call state.
type GymService struct {
	store  repository.Store
	tracer trace.Tracer

	// cardCode mints access card numbers when the caller supplies none.
	cardCode func() int64
}

// Option customises a GymService.
type Option func(*GymService)

// WithTracer records a span per operation.
func WithTracer(t trace.Tracer) Option {
	return func(s *GymService) { s.tracer = t }
}

// WithCardCodes replaces the random 6-digit card code generator.
func WithCardCodes(next func() int64) Option {
	return func(s *GymService) { s.cardCode = next }
}

// NewGymService constructs a GymService over store.
func NewGymService(store repository.Store, opts ...Option) *GymService {
	s := &GymService{
		store:    store,
		tracer:   noop.NewTracerProvider().Tracer("steelfist"),
		cardCode: randomCardCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the store.
func (s *GymService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storeError(err, "ping")
	}
	return nil
}

func (s *GymService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "service."+op, trace.WithAttributes(attrs...))
}

func randomCardCode() int64 {
	return 100_000 + rand.Int64N(900_000)
}

// ParseID converts a boundary identifier into a store id. field names the
// argument in the error message.
func ParseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("%s must be a positive integer, got %q", field, raw)
	}
	return id, nil
}

var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseSchedule parses an ISO-8601 date or date-time. Values without an
// offset are taken as UTC.
func ParseSchedule(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("scheduled_at must be an ISO-8601 date-time, got %q", raw)
}

// ParseCourseFilter validates the course browser's query options. Empty
// strings select every course in date order.
func ParseCourseFilter(specialty, availability, sortBy string) (model.CourseFilter, error) {
	var f model.CourseFilter
	if strings.TrimSpace(specialty) != "" {
		sp, ok := model.ParseSpecialty(specialty)
		if !ok {
			return f, invalid("unknown specialty %q", specialty)
		}
		f.Specialty = sp
	}
	switch strings.ToLower(strings.TrimSpace(availability)) {
	case "":
	case "available":
		f.Availability = model.Available
	case "full":
		f.Availability = model.Full
	default:
		return f, invalid("availability must be Available or Full, got %q", availability)
	}
	switch key := model.SortKey(strings.ToLower(strings.TrimSpace(sortBy))); key {
	case "", model.SortByDate, model.SortByName, model.SortByRegistrations:
		f.SortBy = key
	default:
		return f, invalid("sort must be date, name or registrations, got %q", sortBy)
	}
	return f, nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}

// optional trims v and treats a blank value as absent.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func positiveID(id int64, field string) error {
	if id <= 0 {
		return invalid("%s must be a positive integer, got %d", field, id)
	}
	return nil
}
