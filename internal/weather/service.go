package weather

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// Geocoder resolves a query to a concrete location.
type Geocoder interface {
	Resolve(ctx context.Context, q Query) (Location, error)
}

// ProviderClient fetches the raw forecast payload for a resolved location.
type ProviderClient interface {
	FetchRaw(ctx context.Context, loc Location) (ProviderPayload, error)
}

// Store persists the latest model per query key. SaveLatest reports whether
// the write was accepted; writes carrying a stale generation are discarded so
// only the most recent request ever lands.
type Store interface {
	SaveLatest(key string, generation uint64, m *WeatherModel) bool
	GetLatest(key string) (*WeatherModel, error)
}

// Status describes how a fetch concluded.
type Status string

const (
	StatusReady    Status = "ready"
	StatusDegraded Status = "degraded"
)

// Result is what SafeFetch always returns: a fully populated model plus how
// it was obtained. AuthFailed distinguishes a credential problem from a
// transient outage so callers can surface it separately.
type Result struct {
	Status     Status        `json:"status"`
	AuthFailed bool          `json:"authError"`
	Model      *WeatherModel `json:"weather"`
	Generation uint64        `json:"-"`
}

// Service runs the resolve, fetch, normalize pipeline and owns the request
// generation counter that enforces last-query-wins.
type Service struct {
	geo     Geocoder
	client  ProviderClient
	store   Store
	logger  *slog.Logger
	timeout time.Duration

	generation atomic.Uint64
}

func NewService(geo Geocoder, client ProviderClient, store Store, logger *slog.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		geo:     geo,
		client:  client,
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// SafeFetch runs the full pipeline for q and never returns an error: any
// failure degrades to the synthetic model instead. The returned model is also
// written to the store unless a newer request has landed first.
func (s *Service) SafeFetch(ctx context.Context, q Query) Result {
	gen := s.generation.Add(1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc, err := s.geo.Resolve(ctx, q)
	if err != nil {
		return s.degrade(q, gen, "geocoding failed", err)
	}

	payload, err := s.client.FetchRaw(ctx, loc)
	if err != nil {
		return s.degrade(q, gen, "provider fetch failed", err)
	}

	model, err := Normalize(payload, loc)
	if err != nil {
		return s.degrade(q, gen, "normalization failed", err)
	}

	s.store.SaveLatest(q.Key(), gen, model)
	return Result{Status: StatusReady, Model: model, Generation: gen}
}

// Latest returns the most recently stored model for q, if any.
func (s *Service) Latest(q Query) (*WeatherModel, error) {
	return s.store.GetLatest(q.Key())
}

func (s *Service) degrade(q Query, gen uint64, msg string, cause error) Result {
	authFailed := errors.Is(cause, ErrAuthentication)
	s.logger.Warn(msg,
		slog.String("query", q.Key()),
		slog.Bool("authError", authFailed),
		slog.Any("error", cause),
	)

	model := FallbackModel(q, time.Now())
	s.store.SaveLatest(q.Key(), gen, model)
	return Result{
		Status:     StatusDegraded,
		AuthFailed: authFailed,
		Model:      model,
		Generation: gen,
	}
}
