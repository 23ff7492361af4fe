package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

type stubGeocoder struct {
	loc Location
	err error
}

func (s stubGeocoder) Resolve(ctx context.Context, q Query) (Location, error) {
	return s.loc, s.err
}

type stubClient struct {
	payload ProviderPayload
	err     error
}

func (s stubClient) FetchRaw(ctx context.Context, loc Location) (ProviderPayload, error) {
	return s.payload, s.err
}

type recordingStore struct {
	keys        []string
	generations []uint64
}

func (r *recordingStore) SaveLatest(key string, generation uint64, m *WeatherModel) bool {
	r.keys = append(r.keys, key)
	r.generations = append(r.generations, generation)
	return true
}

func (r *recordingStore) GetLatest(key string) (*WeatherModel, error) {
	return nil, fmt.Errorf("not found")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(geo Geocoder, client ProviderClient) (*Service, *recordingStore) {
	st := &recordingStore{}
	return NewService(geo, client, st, testLogger(), time.Second), st
}

func TestSafeFetchReady(t *testing.T) {
	now := time.Now().UTC()
	geo := stubGeocoder{loc: testLocation()}
	client := stubClient{payload: ProviderPayload{
		Kind:    PayloadLegacy,
		Current: testObservation(now),
	}}
	svc, st := newTestService(geo, client)

	res := svc.SafeFetch(context.Background(), Query{Text: "Testville"})
	if res.Status != StatusReady {
		t.Fatalf("status = %q, want ready", res.Status)
	}
	if res.AuthFailed {
		t.Error("authError should be false on success")
	}
	if res.Model == nil || len(res.Model.Days) == 0 {
		t.Fatal("model should be populated with at least one day")
	}
	if len(st.keys) != 1 || st.keys[0] != "Testville" {
		t.Errorf("store keys = %v, want [Testville]", st.keys)
	}
}

func TestSafeFetchGeocodeFailureDegrades(t *testing.T) {
	geo := stubGeocoder{err: fmt.Errorf("lookup: %w", ErrLocationNotFound)}
	svc, _ := newTestService(geo, stubClient{})

	res := svc.SafeFetch(context.Background(), Query{Text: "Nonexistentville"})
	if res.Status != StatusDegraded {
		t.Fatalf("status = %q, want degraded", res.Status)
	}
	if res.AuthFailed {
		t.Error("location miss is not an auth failure")
	}
	if res.Model.Location.Name != "Nonexistentville" {
		t.Errorf("fallback location name = %q, want the query text", res.Model.Location.Name)
	}
	if len(res.Model.Days) != 3 {
		t.Errorf("fallback days = %d, want 3", len(res.Model.Days))
	}
}

func TestSafeFetchAuthFailureFlagged(t *testing.T) {
	geo := stubGeocoder{loc: testLocation()}
	client := stubClient{err: fmt.Errorf("onecall: %w", ErrAuthentication)}
	svc, _ := newTestService(geo, client)

	res := svc.SafeFetch(context.Background(), Query{Text: "Testville"})
	if res.Status != StatusDegraded {
		t.Fatalf("status = %q, want degraded", res.Status)
	}
	if !res.AuthFailed {
		t.Error("authError should be true when credentials are rejected")
	}
	if res.Model == nil {
		t.Fatal("degraded result must still carry a model")
	}
}

func TestSafeFetchProviderOutageDegrades(t *testing.T) {
	geo := stubGeocoder{loc: testLocation()}
	client := stubClient{err: fmt.Errorf("all endpoints: %w", ErrProviderUnavailable)}
	svc, st := newTestService(geo, client)

	res := svc.SafeFetch(context.Background(), Query{Text: "Testville"})
	if res.Status != StatusDegraded {
		t.Fatalf("status = %q, want degraded", res.Status)
	}
	if res.AuthFailed {
		t.Error("outage is not an auth failure")
	}
	// The fallback is stored too, so /latest keeps working during outages.
	if len(st.keys) != 1 {
		t.Errorf("expected one store write, got %d", len(st.keys))
	}
}

func TestSafeFetchGenerationsIncrease(t *testing.T) {
	now := time.Now().UTC()
	geo := stubGeocoder{loc: testLocation()}
	client := stubClient{payload: ProviderPayload{
		Kind:    PayloadLegacy,
		Current: testObservation(now),
	}}
	svc, st := newTestService(geo, client)

	svc.SafeFetch(context.Background(), Query{Text: "A"})
	svc.SafeFetch(context.Background(), Query{Text: "B"})

	if len(st.generations) != 2 || st.generations[1] <= st.generations[0] {
		t.Fatalf("generations should strictly increase, got %v", st.generations)
	}
}
