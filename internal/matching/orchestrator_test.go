package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/internal/demands/repository"
	"estatematch_backend/platform/apperr"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/events"
	"estatematch_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeDemandStore struct {
	mu      sync.Mutex
	demands map[uuid.UUID]repository.Demand
	saves   int
}

func newFakeDemandStore(demands ...repository.Demand) *fakeDemandStore {
	store := &fakeDemandStore{demands: make(map[uuid.UUID]repository.Demand)}
	for _, d := range demands {
		store.demands[d.ID] = d
	}
	return store
}

func (s *fakeDemandStore) GetByID(_ context.Context, id uuid.UUID) (repository.Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.demands[id]
	if !ok {
		return repository.Demand{}, apperr.NotFound("demand not found")
	}
	return d, nil
}

func (s *fakeDemandStore) ListOpen(_ context.Context) ([]repository.Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := make([]repository.Demand, 0)
	for _, d := range s.demands {
		if d.Status.IsOpen() {
			open = append(open, d)
		}
	}
	return open, nil
}

func (s *fakeDemandStore) ListOpenSearches(_ context.Context) ([]repository.Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	searches := make([]repository.Demand, 0)
	for _, d := range s.demands {
		if d.Type == domain.TypePropertySearch && d.Status != domain.StatusCompleted && d.Status != domain.StatusCancelled {
			searches = append(searches, d)
		}
	}
	return searches, nil
}

func (s *fakeDemandStore) SaveMatchResults(_ context.Context, id uuid.UUID, expectedVersion int, results repository.MatchResults) (repository.Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.demands[id]
	if !ok {
		return repository.Demand{}, apperr.NotFound("demand not found")
	}
	if d.Version != expectedVersion {
		return repository.Demand{}, apperr.Conflict("demand was modified concurrently")
	}
	checked := results.CheckedAt
	d.Matches = results.Matches
	d.MatchedPropertyIDs = results.MatchedPropertyIDs
	d.BestMatchScore = results.BestMatchScore
	d.LastMatchCheck = &checked
	d.Version++
	s.demands[id] = d
	s.saves++
	return d, nil
}

func (s *fakeDemandStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (repository.Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.demands[id]
	d.Status = status
	s.demands[id] = d
	return d, nil
}

type fakeCatalog struct {
	candidates []Candidate
}

func (c *fakeCatalog) ListByCategory(_ context.Context, category string) ([]Candidate, error) {
	if category == "" {
		return c.candidates, nil
	}
	out := make([]Candidate, 0, len(c.candidates))
	for _, cand := range c.candidates {
		if cand.Category == category {
			out = append(out, cand)
		}
	}
	return out, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Event, 0)
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		MatchInterval:        15 * time.Minute,
		MatchStalenessWindow: 5 * time.Minute,
		MatchOnCreateDelay:   time.Second,
	}
}

func searchDemand(criteria domain.Criteria) repository.Demand {
	c := criteria
	return repository.Demand{
		ID:                 uuid.New(),
		Type:               domain.TypePropertySearch,
		Status:             domain.StatusNew,
		ContactName:        "Yasmine Alaoui",
		Criteria:           &c,
		Matches:            []domain.PropertyMatch{},
		MatchedPropertyIDs: []string{},
		Version:            1,
	}
}

func casablancaProperty(id string, price float64) Candidate {
	return Candidate{
		ID:       id,
		Title:    "Appartement " + id,
		City:     "Casablanca",
		Category: "SALE",
		Price:    price,
		Beds:     3,
	}
}

func newTestOrchestrator(store *fakeDemandStore, catalog *fakeCatalog, bus *recordingBus) *Orchestrator {
	return New(store, catalog, nil, bus, testConfig(), logger.New("test"))
}

func TestMatchDemandPersistsAndTransitions(t *testing.T) {
	demand := searchDemand(domain.Criteria{
		TransactionType: "SALE",
		Locations:       []string{"Casablanca"},
		BudgetMin:       floatPtr(2_000_000),
		BudgetMax:       floatPtr(4_000_000),
		BedsMin:         intPtr(3),
	})
	store := newFakeDemandStore(demand)
	catalog := &fakeCatalog{candidates: []Candidate{casablancaProperty("prop-1", 3_000_000)}}
	bus := &recordingBus{}

	updated, err := newTestOrchestrator(store, catalog, bus).MatchDemand(context.Background(), demand.ID, false)
	if err != nil {
		t.Fatalf("match run failed: %v", err)
	}

	if len(updated.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(updated.Matches))
	}
	if updated.Matches[0].Score != 85 {
		t.Fatalf("expected score 85, got %d", updated.Matches[0].Score)
	}
	if updated.BestMatchScore != 85 {
		t.Fatalf("expected best score 85, got %d", updated.BestMatchScore)
	}
	if updated.Status != domain.StatusMatched {
		t.Fatalf("new demand with matches should become matched, got %s", updated.Status)
	}
	if updated.LastMatchCheck == nil {
		t.Fatal("last match check must be stamped")
	}
	if got := bus.named("matching.match.high_score"); len(got) != 1 {
		t.Fatalf("expected one high-score event, got %d", len(got))
	}
}

func TestMatchDemandStalenessSkip(t *testing.T) {
	demand := searchDemand(domain.Criteria{Locations: []string{"Casablanca"}})
	store := newFakeDemandStore(demand)
	catalog := &fakeCatalog{candidates: []Candidate{casablancaProperty("prop-1", 3_000_000)}}
	bus := &recordingBus{}
	o := newTestOrchestrator(store, catalog, bus)

	if _, err := o.MatchDemand(context.Background(), demand.ID, false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	before := store.saves

	// Second non-forced run inside the window must not touch the store.
	after, err := o.MatchDemand(context.Background(), demand.ID, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if store.saves != before {
		t.Fatal("staleness guard should have skipped the second scan")
	}
	if len(after.Matches) != 1 {
		t.Fatalf("stored matches must be returned unchanged, got %d", len(after.Matches))
	}

	// Forcing bypasses the guard.
	if _, err := o.MatchDemand(context.Background(), demand.ID, true); err != nil {
		t.Fatalf("forced run failed: %v", err)
	}
	if store.saves != before+1 {
		t.Fatal("forced run should have persisted")
	}
}

func TestMatchDemandDedupAppendsOnlyNew(t *testing.T) {
	demand := searchDemand(domain.Criteria{
		TransactionType: "SALE",
		Locations:       []string{"Casablanca"},
	})
	store := newFakeDemandStore(demand)
	catalog := &fakeCatalog{candidates: []Candidate{casablancaProperty("prop-1", 3_000_000)}}
	bus := &recordingBus{}
	o := newTestOrchestrator(store, catalog, bus)

	first, err := o.MatchDemand(context.Background(), demand.ID, true)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(first.Matches) != 1 {
		t.Fatalf("expected 1 match after first run, got %d", len(first.Matches))
	}
	firstCreated := first.Matches[0].CreatedAt

	// A forced re-run with no catalog change must not duplicate or re-score.
	second, err := o.MatchDemand(context.Background(), demand.ID, true)
	if err != nil {
		t.Fatalf("re-run failed: %v", err)
	}
	if len(second.Matches) != 1 {
		t.Fatalf("re-run duplicated matches: %d", len(second.Matches))
	}
	if !second.Matches[0].CreatedAt.Equal(firstCreated) {
		t.Fatal("existing match must not be re-scored in place")
	}

	// Adding one qualifying property appends exactly one entry.
	catalog.candidates = append(catalog.candidates, casablancaProperty("prop-2", 2_500_000))
	third, err := o.MatchDemand(context.Background(), demand.ID, true)
	if err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if len(third.Matches) != 2 {
		t.Fatalf("expected exactly one appended match, got %d total", len(third.Matches))
	}
	if third.Matches[0].PropertyID != "prop-1" || third.Matches[1].PropertyID != "prop-2" {
		t.Fatalf("prior matches must stay in place, got %s then %s",
			third.Matches[0].PropertyID, third.Matches[1].PropertyID)
	}
}

func TestMatchDemandZeroCriteriaSkipsQuietly(t *testing.T) {
	demand := searchDemand(domain.Criteria{})
	store := newFakeDemandStore(demand)
	bus := &recordingBus{}
	o := newTestOrchestrator(store, &fakeCatalog{}, bus)

	got, err := o.MatchDemand(context.Background(), demand.ID, true)
	if err != nil {
		t.Fatalf("empty criteria must not error: %v", err)
	}
	if store.saves != 0 {
		t.Fatal("empty criteria must not trigger a scan")
	}
	if len(got.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(got.Matches))
	}
}

func TestMatchDemandCapsAtTen(t *testing.T) {
	demand := searchDemand(domain.Criteria{
		TransactionType: "SALE",
		Locations:       []string{"Casablanca"},
	})
	store := newFakeDemandStore(demand)
	catalog := &fakeCatalog{}
	for i := 0; i < 15; i++ {
		catalog.candidates = append(catalog.candidates,
			casablancaProperty(uuid.NewString(), 2_000_000+float64(i)*100_000))
	}
	bus := &recordingBus{}

	updated, err := newTestOrchestrator(store, catalog, bus).MatchDemand(context.Background(), demand.ID, true)
	if err != nil {
		t.Fatalf("match run failed: %v", err)
	}
	if len(updated.Matches) != 10 {
		t.Fatalf("match list must cap at 10, got %d", len(updated.Matches))
	}
}

func TestCrossMatchIsQueryTimeOnly(t *testing.T) {
	buyer := searchDemand(domain.Criteria{
		TransactionType: "SALE",
		Locations:       []string{"Casablanca"},
		BedsMin:         intPtr(2),
	})
	price := 3_000_000.0
	beds := 3
	seller := repository.Demand{
		ID:          uuid.New(),
		Type:        domain.TypePropertySale,
		Status:      domain.StatusNew,
		ContactName: "Karim Bennis",
		PropertyDetails: &domain.PropertyDetails{
			City:  "Casablanca",
			Price: &price,
			Beds:  &beds,
		},
		Matches:            []domain.PropertyMatch{},
		MatchedPropertyIDs: []string{},
		Version:            1,
	}
	store := newFakeDemandStore(buyer, seller)
	bus := &recordingBus{}
	o := newTestOrchestrator(store, &fakeCatalog{}, bus)

	results, err := o.CrossMatch(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("cross-match failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one buyer candidate, got %d", len(results))
	}
	if results[0].DemandID != buyer.ID.String() {
		t.Fatalf("unexpected candidate %s", results[0].DemandID)
	}
	if results[0].Score < thresholdCross {
		t.Fatalf("surfaced candidate below cross threshold: %d", results[0].Score)
	}
	if store.saves != 0 {
		t.Fatal("cross-matching must never persist")
	}

	if _, err := o.CrossMatch(context.Background(), buyer.ID); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("cross-matching a buyer demand should be a validation error, got %v", err)
	}
}

// failingSaveStore wraps the fake store and rejects saves for one demand, so
// a batch pass has exactly one failing member.
type failingSaveStore struct {
	*fakeDemandStore
	failID uuid.UUID
}

func (s *failingSaveStore) SaveMatchResults(ctx context.Context, id uuid.UUID, expectedVersion int, results repository.MatchResults) (repository.Demand, error) {
	if id == s.failID {
		return repository.Demand{}, apperr.Unavailable("store rejected the write")
	}
	return s.fakeDemandStore.SaveMatchResults(ctx, id, expectedVersion, results)
}

func TestRescanIsolatesFailures(t *testing.T) {
	good := searchDemand(domain.Criteria{Locations: []string{"Rabat"}})
	bad := searchDemand(domain.Criteria{Locations: []string{"Fes"}})
	store := &failingSaveStore{
		fakeDemandStore: newFakeDemandStore(good, bad),
		failID:          bad.ID,
	}

	catalog := &fakeCatalog{candidates: []Candidate{{
		ID:    "prop-1",
		City:  "Rabat",
		Price: 1_000_000,
	}}}
	bus := &recordingBus{}
	o := New(store, catalog, nil, bus, testConfig(), logger.New("test"))

	succeeded, failed := o.RescanOpenDemands(context.Background())
	if succeeded != 1 || failed != 1 {
		t.Fatalf("expected 1 succeeded / 1 failed, got %d / %d", succeeded, failed)
	}
}
