package matching

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"estatematch_backend/internal/demands/domain"
	"estatematch_backend/internal/demands/repository"
	"estatematch_backend/internal/events"
	"estatematch_backend/platform/apperr"
	"estatematch_backend/platform/config"
	"estatematch_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// Acceptance thresholds. Direct buyer-to-property matches use the
	// stricter tier, seller cross-matches the more permissive one.
	thresholdDirect = 60
	thresholdCross  = 50
	thresholdNotify = 80

	maxMatches       = 10
	semanticPoolSize = 20
)

// Orchestrator runs the matching engine for demands: it gathers candidates,
// scores them, deduplicates against prior matches and persists the result.
type Orchestrator struct {
	demands  DemandStore
	catalog  CatalogSource
	semantic SemanticSearcher
	bus      events.Bus
	cfg      config.MatchingConfig
	log      *logger.Logger

	// Re-entrancy protection: tracks demands with a scan in flight.
	activeRuns map[string]bool
	runsMu     sync.Mutex
}

// New creates a new matching orchestrator. The semantic searcher may be nil.
func New(demands DemandStore, catalog CatalogSource, semantic SemanticSearcher, bus events.Bus, cfg config.MatchingConfig, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		demands:    demands,
		catalog:    catalog,
		semantic:   semantic,
		bus:        bus,
		cfg:        cfg,
		log:        log,
		activeRuns: make(map[string]bool),
	}
}

// markRunning attempts to claim a demand for scanning. Returns false if a
// scan is already in flight for it.
func (o *Orchestrator) markRunning(demandID uuid.UUID) bool {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()

	key := demandID.String()
	if o.activeRuns[key] {
		return false
	}
	o.activeRuns[key] = true
	return true
}

// markComplete removes the active run marker.
func (o *Orchestrator) markComplete(demandID uuid.UUID) {
	o.runsMu.Lock()
	defer o.runsMu.Unlock()
	delete(o.activeRuns, demandID.String())
}

// MatchDemand scans the catalog for one buyer search and persists any new
// matches. Seller demands and demands without usable criteria are returned
// unchanged. Within the staleness window a non-forced run skips the scan and
// returns the stored matches.
func (o *Orchestrator) MatchDemand(ctx context.Context, demandID uuid.UUID, force bool) (repository.Demand, error) {
	demand, err := o.demands.GetByID(ctx, demandID)
	if err != nil {
		return repository.Demand{}, err
	}

	if demand.Type != domain.TypePropertySearch {
		return demand, nil
	}
	if demand.Criteria == nil || demand.Criteria.IsZero() {
		return demand, nil
	}
	if !force && demand.LastMatchCheck != nil &&
		time.Since(*demand.LastMatchCheck) < o.cfg.GetMatchStalenessWindow() {
		return demand, nil
	}

	if !o.markRunning(demandID) {
		o.log.Info("match run already in flight, skipping", "demand_id", demandID)
		return demand, nil
	}
	defer o.markComplete(demandID)

	candidates, err := o.gatherCandidates(ctx, *demand.Criteria)
	if err != nil {
		return repository.Demand{}, err
	}

	seen := make(map[string]bool, len(demand.MatchedPropertyIDs))
	for _, id := range demand.MatchedPropertyIDs {
		seen[id] = true
	}
	for _, m := range demand.Matches {
		seen[m.PropertyID] = true
	}

	now := time.Now().UTC()
	fresh := make([]domain.PropertyMatch, 0)
	titles := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		titles[candidate.ID] = candidate.Title
		if seen[candidate.ID] {
			continue
		}
		result := Score(candidate, *demand.Criteria)
		if result.Score < thresholdDirect {
			continue
		}
		fresh = append(fresh, domain.PropertyMatch{
			PropertyID:      candidate.ID,
			Score:           result.Score,
			MatchedCriteria: result.MatchedCriteria,
			MatchDetails:    result.Details,
			Status:          domain.MatchPending,
			CreatedAt:       now,
		})
		seen[candidate.ID] = true
	}

	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].Score > fresh[j].Score })
	if room := maxMatches - len(demand.Matches); len(fresh) > room {
		if room < 0 {
			room = 0
		}
		fresh = fresh[:room]
	}

	matches := append(append([]domain.PropertyMatch{}, demand.Matches...), fresh...)
	matchedIDs := make([]string, 0, len(matches))
	bestScore := 0
	for _, m := range matches {
		matchedIDs = append(matchedIDs, m.PropertyID)
		if m.Score > bestScore {
			bestScore = m.Score
		}
	}

	updated, err := o.demands.SaveMatchResults(ctx, demandID, demand.Version, repository.MatchResults{
		Matches:            matches,
		MatchedPropertyIDs: matchedIDs,
		BestMatchScore:     bestScore,
		CheckedAt:          now,
	})
	if err != nil {
		return repository.Demand{}, err
	}

	if len(fresh) > 0 && updated.Status == domain.StatusNew {
		updated, err = o.demands.UpdateStatus(ctx, demandID, domain.StatusMatched)
		if err != nil {
			return repository.Demand{}, err
		}
	}

	if len(fresh) > 0 {
		o.bus.Publish(ctx, events.DemandMatchesUpdated{
			BaseEvent:  events.NewBaseEvent(),
			DemandID:   demandID,
			NewMatches: len(fresh),
			BestScore:  bestScore,
		})
	}
	o.notifyHighScores(ctx, updated, fresh, titles)
	o.log.MatchRun(demandID.String(), len(candidates), len(fresh), bestScore)

	return updated, nil
}

// gatherCandidates lists the catalog by transaction category and, when a
// semantic searcher is wired in, augments the pool with vector-search hits.
// The two lookups are independent and run concurrently. Semantic failures
// degrade silently to the catalog listing.
func (o *Orchestrator) gatherCandidates(ctx context.Context, criteria domain.Criteria) ([]Candidate, error) {
	query := ""
	if o.semantic != nil {
		query = semanticQuery(criteria)
	}

	var candidates, hits []Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listed, err := o.catalog.ListByCategory(gctx, criteria.TransactionType)
		if err != nil {
			return err
		}
		candidates = listed
		return nil
	})
	if query != "" {
		g.Go(func() error {
			found, err := o.semantic.Search(gctx, query, semanticPoolSize)
			if err != nil {
				o.log.Warn("semantic search unavailable, using catalog only", "error", err)
				return nil
			}
			hits = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return candidates, nil
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}
	for _, hit := range hits {
		if hit.ID == "" || known[hit.ID] {
			continue
		}
		candidates = append(candidates, hit)
		known[hit.ID] = true
	}

	return candidates, nil
}

func semanticQuery(criteria domain.Criteria) string {
	parts := make([]string, 0, 4)
	if criteria.PropertyType != "" {
		parts = append(parts, criteria.PropertyType)
	}
	if len(criteria.Locations) > 0 {
		parts = append(parts, strings.Join(criteria.Locations, " "))
	}
	if len(criteria.Features) > 0 {
		parts = append(parts, strings.Join(criteria.Features, " "))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// notifyHighScores emits one event per fresh match at or above the notify
// threshold, carrying the top two reasons.
func (o *Orchestrator) notifyHighScores(ctx context.Context, demand repository.Demand, fresh []domain.PropertyMatch, titles map[string]string) {
	for _, m := range fresh {
		if m.Score < thresholdNotify {
			continue
		}
		reasons := m.MatchedCriteria
		if len(reasons) > 2 {
			reasons = reasons[:2]
		}
		o.bus.Publish(ctx, events.HighScoreMatchFound{
			BaseEvent:     events.NewBaseEvent(),
			DemandID:      demand.ID,
			LeadID:        demand.LeadID,
			PropertyID:    m.PropertyID,
			PropertyTitle: titles[m.PropertyID],
			Score:         m.Score,
			TopReasons:    reasons,
		})
	}
}

// CrossMatch scores a seller demand's offered unit against every open buyer
// search. Results are computed per call and never written back to either
// demand.
func (o *Orchestrator) CrossMatch(ctx context.Context, demandID uuid.UUID) ([]domain.CrossMatch, error) {
	demand, err := o.demands.GetByID(ctx, demandID)
	if err != nil {
		return nil, err
	}
	if !demand.Type.IsSeller() {
		return nil, apperr.Validation("cross-matching applies to seller demands only")
	}
	if demand.PropertyDetails == nil {
		return nil, apperr.Validation("seller demand has no property details")
	}

	pseudo := pseudoProperty(demand)
	searches, err := o.demands.ListOpenSearches(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.CrossMatch, 0)
	for _, search := range searches {
		if search.Criteria == nil || search.Criteria.IsZero() {
			continue
		}
		scored := Score(pseudo, *search.Criteria)
		if scored.Score < thresholdCross {
			continue
		}
		results = append(results, domain.CrossMatch{
			DemandID:        search.ID.String(),
			ContactName:     search.ContactName,
			ContactPhone:    search.ContactPhone,
			Score:           scored.Score,
			MatchedCriteria: scored.MatchedCriteria,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > maxMatches {
		results = results[:maxMatches]
	}

	return results, nil
}

// pseudoProperty reduces a seller demand's property details to a scoring
// candidate. The transaction category falls back to the demand type when the
// details omit it.
func pseudoProperty(demand repository.Demand) Candidate {
	details := demand.PropertyDetails

	category := details.TransactionType
	if category == "" {
		if demand.Type == domain.TypePropertyRentalManagement {
			category = "RENT"
		} else {
			category = "SALE"
		}
	}

	c := Candidate{
		ID:           demand.ID.String(),
		Title:        details.Title,
		City:         details.City,
		Neighborhood: details.Neighborhood,
		Category:     category,
		PropertyType: details.PropertyType,
		Features:     details.Features,
	}
	if details.Price != nil {
		c.Price = *details.Price
	}
	if details.Beds != nil {
		c.Beds = *details.Beds
	}
	if details.Baths != nil {
		c.Baths = *details.Baths
	}
	if details.Area != nil {
		c.Area = *details.Area
	}
	return c
}

// RescanOpenDemands runs MatchDemand over every demand still in new or
// processing. One demand's failure never aborts the batch; the counters
// report how the pass went.
func (o *Orchestrator) RescanOpenDemands(ctx context.Context) (succeeded, failed int) {
	open, err := o.demands.ListOpen(ctx)
	if err != nil {
		o.log.Error("failed to list open demands for rescan", "error", err)
		return 0, 0
	}

	for _, demand := range open {
		if ctx.Err() != nil {
			break
		}
		if _, err := o.MatchDemand(ctx, demand.ID, false); err != nil {
			failed++
			o.log.Error("rescan failed for demand", "demand_id", demand.ID, "error", err)
			continue
		}
		succeeded++
	}

	o.log.Info("rescan pass complete", "succeeded", succeeded, "failed", failed)
	return succeeded, failed
}
