package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"garagio/models"
	"garagio/remote"
	"garagio/services/filter"

	"go.uber.org/zap"
)

// Status is the coordinator's externally visible fetch state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSuccess   Status = "success"
	StatusNoMatches Status = "noMatches" // successful fetch, zero results
	StatusError     Status = "error"
)

// Snapshot is a copy-on-read view of the coordinator state. Offerings are
// the last successful results narrowed by the current search term; on a
// fresh loading they remain visible, on error they are cleared.
type Snapshot struct {
	Status       Status                   `json:"status"`
	Offerings    []models.ServiceOffering `json:"offerings"`
	FilterActive bool                     `json:"filterActive"`
	SearchTerm   string                   `json:"searchTerm,omitempty"`
	Error        string                   `json:"error,omitempty"`
	Retryable    bool                     `json:"retryable,omitempty"`
}

// DefaultCatalogService implements CatalogService. Fetch responses are
// applied in trigger order no matter how they arrive: each trigger takes a
// fresh token and a completion only lands if its token is still the latest.
type DefaultCatalogService struct {
	Catalog remote.CatalogClient
	Cache   *ResultCache
	Logger  *zap.Logger
	Policy  filter.CascadePolicy

	mu          sync.Mutex
	token       uint64
	criteria    models.FilterCriteria
	categoryTab string
	searchTerm  string
	tree        []models.CategoryNode
	status      Status
	offerings   []models.ServiceOffering
	lastErr     error
}

// NewCatalogService builds a coordinator starting from the canonical
// default criteria in the idle state.
func NewCatalogService(client remote.CatalogClient, cache *ResultCache, logger *zap.Logger, policy filter.CascadePolicy) *DefaultCatalogService {
	return &DefaultCatalogService{
		Catalog:  client,
		Cache:    cache,
		Logger:   logger,
		Policy:   policy,
		criteria: filter.DefaultCriteria(),
		status:   StatusIdle,
	}
}

// ApplyCriteria validates and applies a partial criteria edit, then
// re-fetches. A rejected edit leaves the prior criteria and results alone.
func (s *DefaultCatalogService) ApplyCriteria(ctx context.Context, patch filter.CriteriaPatch) (Snapshot, error) {
	s.mu.Lock()
	next, err := filter.Apply(s.criteria, patch)
	if err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.criteria = next
	s.mu.Unlock()
	return s.refresh(ctx), nil
}

// ResetCriteria restores the canonical defaults and re-fetches.
func (s *DefaultCatalogService) ResetCriteria(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.criteria = filter.Reset()
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SelectCategory runs the category cascade against the cached tree and
// re-fetches.
func (s *DefaultCatalogService) SelectCategory(ctx context.Context, categoryID string, selected bool) Snapshot {
	s.mu.Lock()
	children := filter.ChildrenOf(s.tree, categoryID)
	s.criteria = filter.SelectCategory(s.criteria, categoryID, selected, children)
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SelectSubcategory toggles one subcategory per the cascade policy and
// re-fetches.
func (s *DefaultCatalogService) SelectSubcategory(ctx context.Context, childID string, selected bool, parentID string) Snapshot {
	s.mu.Lock()
	siblings := filter.ChildrenOf(s.tree, parentID)
	s.criteria = s.Policy.SelectSubcategory(s.criteria, childID, selected, parentID, siblings)
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SelectCategoryTab switches the top tab; empty means "all". Always a
// re-fetch trigger.
func (s *DefaultCatalogService) SelectCategoryTab(ctx context.Context, categoryID string) Snapshot {
	s.mu.Lock()
	s.categoryTab = categoryID
	s.mu.Unlock()
	return s.refresh(ctx)
}

// Search updates the free-text term. Purely client-side over the last
// successful results; never a re-fetch trigger.
func (s *DefaultCatalogService) Search(term string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
	return s.snapshotLocked()
}

// ChangeSelectedSize flips the size selection of one offering in the
// current results without re-fetching.
func (s *DefaultCatalogService) ChangeSelectedSize(offeringID string, size models.CarSize) (models.ServiceOffering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.offerings {
		if o.ID != offeringID {
			continue
		}
		updated, err := ChangeSelectedSize(o, size)
		if err != nil {
			return models.ServiceOffering{}, err
		}
		s.offerings[i] = updated
		return updated, nil
	}
	return models.ServiceOffering{}, &NotFoundError{OfferingID: offeringID}
}

// Retry re-issues the fetch with the exact same parameters.
func (s *DefaultCatalogService) Retry(ctx context.Context) Snapshot {
	return s.refresh(ctx)
}

// Current returns the present snapshot without triggering anything.
func (s *DefaultCatalogService) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Criteria returns a copy of the criteria currently in force.
func (s *DefaultCatalogService) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

// CategoryTree fetches and caches the normalized two-level hierarchy; the
// cascade rules consult the cached copy.
func (s *DefaultCatalogService) CategoryTree(ctx context.Context) ([]models.CategoryNode, error) {
	nodes, err := s.Catalog.FetchCategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	normalized := filter.NormalizeTree(nodes)
	s.mu.Lock()
	s.tree = normalized
	s.mu.Unlock()
	return normalized, nil
}

// Cities passes through the serviceable city list.
func (s *DefaultCatalogService) Cities(ctx context.Context) ([]models.City, error) {
	return s.Catalog.FetchCities(ctx)
}

// refresh performs one tokened fetch-and-apply round trip.
func (s *DefaultCatalogService) refresh(ctx context.Context) Snapshot {
	s.mu.Lock()
	token := atomic.AddUint64(&s.token, 1)
	s.status = StatusLoading
	query := s.buildQueryLocked()
	s.mu.Unlock()

	records, err := s.fetchVariants(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != atomic.LoadUint64(&s.token) {
		// Superseded while in flight; ignore on arrival.
		s.Logger.Debug("discarding stale catalog response", zap.Uint64("token", token))
		return s.snapshotLocked()
	}

	if err != nil {
		s.status = StatusError
		s.offerings = nil
		s.lastErr = translateFetchErr(err)
		s.Logger.Warn("catalog fetch failed", zap.Error(err))
		return s.snapshotLocked()
	}

	s.lastErr = nil
	s.offerings = Aggregate(records)
	if len(s.offerings) == 0 {
		s.status = StatusNoMatches
	} else {
		s.status = StatusSuccess
	}
	return s.snapshotLocked()
}

func (s *DefaultCatalogService) fetchVariants(ctx context.Context, query remote.VariantQuery) ([]models.VariantRecord, error) {
	if cached, ok := s.Cache.Get(ctx, query); ok {
		return cached, nil
	}
	records, err := s.Catalog.FetchVariants(ctx, query)
	if err != nil {
		return nil, err
	}
	s.Cache.Put(ctx, query, records)
	return records, nil
}

// buildQueryLocked maps the criteria (and tab, when one is active) onto the
// collaborator's query shape. An active tab narrows to that category alone.
func (s *DefaultCatalogService) buildQueryLocked() remote.VariantQuery {
	q := remote.VariantQuery{
		CityID:     s.criteria.CityID,
		PriceMin:   s.criteria.PriceRange[0],
		PriceMax:   s.criteria.PriceRange[1],
		CarSizes:   s.criteria.SizeList(),
		DistanceKm: s.criteria.DistanceKm,
	}
	if s.categoryTab != "" {
		q.CategoryIDs = []string{s.categoryTab}
		return q
	}
	ids := s.criteria.CategoryList()
	for id := range s.criteria.SubcategoryIDs {
		ids = append(ids, id)
	}
	q.CategoryIDs = ids
	return q
}

func (s *DefaultCatalogService) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:       s.status,
		FilterActive: filter.IsActive(s.criteria),
		SearchTerm:   s.searchTerm,
	}
	if s.status != StatusError {
		snap.Offerings = filterByTerm(s.offerings, s.searchTerm)
		if s.status == StatusSuccess && len(snap.Offerings) == 0 {
			snap.Status = StatusNoMatches
		}
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
		snap.Retryable = remote.IsNetworkError(s.lastErr) || remote.IsServerRejection(s.lastErr)
	}
	return snap
}

// translateFetchErr keeps the error taxonomy closed: anything a collaborator
// throws that is not already classified is treated as a network failure.
func translateFetchErr(err error) error {
	if remote.IsNetworkError(err) || remote.IsServerRejection(err) {
		return err
	}
	return &remote.NetworkError{Op: "fetch variants", Err: err}
}
