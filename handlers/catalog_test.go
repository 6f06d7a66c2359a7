package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"garagio/models"
	"garagio/services/catalog"
	"garagio/services/filter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stubCatalogService records ApplyCriteria calls; everything else returns
// zero values.
type stubCatalogService struct {
	applied []filter.CriteriaPatch
}

func (s *stubCatalogService) ApplyCriteria(ctx context.Context, patch filter.CriteriaPatch) (catalog.Snapshot, error) {
	s.applied = append(s.applied, patch)
	return catalog.Snapshot{Status: catalog.StatusSuccess}, nil
}

func (s *stubCatalogService) ResetCriteria(ctx context.Context) catalog.Snapshot { return catalog.Snapshot{} }
func (s *stubCatalogService) SelectCategory(ctx context.Context, categoryID string, selected bool) catalog.Snapshot {
	return catalog.Snapshot{}
}
func (s *stubCatalogService) SelectSubcategory(ctx context.Context, childID string, selected bool, parentID string) catalog.Snapshot {
	return catalog.Snapshot{}
}
func (s *stubCatalogService) SelectCategoryTab(ctx context.Context, categoryID string) catalog.Snapshot {
	return catalog.Snapshot{}
}
func (s *stubCatalogService) Search(term string) catalog.Snapshot { return catalog.Snapshot{} }
func (s *stubCatalogService) ChangeSelectedSize(offeringID string, size models.CarSize) (models.ServiceOffering, error) {
	return models.ServiceOffering{}, nil
}
func (s *stubCatalogService) Retry(ctx context.Context) catalog.Snapshot { return catalog.Snapshot{} }
func (s *stubCatalogService) Current() catalog.Snapshot                  { return catalog.Snapshot{} }
func (s *stubCatalogService) Criteria() models.FilterCriteria            { return models.FilterCriteria{} }
func (s *stubCatalogService) CategoryTree(ctx context.Context) ([]models.CategoryNode, error) {
	return nil, nil
}
func (s *stubCatalogService) Cities(ctx context.Context) ([]models.City, error) { return nil, nil }

func applyFilterRequest(t *testing.T, svc catalog.CatalogService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(svc, zap.NewNop())
	r.PUT("/api/catalog/filter", h.ApplyFilter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/catalog/filter", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestApplyFilter_RejectsUnknownCarSize(t *testing.T) {
	svc := &stubCatalogService{}

	w := applyFilterRequest(t, svc, `{"carSizes": ["sedan", "truck"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "truck") {
		t.Errorf("response should name the rejected size, got %s", w.Body.String())
	}
	if len(svc.applied) != 0 {
		t.Errorf("rejected input must never reach the criteria, got %d applies", len(svc.applied))
	}
}

func TestApplyFilter_AcceptsKnownCarSizes(t *testing.T) {
	svc := &stubCatalogService{}

	w := applyFilterRequest(t, svc, `{"carSizes": ["sedan", "suv"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(svc.applied) != 1 {
		t.Fatalf("expected 1 apply, got %d", len(svc.applied))
	}
	sizes := svc.applied[0].CarSizes
	if len(sizes) != 2 || sizes[0] != models.SizeSedan || sizes[1] != models.SizeSUV {
		t.Errorf("patch sizes = %v, want [sedan suv]", sizes)
	}
}
