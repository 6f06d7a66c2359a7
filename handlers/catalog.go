package handlers

import (
	"errors"
	"net/http"

	"garagio/models"
	"garagio/services/catalog"
	"garagio/services/filter"
	"garagio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes the catalog coordinator over the local HTTP facade.
type CatalogHandler struct {
	Svc    catalog.CatalogService
	Logger *zap.Logger
}

func NewCatalogHandler(svc catalog.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

// GetOfferings handles GET /api/catalog/offerings.
func (h *CatalogHandler) GetOfferings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.Current())
}

// filterPatchInput mirrors filter.CriteriaPatch for JSON binding.
type filterPatchInput struct {
	CityID         *string     `json:"cityId"`
	DistanceKm     *int        `json:"distanceKm"`
	PriceRange     *[2]float64 `json:"priceRange"`
	CategoryIDs    []string    `json:"categoryIds"`
	SubcategoryIDs []string    `json:"subcategoryIds"`
	CarSizes       []string    `json:"carSizes"`
}

// ApplyFilter handles PUT /api/catalog/filter.
func (h *CatalogHandler) ApplyFilter(c *gin.Context) {
	var input filterPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	patch := filter.CriteriaPatch{
		CityID:         input.CityID,
		DistanceKm:     input.DistanceKm,
		PriceRange:     input.PriceRange,
		CategoryIDs:    input.CategoryIDs,
		SubcategoryIDs: input.SubcategoryIDs,
	}
	if input.CarSizes != nil {
		sizes := make([]models.CarSize, 0, len(input.CarSizes))
		for _, s := range input.CarSizes {
			size, ok := models.ParseCarSize(s)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": "unknown car size: " + s})
				return
			}
			sizes = append(sizes, size)
		}
		patch.CarSizes = sizes
	}

	snap, err := h.Svc.ApplyCriteria(c.Request.Context(), patch)
	if err != nil {
		var rangeErr *filter.RangeError
		if errors.As(err, &rangeErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": rangeErr.Error()})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to apply filter", err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ResetFilter handles DELETE /api/catalog/filter.
func (h *CatalogHandler) ResetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.ResetCriteria(c.Request.Context()))
}

// SelectCategoryTab handles PUT /api/catalog/tab.
func (h *CatalogHandler) SelectCategoryTab(c *gin.Context) {
	var input struct {
		CategoryID string `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Svc.SelectCategoryTab(c.Request.Context(), input.CategoryID))
}

// SelectCategory handles PUT /api/catalog/filter/category.
func (h *CatalogHandler) SelectCategory(c *gin.Context) {
	var input struct {
		CategoryID string `json:"categoryId" binding:"required"`
		Selected   *bool  `json:"selected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Svc.SelectCategory(c.Request.Context(), input.CategoryID, *input.Selected))
}

// SelectSubcategory handles PUT /api/catalog/filter/subcategory.
func (h *CatalogHandler) SelectSubcategory(c *gin.Context) {
	var input struct {
		ChildID  string `json:"childId" binding:"required"`
		ParentID string `json:"parentId"`
		Selected *bool  `json:"selected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Svc.SelectSubcategory(c.Request.Context(), input.ChildID, *input.Selected, input.ParentID))
}

// Search handles GET /api/catalog/search. Purely client-side narrowing.
func (h *CatalogHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.Search(c.Query("q")))
}

// ChangeSize handles PUT /api/catalog/offerings/:offeringID/size.
func (h *CatalogHandler) ChangeSize(c *gin.Context) {
	offeringID := c.Param("offeringID")
	var input struct {
		CarSize string `json:"carSize" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	offering, err := h.Svc.ChangeSelectedSize(offeringID, models.CarSize(input.CarSize))
	if err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "offering not found", "details": err.Error()})
			return
		}
		// An unavailable size is a UI programming error; fail loudly.
		h.Logger.Error("ChangeSize: invalid size selection",
			zap.String("offeringId", offeringID),
			zap.String("carSize", input.CarSize),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size selection", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offering)
}

// Retry handles POST /api/catalog/retry: same parameters, new fetch.
func (h *CatalogHandler) Retry(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.Retry(c.Request.Context()))
}

// GetCategories handles GET /api/catalog/categories.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	tree, err := h.Svc.CategoryTree(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to fetch categories", err.Error())
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetCities handles GET /api/catalog/cities.
func (h *CatalogHandler) GetCities(c *gin.Context) {
	cities, err := h.Svc.Cities(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to fetch cities", err.Error())
		return
	}
	c.JSON(http.StatusOK, cities)
}
