package activities

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/auth"
	"carbon-track/footprint-backend/internal/factors"
)

type Handler struct {
	service *Service
	factors *factors.Service
	auth    *auth.Service
}

func NewHandler(service *Service, factorService *factors.Service, authService *auth.Service) *Handler {
	return &Handler{service: service, factors: factorService, auth: authService}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/categories", h.Categories)

	authed := r.Group("", h.auth.RequireAuth())
	authed.POST("", h.Create)
	authed.GET("", h.List)
	authed.GET("/stats/summary", h.Summary)
	authed.GET("/export", h.Export)
	authed.GET("/:id", h.Get)
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}

	activity, err := h.service.Create(c.Request.Context(), auth.CurrentUserID(c), input, regionFromLocation(input.Location))
	if errors.Is(err, factors.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Emission factor not found for this activity type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		UserID:   auth.CurrentUserID(c),
		Category: factors.Category(c.Query("category")),
		SortBy:   c.DefaultQuery("sortBy", "date"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") == "desc",
	}
	filter.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if start, err := time.Parse(time.RFC3339, c.Query("startDate")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse(time.RFC3339, c.Query("endDate")); err == nil {
		filter.EndDate = &end
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, gin.H{
		"activities":  items,
		"totalPages":  totalPages,
		"currentPage": filter.Page,
		"total":       total,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		return
	}

	activity, err := h.service.Get(c.Request.Context(), id, auth.CurrentUserID(c), auth.CurrentRole(c))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, activity)
	}
}

func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		return
	}
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if input.Category != nil && !input.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}

	activity, err := h.service.Update(c.Request.Context(), id, auth.CurrentUserID(c), auth.CurrentRole(c), input, regionFromLocation(input.Location))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	case errors.Is(err, factors.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Emission factor not found for this activity type"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, activity)
	}
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
		return
	}

	err = h.service.Delete(c.Request.Context(), id, auth.CurrentUserID(c), auth.CurrentRole(c))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Activity not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Activity removed"})
	}
}

func (h *Handler) Summary(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if v, err := time.Parse(time.RFC3339, c.Query("startDate")); err == nil {
		start = v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("endDate")); err == nil {
		end = v
	}

	summary, err := h.service.Summarize(c.Request.Context(), auth.CurrentUserID(c), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period":            gin.H{"start": start, "end": end},
		"totalEmissions":    summary.TotalEmissions,
		"categoryBreakdown": summary.CategoryBreakdown,
		"activityCount":     summary.ActivityCount,
	})
}

func (h *Handler) Categories(c *gin.Context) {
	categories, subcategories, err := h.factors.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "subcategories": subcategories})
}

func (h *Handler) Export(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if v, err := time.Parse(time.RFC3339, c.Query("startDate")); err == nil {
		start = v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("endDate")); err == nil {
		end = v
	}

	report, err := h.service.ExportReport(c.Request.Context(), auth.CurrentUserID(c), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="activities.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

func regionFromLocation(loc *Location) *factors.Region {
	if loc == nil || loc.Country == "" {
		return nil
	}
	return &factors.Region{Country: loc.Country, City: loc.City}
}
