package carbon

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carbon-track/footprint-backend/internal/auth"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/users"
)

type Handler struct {
	service *Service
	factors *factors.Service
	users   *users.Service
	auth    *auth.Service
}

func NewHandler(service *Service, factorService *factors.Service, userService *users.Service, authService *auth.Service) *Handler {
	return &Handler{service: service, factors: factorService, users: userService, auth: authService}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/factors", h.Factors)
	r.GET("/offset-options", h.Options)
	r.POST("/calculate", h.auth.RequireAuth(), h.Calculate)
	r.POST("/offset-cost", h.auth.RequireAuth(), h.Cost)
	r.POST("/offset-purchase", h.auth.RequireAuth(), h.Purchase)
}

func (h *Handler) Factors(c *gin.Context) {
	category := factors.Category(c.Query("category"))
	var (
		list []factors.EmissionFactor
		err  error
	)
	if category != "" {
		list, err = h.factors.ListByCategory(c.Request.Context(), category)
	} else {
		list, err = h.factors.ListAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Calculate(c *gin.Context) {
	var input Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}

	result, err := h.service.CalculateEmissions(c.Request.Context(), input)
	if errors.Is(err, factors.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Emission factor not found for this activity type"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":       input.Category,
		"subcategory":    input.Subcategory,
		"quantity":       input.Quantity,
		"unit":           input.Unit,
		"totalEmissions": result.TotalEmissions,
		"factorUsed":     result.FactorUsed,
		"date":           time.Now(),
	})
}

func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, OffsetOptions())
}

type costRequest struct {
	Emissions  float64 `json:"emissions" binding:"min=0"`
	OffsetType string  `json:"offsetType"`
}

func (h *Handler) Cost(c *gin.Context) {
	var req costRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	costPerTon, totalCost := OffsetCost(req.Emissions, req.OffsetType)
	c.JSON(http.StatusOK, gin.H{
		"emissions":  req.Emissions,
		"offsetType": req.OffsetType,
		"costPerTon": costPerTon,
		"totalCost":  totalCost,
	})
}

type purchaseRequest struct {
	Emissions  float64 `json:"emissions" binding:"required,min=0"`
	OffsetType string  `json:"offsetType" binding:"required"`
}

// Purchase records an offset purchase against the caller's stats. Payment
// itself is out of scope; the offset delta lowers net emissions.
func (h *Handler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	costPerTon, totalCost := OffsetCost(req.Emissions, req.OffsetType)
	stats, err := h.users.ApplyStatsDelta(c.Request.Context(), auth.CurrentUserID(c), 0, req.Emissions, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"offsetType": req.OffsetType,
		"emissions":  req.Emissions,
		"costPerTon": costPerTon,
		"totalCost":  totalCost,
		"stats":      stats,
	})
}
