package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/auth"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/users"
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
	r.Use(h.auth.RequireAuth(), h.auth.RequireAdmin())
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id/role", h.UpdateRole)
	r.DELETE("/users/:id", h.DeleteUser)
	r.GET("/stats", h.Stats)
	r.GET("/recent-activities", h.RecentActivities)
	r.POST("/factors", h.CreateFactor)
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type roleRequest struct {
	Role users.Role `json:"role" binding:"required"`
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.service.UpdateRole(c.Request.Context(), id, req.Role)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully", "user": user})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	err = h.service.DeleteUser(c.Request.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User and associated data deleted successfully"})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RecentActivities(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	list, err := h.service.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateFactor(c *gin.Context) {
	var factor factors.EmissionFactor
	if err := c.ShouldBindJSON(&factor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	factor.CreatedBy = auth.CurrentUserID(c)
	factor.IsActive = true
	if err := h.factors.Create(c.Request.Context(), &factor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, factor)
}
