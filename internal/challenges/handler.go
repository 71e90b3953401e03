package challenges

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/auth"
)

type Handler struct {
	service *Service
	auth    *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, auth: authService}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.POST("", h.auth.RequireAuth(), h.auth.RequireAdmin(), h.Create)
	r.POST("/:id/join", h.auth.RequireAuth(), h.Join)
	r.PUT("/:id/progress", h.auth.RequireAuth(), h.UpdateProgress)
	r.DELETE("/:id/leave", h.auth.RequireAuth(), h.Leave)
	r.GET("/user/me", h.auth.RequireAuth(), h.ListMine)
	r.POST("/:id/leaderboard/recompute", h.auth.RequireAuth(), h.auth.RequireAdmin(), h.RecomputeLeaderboard)
}

func (h *Handler) List(c *gin.Context) {
	challenges, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, challenges)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}
	challenge, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, challenge)
}

type createRequest struct {
	Title           string   `json:"title" binding:"required,max=100"`
	Description     string   `json:"description" binding:"required,max=1000"`
	Category        string   `json:"category"`
	Difficulty      string   `json:"difficulty"`
	Type            string   `json:"type"`
	Goal            Goal     `json:"goal" binding:"required"`
	Duration        Duration `json:"duration" binding:"required"`
	MaxParticipants int      `json:"maxParticipants"`
	Tags            []string `json:"tags"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	challenge := &Challenge{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		Type:            req.Type,
		Goal:            req.Goal,
		Duration:        req.Duration,
		MaxParticipants: req.MaxParticipants,
		Tags:            req.Tags,
		Status:          StatusActive,
		CreatedBy:       auth.CurrentUserID(c),
	}
	if err := h.service.Create(c.Request.Context(), challenge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (h *Handler) Join(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}

	challenge, err := h.service.Join(c.Request.Context(), id, auth.CurrentUserID(c))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
	case errors.Is(err, ErrChallengeFull):
		c.JSON(http.StatusConflict, gin.H{"message": "Challenge is full"})
	case errors.Is(err, ErrAlreadyJoined):
		// Idempotent: a repeat join succeeds without changing anything.
		c.JSON(http.StatusOK, gin.H{"message": "Already joined this challenge", "challenge": challenge})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Successfully joined challenge", "challenge": challenge})
	}
}

type progressRequest struct {
	Progress float64 `json:"progress" binding:"min=0"`
}

func (h *Handler) UpdateProgress(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	challenge, err := h.service.UpdateProgress(c.Request.Context(), id, auth.CurrentUserID(c), req.Progress)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
	case errors.Is(err, ErrNotParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not participating in this challenge"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Progress updated successfully", "challenge": challenge})
	}
}

func (h *Handler) Leave(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}

	challenge, err := h.service.Leave(c.Request.Context(), id, auth.CurrentUserID(c))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
	case errors.Is(err, ErrNotParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not participating in this challenge"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Successfully left challenge", "challenge": challenge})
	}
}

func (h *Handler) ListMine(c *gin.Context) {
	challenges, err := h.service.ListForUser(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, challenges)
}

func (h *Handler) RecomputeLeaderboard(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}
	challenge, err := h.service.RecomputeLeaderboard(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, challenge)
}
