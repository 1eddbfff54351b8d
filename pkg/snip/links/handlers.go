package links

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sniplink/snip/pkg/snip/auth"
	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/store"
)

// Handler handles link management requests
type Handler struct {
	links *store.LinkStore
}

// NewHandler creates a new links handler
func NewHandler(links *store.LinkStore) *Handler {
	return &Handler{links: links}
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	Target string `json:"target" binding:"required"`
}

// UpdateLinkRequest represents the request to update a link's target
type UpdateLinkRequest struct {
	Target string `json:"target" binding:"required"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID         uint   `json:"id"`
	Identifier string `json:"identifier"`
	Target     string `json:"target"`
	ClickCount uint   `json:"click_count"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	ShortURL   string `json:"short_url"`
}

// DashboardResponse represents the caller's links plus totals
type DashboardResponse struct {
	Links       []LinkResponse `json:"links"`
	TotalURLs   int            `json:"total_urls"`
	TotalClicks uint           `json:"total_clicks"`
}

func linkToResponse(c *gin.Context, link models.Link) LinkResponse {
	return LinkResponse{
		ID:         link.ID,
		Identifier: link.Identifier,
		Target:     link.Target,
		ClickCount: link.ClickCount,
		IsActive:   link.IsActive,
		CreatedAt:  link.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		ShortURL:   shortURL(c, link.Identifier),
	}
}

// shortURL builds the absolute short URL from the request host
func shortURL(c *gin.Context, identifier string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/" + identifier
}

// respondStoreError translates store errors to HTTP responses
func respondStoreError(c *gin.Context, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
	case errors.Is(err, store.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Create creates a new short link
// @Summary Create a short link
// @Description Shorten a target URL and return the new link
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /create [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No link provided"})
		return
	}

	link, err := h.links.Create(userID, req.Target)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, linkToResponse(c, *link))
}

// Update changes a link's target URL
// @Summary Update a link
// @Description Point an existing link at a new target URL
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body UpdateLinkRequest true "New target"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /edit/{id} [post]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL cannot be empty"})
		return
	}

	link, err := h.links.UpdateTarget(uint(linkID), userID, req.Target)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, linkToResponse(c, *link))
}

// Delete removes a link and all of its click events
// @Summary Delete a link
// @Description Delete a link and, with it, its click history
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} map[string]string "Link deleted"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /delete/{id} [post]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}

	if err := h.links.Delete(uint(linkID), userID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// Dashboard returns the caller's links with aggregate totals
// @Summary Dashboard
// @Description List the caller's links, newest first, with totals
// @Tags links
// @Produce json
// @Success 200 {object} DashboardResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	links, err := h.links.ListForOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}

	responses := make([]LinkResponse, len(links))
	var totalClicks uint
	for i, link := range links {
		responses[i] = linkToResponse(c, link)
		totalClicks += link.ClickCount
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Links:       responses,
		TotalURLs:   len(links),
		TotalClicks: totalClicks,
	})
}

// RegisterRoutes registers link management routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create", h.Create)
	rg.POST("/edit/:id", h.Update)
	rg.POST("/delete/:id", h.Delete)
	rg.GET("/dashboard", h.Dashboard)
}
