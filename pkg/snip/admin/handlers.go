package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/store"
	"gorm.io/gorm"
)

// Handler handles admin requests. It is a thin read/write adapter over
// the stores; no redirect or analytics logic lives here.
type Handler struct {
	db    *gorm.DB
	links *store.LinkStore
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB, links *store.LinkStore) *Handler {
	return &Handler{db: db, links: links}
}

// LinkResponse represents a link in admin responses
type LinkResponse struct {
	ID         uint   `json:"id"`
	Identifier string `json:"identifier"`
	Target     string `json:"target"`
	OwnerEmail string `json:"owner_email"`
	ClickCount uint   `json:"click_count"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// ClickResponse represents a click event in admin responses
type ClickResponse struct {
	ID         uint   `json:"id"`
	Identifier string `json:"identifier"`
	IPAddress  string `json:"ip_address"`
	Browser    string `json:"browser"`
	Platform   string `json:"platform"`
	Device     string `json:"device"`
	CreatedAt  string `json:"created_at"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalLinks    int64 `json:"total_links"`
	ActiveLinks   int64 `json:"active_links"`
	TotalClicks   int64 `json:"total_clicks"`
	ClickEvents   int64 `json:"click_events"`
}

// SetActiveRequest represents the request to toggle a link
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListLinks returns all links with their owners (admin only)
// @Summary List all links
// @Description Get every link in the system, newest first
// @Tags admin
// @Produce json
// @Param is_active query bool false "Filter by active status"
// @Success 200 {array} LinkResponse
// @Security BearerAuth
// @Router /admin/links [get]
func (h *Handler) ListLinks(c *gin.Context) {
	var links []models.Link
	query := h.db.Preload("User").Order("created_at DESC")

	if isActive := c.Query("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	if err := query.Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}

	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = LinkResponse{
			ID:         link.ID,
			Identifier: link.Identifier,
			Target:     link.Target,
			OwnerEmail: link.User.Email,
			ClickCount: link.ClickCount,
			IsActive:   link.IsActive,
			CreatedAt:  link.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// ListClicks returns recent click events across all links (admin only)
// @Summary List recent clicks
// @Description Get the most recent click events system-wide
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum events to return (default 100)"
// @Success 200 {array} ClickResponse
// @Security BearerAuth
// @Router /admin/clicks [get]
func (h *Handler) ListClicks(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	var events []models.ClickEvent
	err := h.db.Preload("Link").Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clicks"})
		return
	}

	responses := make([]ClickResponse, len(events))
	for i, event := range events {
		responses[i] = ClickResponse{
			ID:         event.ID,
			Identifier: event.Link.Identifier,
			IPAddress:  event.IPAddress,
			Browser:    event.Browser,
			Platform:   event.Platform,
			Device:     event.Device,
			CreatedAt:  event.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Stats returns system statistics (admin only)
// @Summary System statistics
// @Description Totals for users, links, and clicks. TotalClicks sums the
// @Description all-time counters; ClickEvents counts surviving event rows,
// @Description which can be lower when owners have pruned their history.
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.Link{}).Count(&stats.TotalLinks)
	h.db.Model(&models.Link{}).Where("is_active = ?", true).Count(&stats.ActiveLinks)
	h.db.Model(&models.ClickEvent{}).Count(&stats.ClickEvents)

	h.db.Model(&models.Link{}).Select("COALESCE(SUM(click_count), 0)").Scan(&stats.TotalClicks)

	c.JSON(http.StatusOK, stats)
}

// SetLinkActive toggles whether a link resolves (admin only)
// @Summary Activate or deactivate a link
// @Description Toggle is_active; deactivated links 404 on the redirect path
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body SetActiveRequest true "Active flag"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /admin/links/{id}/active [post]
func (h *Handler) SetLinkActive(c *gin.Context) {
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.links.SetActive(uint(linkID), *req.IsActive); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link updated"})
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.ListLinks)
	rg.GET("/clicks", h.ListClicks)
	rg.GET("/stats", h.Stats)
	rg.POST("/links/:id/active", h.SetLinkActive)
}
