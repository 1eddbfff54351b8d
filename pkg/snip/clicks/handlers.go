package clicks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sniplink/snip/pkg/snip/auth"
	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/store"
)

// Handler handles click-history requests
type Handler struct {
	clicks *store.ClickRecorder
}

// NewHandler creates a new clicks handler
func NewHandler(clicks *store.ClickRecorder) *Handler {
	return &Handler{clicks: clicks}
}

// ClickResponse represents a click event in API responses
type ClickResponse struct {
	ID        uint   `json:"id"`
	LinkID    uint   `json:"link_id"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Browser   string `json:"browser"`
	Platform  string `json:"platform"`
	Device    string `json:"device"`
	CreatedAt string `json:"created_at"`
}

func clickToResponse(event models.ClickEvent) ClickResponse {
	return ClickResponse{
		ID:        event.ID,
		LinkID:    event.LinkID,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Browser:   event.Browser,
		Platform:  event.Platform,
		Device:    event.Device,
		CreatedAt: event.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// respondStoreError translates store errors to HTTP responses
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListForLink returns a link's click history
// @Summary List clicks for a link
// @Description Get a link's click events, newest first
// @Tags clicks
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {array} ClickResponse
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /clicks/url/{id} [get]
func (h *Handler) ListForLink(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return
	}

	events, err := h.clicks.ListForLink(uint(linkID), userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	responses := make([]ClickResponse, len(events))
	for i, event := range events {
		responses[i] = clickToResponse(event)
	}

	c.JSON(http.StatusOK, responses)
}

// DeleteEvent removes a single click event
// @Summary Delete a click event
// @Description Delete one click record; the link's click_count is unaffected
// @Tags clicks
// @Produce json
// @Param id path int true "Click event ID"
// @Success 200 {object} map[string]string "Click deleted"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Click not found"
// @Security BearerAuth
// @Router /click/delete/{id} [post]
func (h *Handler) DeleteEvent(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid click ID"})
		return
	}

	if err := h.clicks.DeleteEvent(uint(eventID), userID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Click deleted"})
}

// RegisterRoutes registers click-history routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clicks/url/:id", h.ListForLink)
	rg.POST("/click/delete/:id", h.DeleteEvent)
}
