package redirect

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sniplink/snip/pkg/snip/store"
	"go.uber.org/zap"
)

// Handler resolves short identifiers to their targets, recording a
// click event per visit.
type Handler struct {
	links  *store.LinkStore
	clicks *store.ClickRecorder
	logger *zap.Logger
}

// NewHandler creates a new redirect handler
func NewHandler(links *store.LinkStore, clicks *store.ClickRecorder, logger *zap.Logger) *Handler {
	return &Handler{links: links, clicks: clicks, logger: logger}
}

// Resolve looks up an active link, records the click, and returns the
// target URL. Click recording is best-effort: a failure there is logged
// and the redirect still succeeds. Missing and deactivated identifiers
// both return store.ErrNotFound.
func (h *Handler) Resolve(identifier, clientIP, rawUserAgent string) (string, error) {
	link, err := h.links.GetByIdentifier(identifier)
	if err != nil {
		return "", err
	}

	if _, err := h.clicks.Record(link, clientIP, rawUserAgent); err != nil {
		h.logger.Warn("failed to record click",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
	}

	return link.Target, nil
}

// Redirect handles short URL redirects
// @Summary Redirect a short link
// @Description Resolve an identifier and redirect to its target URL
// @Tags redirect
// @Param identifier path string true "Short identifier"
// @Success 302
// @Failure 404 {object} map[string]string "Link not found"
// @Router /{identifier} [get]
func (h *Handler) Redirect(c *gin.Context) {
	identifier := c.Param("identifier")

	target, err := h.Resolve(identifier, clientIP(c.Request), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Redirect(http.StatusFound, target)
}

// clientIP extracts the visitor address: the first entry of
// X-Forwarded-For when present, else the direct connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RegisterRoutes registers the redirect route on the root router
// This should be called AFTER all other routes to avoid conflicts
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/:identifier", h.Redirect)
}
