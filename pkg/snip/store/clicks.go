package store

import (
	"errors"

	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/uaparse"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClickRecorder appends immutable click events and keeps the per-link
// counter in step with them.
type ClickRecorder struct {
	db     *gorm.DB
	links  *LinkStore
	logger *zap.Logger
}

// NewClickRecorder creates a click recorder.
func NewClickRecorder(db *gorm.DB, links *LinkStore, logger *zap.Logger) *ClickRecorder {
	return &ClickRecorder{db: db, links: links, logger: logger}
}

// Record classifies the user agent, then inserts the click event and
// increments the link counter in a single transaction. A client that
// disconnects mid-redirect cannot leave the counter and the event rows
// out of step: the transaction commits fully or rolls back.
func (r *ClickRecorder) Record(link *models.Link, ipAddress, rawUserAgent string) (*models.ClickEvent, error) {
	ua := uaparse.Classify(rawUserAgent)

	event := models.ClickEvent{
		LinkID:    link.ID,
		IPAddress: ipAddress,
		UserAgent: rawUserAgent,
		Browser:   ua.Browser,
		Platform:  ua.Platform,
		Device:    ua.Device,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return incrementClickCount(tx, link.ID)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("click recorded",
		zap.String("identifier", link.Identifier),
		zap.String("ip", ipAddress),
		zap.String("browser", ua.Browser),
	)
	return &event, nil
}

// ListForLink returns a link's click events, newest first. Only the
// link's owner may list them.
func (r *ClickRecorder) ListForLink(linkID, ownerID uint) ([]models.ClickEvent, error) {
	if _, err := r.links.GetOwned(linkID, ownerID); err != nil {
		return nil, err
	}

	var events []models.ClickEvent
	err := r.db.Where("link_id = ?", linkID).Order("created_at DESC, id DESC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes a single click event after checking that the
// acting user owns the event's link. The link's click_count is left
// untouched: it is an all-time total, not a count of surviving rows.
func (r *ClickRecorder) DeleteEvent(eventID, ownerID uint) error {
	var event models.ClickEvent
	if err := r.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := r.links.GetOwned(event.LinkID, ownerID); err != nil {
		return err
	}

	return r.db.Delete(&models.ClickEvent{}, eventID).Error
}
