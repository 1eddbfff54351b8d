package store

import (
	"errors"

	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/shortid"
	"gorm.io/gorm"
)

const (
	maxTargetLength = 10000

	// Attempts to allocate a unique identifier before giving up.
	maxCreateAttempts = 5
)

// LinkStore is the durable mapping from identifier to target link plus
// ownership and status metadata. All link mutation goes through it.
type LinkStore struct {
	db  *gorm.DB
	gen *shortid.Generator
}

// NewLinkStore creates a link store using the given identifier generator.
func NewLinkStore(db *gorm.DB, gen *shortid.Generator) *LinkStore {
	return &LinkStore{db: db, gen: gen}
}

// validateTarget checks a target URL for well-formedness
func validateTarget(target string) error {
	if target == "" {
		return &ValidationError{"Target URL must not be empty"}
	}
	if len(target) > maxTargetLength {
		return &ValidationError{"Target URL is too long"}
	}
	return nil
}

// Create persists a new link for ownerID pointing at target. The
// identifier is generated here; on a collision with an existing row the
// unique index rejects the insert and a fresh identifier is tried, up
// to maxCreateAttempts.
func (s *LinkStore) Create(ownerID uint, target string) (*models.Link, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		identifier, err := s.gen.Generate()
		if err != nil {
			return nil, err
		}

		link := models.Link{
			UserID:     ownerID,
			Identifier: identifier,
			Target:     target,
			IsActive:   true,
		}
		err = s.db.Create(&link).Error
		if err == nil {
			return &link, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return nil, ErrExhaustedRetries
}

// GetByIdentifier looks a link up for redirection. Only active links
// resolve; a deactivated link is reported exactly like a missing one.
func (s *LinkStore) GetByIdentifier(identifier string) (*models.Link, error) {
	var link models.Link
	err := s.db.Where("identifier = ? AND is_active = ?", identifier, true).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// GetOwned fetches a link by primary key and verifies ownership.
func (s *LinkStore) GetOwned(linkID, ownerID uint) (*models.Link, error) {
	var link models.Link
	if err := s.db.First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.UserID != ownerID {
		return nil, ErrPermissionDenied
	}
	return &link, nil
}

// UpdateTarget changes where a link points. Only the owner may update.
func (s *LinkStore) UpdateTarget(linkID, ownerID uint, newTarget string) (*models.Link, error) {
	link, err := s.GetOwned(linkID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := validateTarget(newTarget); err != nil {
		return nil, err
	}

	link.Target = newTarget
	if err := s.db.Save(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// SetActive toggles whether a link resolves on the redirect path.
func (s *LinkStore) SetActive(linkID uint, active bool) (*models.Link, error) {
	var link models.Link
	if err := s.db.First(&link, linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&link).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes a link and all of its click events in one
// transaction: either both are gone or neither is.
func (s *LinkStore) Delete(linkID, ownerID uint) error {
	if _, err := s.GetOwned(linkID, ownerID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", linkID).Delete(&models.ClickEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Link{}, linkID).Error
	})
}

// IncrementClickCount applies a single atomic increment at the storage
// layer. Concurrent redirects on the same link must each land, so this
// is never done as an application-level read-modify-write.
func (s *LinkStore) IncrementClickCount(linkID uint) error {
	return incrementClickCount(s.db, linkID)
}

// incrementClickCount runs the increment on tx so the click recorder
// can include it in the same transaction as the event insert.
func incrementClickCount(tx *gorm.DB, linkID uint) error {
	result := tx.Model(&models.Link{}).Where("id = ?", linkID).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForOwner returns all of a user's links, newest first.
func (s *LinkStore) ListForOwner(ownerID uint) ([]models.Link, error) {
	var links []models.Link
	err := s.db.Where("user_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}
