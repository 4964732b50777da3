package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otakulog/otakulog/internal/models"
	"github.com/otakulog/otakulog/internal/patch"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistPatch lists the optional entry fields. Absent fields are left
// untouched on update; null clears a nullable column.
type WatchlistPatch struct {
	ImageURL      patch.Field[string]
	Status        patch.Field[models.WatchlistStatus]
	Score         patch.Field[float64]
	Progress      patch.Field[int]
	TotalEpisodes patch.Field[int]
	Rewatches     patch.Field[int]
	StartDate     patch.Field[string]
	FinishDate    patch.Field[string]
	Notes         patch.Field[string]
}

// WatchlistInput is one upsert request for a catalog item.
type WatchlistInput struct {
	MalID int
	Title string
	WatchlistPatch
}

func (in WatchlistInput) Validate() error {
	if in.MalID <= 0 || strings.TrimSpace(in.Title) == "" {
		return ErrMissingFields
	}

	p := in.WatchlistPatch

	if p.Status.IsNull() {
		return &FieldError{Field: "status", Message: "must not be null"}
	}
	if status, ok := p.Status.Get(); ok && !status.Valid() {
		return &FieldError{Field: "status", Message: "must be one of watching, completed, on_hold, dropped, plan_to_watch"}
	}
	if score, ok := p.Score.Get(); ok && (score < 0 || score > 10) {
		return &FieldError{Field: "score", Message: "must be between 0 and 10"}
	}
	if p.Progress.IsNull() {
		return &FieldError{Field: "progress", Message: "must not be null"}
	}
	if progress, ok := p.Progress.Get(); ok && progress < 0 {
		return &FieldError{Field: "progress", Message: "must not be negative"}
	}
	if total, ok := p.TotalEpisodes.Get(); ok && total < 0 {
		return &FieldError{Field: "totalEpisodes", Message: "must not be negative"}
	}
	if p.Rewatches.IsNull() {
		return &FieldError{Field: "rewatches", Message: "must not be null"}
	}
	if rewatches, ok := p.Rewatches.Get(); ok && rewatches < 0 {
		return &FieldError{Field: "rewatches", Message: "must not be negative"}
	}

	return nil
}

func (in WatchlistInput) newEntry(userID uint) models.WatchlistEntry {
	p := in.WatchlistPatch

	return models.WatchlistEntry{
		UserID:        userID,
		MalID:         in.MalID,
		Title:         in.Title,
		ImageURL:      p.ImageURL.Ptr(),
		Status:        p.Status.Or(models.StatusPlanToWatch),
		Score:         p.Score.Ptr(),
		Progress:      p.Progress.Or(0),
		TotalEpisodes: p.TotalEpisodes.Ptr(),
		Rewatches:     p.Rewatches.Or(0),
		StartDate:     p.StartDate.Ptr(),
		FinishDate:    p.FinishDate.Ptr(),
		Notes:         p.Notes.Ptr(),
	}
}

// assignments returns the column updates for the fields present in the patch.
// The title/image snapshot is not refreshed on update.
func (p WatchlistPatch) assignments() map[string]interface{} {
	updates := map[string]interface{}{}

	if status, ok := p.Status.Get(); ok {
		updates["status"] = status
	}
	if p.Score.IsSet() {
		updates["score"] = p.Score.Ptr()
	}
	if progress, ok := p.Progress.Get(); ok {
		updates["progress"] = progress
	}
	if p.TotalEpisodes.IsSet() {
		updates["total_episodes"] = p.TotalEpisodes.Ptr()
	}
	if rewatches, ok := p.Rewatches.Get(); ok {
		updates["rewatches"] = rewatches
	}
	if p.StartDate.IsSet() {
		updates["start_date"] = p.StartDate.Ptr()
	}
	if p.FinishDate.IsSet() {
		updates["finish_date"] = p.FinishDate.Ptr()
	}
	if p.Notes.IsSet() {
		updates["notes"] = p.Notes.Ptr()
	}

	return updates
}

// WatchlistStore persists per-user watchlist entries.
type WatchlistStore struct {
	db *gorm.DB
}

func NewWatchlistStore(db *gorm.DB) *WatchlistStore {
	return &WatchlistStore{db: db}
}

// ListForUser returns the user's entries, least recently updated first.
func (s *WatchlistStore) ListForUser(ctx context.Context, userID uint) ([]models.WatchlistEntry, error) {
	entries := []models.WatchlistEntry{}

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at ASC").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	return entries, nil
}

// Upsert creates the entry for (userID, in.MalID) or merges the supplied
// fields into the existing one. The insert is conditional on the
// (user_id, mal_id) unique index, so concurrent writers for the same pair
// fall through to the update branch instead of inserting twice.
func (s *WatchlistStore) Upsert(ctx context.Context, userID uint, in WatchlistInput) (*models.WatchlistEntry, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	var (
		entry   models.WatchlistEntry
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := in.newEntry(userID)

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "mal_id"}},
			DoNothing: true,
		}).Create(&candidate)
		if result.Error != nil {
			return fmt.Errorf("insert entry: %w", result.Error)
		}

		if result.RowsAffected == 1 {
			entry = candidate
			created = true
			return nil
		}

		updates := in.WatchlistPatch.assignments()
		updates["updated_at"] = tx.NowFunc()

		err := tx.Model(&models.WatchlistEntry{}).
			Where("user_id = ? AND mal_id = ?", userID, in.MalID).
			Updates(updates).Error
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}

		return tx.Where("user_id = ? AND mal_id = ?", userID, in.MalID).Take(&entry).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &entry, created, nil
}

// Delete removes entryID if userID owns it. A missing entry and one owned by
// somebody else both report ErrNotFound.
func (s *WatchlistStore) Delete(ctx context.Context, userID, entryID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return fmt.Errorf("delete entry: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// IsValidation reports whether err is an input error rather than a storage one.
func IsValidation(err error) bool {
	var fieldErr *FieldError
	return errors.Is(err, ErrMissingFields) || errors.As(err, &fieldErr)
}
