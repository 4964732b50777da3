package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/models"
	"github.com/otakulog/otakulog/internal/patch"
	"github.com/otakulog/otakulog/internal/store"
	"github.com/otakulog/otakulog/internal/types"
	"github.com/otakulog/otakulog/internal/utils"
	"go.uber.org/zap"
)

// UpsertWatchlistRequest mirrors the JSON body of POST /api/watchlist.
// Optional fields keep the difference between omitted and null.
type UpsertWatchlistRequest struct {
	MalID         int                                 `json:"malId"`
	Title         string                              `json:"title"`
	ImageURL      patch.Field[string]                 `json:"imageUrl"`
	Status        patch.Field[models.WatchlistStatus] `json:"status"`
	Score         patch.Field[float64]                `json:"score"`
	Progress      patch.Field[int]                    `json:"progress"`
	TotalEpisodes patch.Field[int]                    `json:"totalEpisodes"`
	Rewatches     patch.Field[int]                    `json:"rewatches"`
	StartDate     patch.Field[string]                 `json:"startDate"`
	FinishDate    patch.Field[string]                 `json:"finishDate"`
	Notes         patch.Field[string]                 `json:"notes"`
}

func (r UpsertWatchlistRequest) input() store.WatchlistInput {
	status := r.Status
	// An empty status string means "keep the current one".
	if s, ok := status.Get(); ok && s == "" {
		status = patch.Field[models.WatchlistStatus]{}
	}

	return store.WatchlistInput{
		MalID: r.MalID,
		Title: r.Title,
		WatchlistPatch: store.WatchlistPatch{
			ImageURL:      r.ImageURL,
			Status:        status,
			Score:         r.Score,
			Progress:      r.Progress,
			TotalEpisodes: r.TotalEpisodes,
			Rewatches:     r.Rewatches,
			StartDate:     r.StartDate,
			FinishDate:    r.FinishDate,
			Notes:         r.Notes,
		},
	}
}

func (h *Handler) ListWatchlist(ctx *gin.Context, user auth.Identity) {
	entries, err := h.watchlist.ListForUser(ctx.Request.Context(), user.ID)

	if err != nil {
		h.log.Error("Failed to fetch watchlist", zap.Uint("user_id", user.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch watchlist"})
		return
	}

	ctx.JSON(http.StatusOK, types.WatchlistResponse{Watchlist: entries})
}

func (h *Handler) UpsertWatchlist(ctx *gin.Context, user auth.Identity) {
	var body UpsertWatchlistRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry, created, err := h.watchlist.Upsert(ctx.Request.Context(), user.ID, body.input())

	if store.IsValidation(err) {
		ctx.JSON(http.StatusBadRequest, validationBody(err))
		return
	}

	if err != nil {
		h.log.Error("Failed to manage watchlist entry", zap.Uint("user_id", user.ID), zap.Int("mal_id", body.MalID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to manage watchlist entry"})
		return
	}

	action := types.ActionUpdated
	if created {
		action = types.ActionCreated
	}

	h.notify(ctx.Request.Context(), user.ID, entry.ID, action)

	ctx.JSON(http.StatusOK, types.WatchlistEntryResponse{Entry: entry, Action: action})
}

func (h *Handler) DeleteWatchlistEntry(ctx *gin.Context, user auth.Identity) {
	entryID, err := utils.GetEntryID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	err = h.watchlist.Delete(ctx.Request.Context(), user.ID, entryID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Entry not found or unauthorized"})
		return
	}

	if err != nil {
		h.log.Error("Failed to delete watchlist entry", zap.Uint("user_id", user.ID), zap.Uint("entry_id", entryID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}

	h.notify(ctx.Request.Context(), user.ID, entryID, types.ActionDeleted)

	ctx.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

func validationBody(err error) gin.H {
	var fieldErr *store.FieldError
	if errors.As(err, &fieldErr) {
		return gin.H{"error": fieldErr.Error(), "field": fieldErr.Field}
	}

	return gin.H{"error": "Missing required fields"}
}

func (h *Handler) notify(ctx context.Context, userID, entryID uint, action string) {
	h.events.Publish(ctx, types.WatchlistEvent{
		Type:    "watchlist",
		Action:  action,
		EntryID: entryID,
		UserID:  userID,
	})
}
