package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/utils"
	"go.uber.org/zap"
)

func (h *Handler) TopAnime(ctx *gin.Context) {
	page := utils.QueryInt(ctx, "page", 1)

	list, err := h.catalog.TopAnime(ctx.Request.Context(), page)

	if err != nil {
		h.log.Error("Failed to load anime list", zap.Int("page", page), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anime list"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":        list.Data,
		"pagination":  list.Pagination,
		"currentPage": page,
	})
}

func (h *Handler) SearchAnime(ctx *gin.Context) {
	genres, err := utils.ParseGenres(ctx.Query("genres"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := catalog.SearchParams{
		Query:  ctx.Query("q"),
		Genres: genres,
		Page:   utils.QueryInt(ctx, "page", 1),
		Limit:  utils.QueryInt(ctx, "limit", 0),
	}

	list, err := h.catalog.Search(ctx.Request.Context(), params)

	if err != nil {
		h.log.Error("Failed to search anime", zap.String("query", params.Query), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search anime"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":        list.Data,
		"pagination":  list.Pagination,
		"currentPage": params.Page,
	})
}

func (h *Handler) AnimeGenres(ctx *gin.Context) {
	genres, err := h.catalog.Genres(ctx.Request.Context())

	if err != nil {
		h.log.Error("Failed to load genres", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load genres"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": genres})
}

func (h *Handler) AnimeDetails(ctx *gin.Context, _ auth.Identity) {
	animeID, err := utils.GetAnimeID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Anime ID is required"})
		return
	}

	anime, err := h.catalog.AnimeByID(ctx.Request.Context(), animeID)

	if errors.Is(err, catalog.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Anime not found"})
		return
	}

	if err != nil {
		h.log.Error("Failed to load anime details", zap.Int("anime_id", animeID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load anime details"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"anime": anime})
}
