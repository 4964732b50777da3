package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func GetEntryID(ctx *gin.Context) (uint, error) {
	entryIDStr := ctx.Param("id")

	if entryIDStr == "" {
		return 0, errors.New("Entry ID not found")
	}

	entryID, err := strconv.ParseUint(entryIDStr, 10, 32)

	if err != nil || entryID == 0 {
		return 0, errors.New("Invalid entry ID")
	}

	return uint(entryID), nil
}

func GetAnimeID(ctx *gin.Context) (int, error) {
	animeID, err := strconv.Atoi(ctx.Param("id"))

	if err != nil || animeID <= 0 {
		return 0, errors.New("Invalid anime ID")
	}

	return animeID, nil
}

// QueryInt returns the positive integer query parameter key, or fallback when
// it is absent or malformed.
func QueryInt(ctx *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(ctx.Query(key))

	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

// ParseGenres splits a comma separated genre id list, skipping blanks.
func ParseGenres(input string) ([]int, error) {
	var genres []int

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)

		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)

		if err != nil || id <= 0 {
			return nil, errors.New("Invalid genre ID: " + part)
		}

		genres = append(genres, id)
	}

	return genres, nil
}
