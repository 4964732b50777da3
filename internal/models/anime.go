package models

import "gorm.io/datatypes"

type AnimeImage struct {
	ImageURL      string `json:"image_url,omitempty"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

type AnimeImages struct {
	JPG  *AnimeImage `json:"jpg,omitempty"`
	WebP *AnimeImage `json:"webp,omitempty"`
}

// Anime is the legacy catalog cache table. It is kept in the schema only;
// watchlist entries carry their own title/image snapshot.
type Anime struct {
	ID       uint                            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string                          `gorm:"not null" json:"title"`
	Images   datatypes.JSONType[AnimeImages] `json:"images"`
	Episodes int                             `gorm:"default:0" json:"episodes"`
	Status   WatchlistStatus                 `gorm:"size:32;not null" json:"status"`
	Score    *int                            `json:"score"`
}

func (Anime) TableName() string {
	return "anime"
}
