package models

type WatchlistStatus string

const (
	StatusWatching    WatchlistStatus = "watching"
	StatusCompleted   WatchlistStatus = "completed"
	StatusOnHold      WatchlistStatus = "on_hold"
	StatusDropped     WatchlistStatus = "dropped"
	StatusPlanToWatch WatchlistStatus = "plan_to_watch"
)

func (s WatchlistStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch:
		return true
	}
	return false
}

// WatchlistEntry is one tracked catalog item. Title and ImageURL are a
// snapshot taken when the entry is created.
type WatchlistEntry struct {
	BaseModel

	UserID        uint            `gorm:"not null;uniqueIndex:idx_watchlist_user_mal" json:"userId"`
	MalID         int             `gorm:"not null;uniqueIndex:idx_watchlist_user_mal" json:"malId"`
	Title         string          `gorm:"not null" json:"title"`
	ImageURL      *string         `json:"imageUrl"`
	Status        WatchlistStatus `gorm:"size:32;not null;default:plan_to_watch" json:"status"`
	Score         *float64        `json:"score"`
	Progress      int             `gorm:"not null;default:0" json:"progress"`
	TotalEpisodes *int            `json:"totalEpisodes"`
	Rewatches     int             `gorm:"not null;default:0" json:"rewatches"`
	StartDate     *string         `gorm:"size:32" json:"startDate"`
	FinishDate    *string         `gorm:"size:32" json:"finishDate"`
	Notes         *string         `json:"notes"`
}
