package catalog

type Image struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

type Images struct {
	JPG  Image `json:"jpg"`
	WebP Image `json:"webp"`
}

type Trailer struct {
	YoutubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

type Title struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

type AiredDate struct {
	Day   *int `json:"day"`
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

type Aired struct {
	From *string `json:"from"`
	To   *string `json:"to"`
	Prop struct {
		From   AiredDate `json:"from"`
		To     AiredDate `json:"to"`
		String string    `json:"string"`
	} `json:"prop"`
}

type Broadcast struct {
	Day      *string `json:"day"`
	Time     *string `json:"time"`
	Timezone *string `json:"timezone"`
	String   *string `json:"string"`
}

// Entity is the shape Jikan uses for studios, producers, licensors and genres.
type Entity struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type Anime struct {
	MalID          int       `json:"mal_id"`
	URL            string    `json:"url"`
	Images         Images    `json:"images"`
	Trailer        Trailer   `json:"trailer"`
	Titles         []Title   `json:"titles,omitempty"`
	Title          string    `json:"title"`
	TitleEnglish   *string   `json:"title_english"`
	TitleJapanese  *string   `json:"title_japanese"`
	TitleSynonyms  []string  `json:"title_synonyms"`
	Type           string    `json:"type"`
	Source         string    `json:"source"`
	Episodes       *int      `json:"episodes"`
	Status         string    `json:"status"`
	Airing         bool      `json:"airing"`
	Aired          Aired     `json:"aired"`
	Duration       string    `json:"duration"`
	Rating         string    `json:"rating"`
	Score          *float64  `json:"score"`
	ScoredBy       *int      `json:"scored_by"`
	Rank           *int      `json:"rank"`
	Popularity     int       `json:"popularity"`
	Members        int       `json:"members"`
	Favorites      int       `json:"favorites"`
	Synopsis       *string   `json:"synopsis"`
	Background     *string   `json:"background"`
	Season         *string   `json:"season"`
	Year           *int      `json:"year"`
	Broadcast      Broadcast `json:"broadcast"`
	Producers      []Entity  `json:"producers"`
	Licensors      []Entity  `json:"licensors"`
	Studios        []Entity  `json:"studios"`
	Genres         []Entity  `json:"genres"`
	ExplicitGenres []Entity  `json:"explicit_genres"`
	Themes         []Entity  `json:"themes"`
	Demographics   []Entity  `json:"demographics"`
}

type Relation struct {
	Relation string   `json:"relation"`
	Entry    []Entity `json:"entry"`
}

type Theme struct {
	Openings []string `json:"openings"`
	Endings  []string `json:"endings"`
}

type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AnimeDetails is the payload of /anime/{id}/full.
type AnimeDetails struct {
	Anime
	Relations []Relation `json:"relations"`
	Theme     Theme      `json:"theme"`
	External  []Link     `json:"external"`
	Streaming []Link     `json:"streaming"`
}

type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

type AnimeList struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Genre struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}
