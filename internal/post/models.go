package post

import "time"

// Stop is one place entry inside a day of a post's schedule. Stops are
// embedded in the post document but carry their own id so bookmarks can
// reference them independently of their position.
type Stop struct {
	ID            string `json:"id"`
	PlaceName     string `json:"place_name"`
	PlaceImageSrc string `json:"place_image_src"`
	Star          int    `json:"star"`
	Category      string `json:"category"`
}

// Post is a user-authored trip itinerary. Schedules is the nested day-by-day
// structure; Distances mirrors it with one entry per stop per day.
type Post struct {
	ID          string      `json:"id"`
	AuthorID    string      `json:"author_id"`
	Title       string      `json:"title"`
	Destination string      `json:"destination"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Tags        []string    `json:"tags"`
	Schedules   [][]Stop    `json:"schedules"`
	Distances   [][]float64 `json:"distances"`
	Cost        float64     `json:"cost"`
	PeopleCount int         `json:"people_count"`
	IsPublic    bool        `json:"is_public"`
	ReviewText  string      `json:"review_text,omitempty"`
	LikeCount   int         `json:"like_count"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
