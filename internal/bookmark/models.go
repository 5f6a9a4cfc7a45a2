package bookmark

import "time"

// Bookmark is a user's saved reference to one stop inside one post. It holds
// references only; the stop payload is resolved from the post on read.
type Bookmark struct {
	ID               string    `json:"id"`
	AuthorID         string    `json:"author_id"`
	PostID           string    `json:"post_id"`
	SingleScheduleID string    `json:"single_schedule_id"`
	CreatedAt        time.Time `json:"created_at"`
}
