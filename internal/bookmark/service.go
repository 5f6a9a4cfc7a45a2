package bookmark

import (
	"context"
	"encoding/json"
	"errors"

	"backend-yogida/internal/apperr"
	"backend-yogida/internal/db"
	"backend-yogida/internal/post"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// ConfirmStop checks that a stop currently exists inside the referenced
// post's schedule and returns its id. This is the strict gate used at
// bookmark creation; a missing post and a missing stop are distinct failures.
func (s *Service) ConfirmStop(ctx context.Context, postID, stopID string) (string, error) {
	row := s.db.QueryRow(ctx, `SELECT schedules FROM posts WHERE id=$1`, postID)

	var schedulesJSON []byte
	if err := row.Scan(&schedulesJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.PostNotFound()
		}
		return "", apperr.Persistence(err)
	}

	var schedules [][]post.Stop
	if err := json.Unmarshal(schedulesJSON, &schedules); err != nil {
		return "", apperr.Persistence(err)
	}

	if _, ok := findStop(schedules, stopID); !ok {
		return "", apperr.ScheduleNotFound()
	}
	return stopID, nil
}

// Create persists a bookmark for (user, stop, post). The stop must exist in
// the post right now, and an identical triple may only be bookmarked once.
func (s *Service) Create(ctx context.Context, userID, stopID, postID string) (Bookmark, error) {
	if stopID == "" || postID == "" {
		return Bookmark{}, apperr.InvalidInput("post_id and single_schedule_id are required")
	}

	if _, err := s.ConfirmStop(ctx, postID, stopID); err != nil {
		return Bookmark{}, err
	}

	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks
			WHERE author_id=$1 AND single_schedule_id=$2 AND post_id=$3
		)
	`, userID, stopID, postID).Scan(&exists)
	if err != nil {
		return Bookmark{}, apperr.Persistence(err)
	}
	if exists {
		return Bookmark{}, apperr.DuplicateBookmark()
	}

	b := Bookmark{
		ID:               uuid.NewString(),
		AuthorID:         userID,
		PostID:           postID,
		SingleScheduleID: stopID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO bookmarks (id, author_id, post_id, single_schedule_id)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, b.ID, b.AuthorID, b.PostID, b.SingleScheduleID)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Bookmark{}, apperr.Persistence(err)
	}
	return b, nil
}

// DeleteMany removes a batch of the caller's bookmarks. All targets are
// checked up front: every id must resolve to an existing bookmark and every
// bookmark must belong to the caller (checked in creation order, so the first
// foreign bookmark names the abort). Only then does a single conditional
// delete run, which keeps the batch all-or-nothing.
func (s *Service) DeleteMany(ctx context.Context, userID string, bookmarkIDs []string) (int, error) {
	if len(bookmarkIDs) == 0 {
		return 0, apperr.InvalidInput("bookmark ids are required")
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, author_id FROM bookmarks
		WHERE id = ANY($1)
		ORDER BY created_at
	`, bookmarkIDs)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	defer rows.Close()

	type owned struct {
		id       string
		authorID string
	}
	var found []owned
	for rows.Next() {
		var o owned
		if err := rows.Scan(&o.id, &o.authorID); err != nil {
			return 0, apperr.Persistence(err)
		}
		found = append(found, o)
	}
	if err := rows.Err(); err != nil {
		return 0, apperr.Persistence(err)
	}

	if len(found) != len(bookmarkIDs) {
		return 0, apperr.BookmarkNotFound()
	}
	for _, o := range found {
		if o.authorID != userID {
			return 0, apperr.AuthorMismatch("bookmark")
		}
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM bookmarks
		WHERE id = ANY($1) AND author_id = $2
	`, bookmarkIDs, userID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	return int(tag.RowsAffected()), nil
}

// ForUser resolves all of a user's bookmarks back to their live stop
// payloads. Resolution is best-effort against current state: bookmarks whose
// post is gone or whose stop was edited away are skipped, not errors.
func (s *Service) ForUser(ctx context.Context, userID string) ([]post.Stop, error) {
	rows, err := s.db.Query(ctx, `
		SELECT b.single_schedule_id, p.schedules
		FROM bookmarks b
		LEFT JOIN posts p ON p.id = b.post_id
		WHERE b.author_id = $1
		ORDER BY b.created_at
	`, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	var stops []post.Stop
	for rows.Next() {
		var stopID string
		var schedulesJSON []byte
		if err := rows.Scan(&stopID, &schedulesJSON); err != nil {
			return nil, apperr.Persistence(err)
		}
		if schedulesJSON == nil {
			continue
		}

		var schedules [][]post.Stop
		if err := json.Unmarshal(schedulesJSON, &schedules); err != nil {
			continue
		}
		if stop, ok := findStop(schedules, stopID); ok {
			stops = append(stops, stop)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return stops, nil
}

// findStop flattens the 2-D schedule and looks a stop up by id.
func findStop(schedules [][]post.Stop, stopID string) (post.Stop, bool) {
	for _, day := range schedules {
		for _, stop := range day {
			if stop.ID == stopID {
				return stop, true
			}
		}
	}
	return post.Stop{}, false
}
