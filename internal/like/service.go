package like

import (
	"context"
	"log"

	"backend-yogida/internal/apperr"
	"backend-yogida/internal/db"

	"github.com/redis/go-redis/v9"
)

// Service maintains per-post like counts. Postgres is the source of truth;
// when a redis client is configured the current count is mirrored there so
// the hot read path can skip the database.
type Service struct {
	db  db.Querier
	rdb *redis.Client
}

func NewService(db db.Querier, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

// Like records a like for (user, post). Liking twice is a no-op; the count is
// only bumped when a new row was actually inserted.
func (s *Service) Like(ctx context.Context, userID, postID string) (int, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, postID, userID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}

	if tag.RowsAffected() == 0 {
		return s.Count(ctx, postID)
	}

	var count int
	err = s.db.QueryRow(ctx, `
		UPDATE posts SET like_count = like_count + 1
		WHERE id=$1
		RETURNING like_count
	`, postID).Scan(&count)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	s.cacheCount(ctx, postID, count)
	return count, nil
}

// Unlike removes a like if present. The counter never drops below zero.
func (s *Service) Unlike(ctx context.Context, userID, postID string) (int, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}

	if tag.RowsAffected() == 0 {
		return s.Count(ctx, postID)
	}

	var count int
	err = s.db.QueryRow(ctx, `
		UPDATE posts SET like_count = GREATEST(like_count - 1, 0)
		WHERE id=$1
		RETURNING like_count
	`, postID).Scan(&count)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	s.cacheCount(ctx, postID, count)
	return count, nil
}

// Count reads the like count, preferring the redis mirror when it holds a
// value and falling back to postgres otherwise.
func (s *Service) Count(ctx context.Context, postID string) (int, error) {
	if s.rdb != nil {
		if count, err := s.rdb.Get(ctx, likeKey(postID)).Int(); err == nil {
			return count, nil
		}
	}

	var count int
	err := s.db.QueryRow(ctx, `SELECT like_count FROM posts WHERE id=$1`, postID).Scan(&count)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	s.cacheCount(ctx, postID, count)
	return count, nil
}

func (s *Service) ensurePostExists(ctx context.Context, postID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`, postID).Scan(&exists)
	if err != nil {
		return apperr.Persistence(err)
	}
	if !exists {
		return apperr.PostNotFound()
	}
	return nil
}

func (s *Service) cacheCount(ctx context.Context, postID string, count int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, likeKey(postID), count, 0).Err(); err != nil {
		log.Printf("redis like cache error: %v", err)
	}
}

func likeKey(postID string) string {
	return "likes:" + postID + ":count"
}
