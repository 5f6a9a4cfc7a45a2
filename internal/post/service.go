package post

import (
	"context"
	"encoding/json"
	"errors"

	"backend-yogida/internal/apperr"
	"backend-yogida/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.Querier
	allow *Allowlist
}

func NewService(db db.Querier, allow *Allowlist) *Service {
	return &Service{db: db, allow: allow}
}

const postColumns = `id, author_id, title, destination, start_date, end_date, tags,
	       schedules, distances, cost, people_count, is_public, review_text, like_count,
	       created_at, updated_at`

// Create validates the submitted itinerary and persists it. Validators run in
// a fixed order and the first failure wins; like_count always starts at zero.
func (s *Service) Create(ctx context.Context, userID string, input Post) (Post, error) {
	if err := s.validate(&input); err != nil {
		return Post{}, err
	}

	input.ID = uuid.NewString()
	input.AuthorID = userID
	input.LikeCount = 0
	assignStopIDs(input.Schedules)

	schedulesJSON, distancesJSON, err := encodeItinerary(&input)
	if err != nil {
		return Post{}, apperr.InvalidInput("schedules or distances not encodable")
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, title, destination, start_date, end_date, tags,
		                   schedules, distances, cost, people_count, is_public, review_text, like_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,0)
		RETURNING created_at, updated_at
	`, input.ID, input.AuthorID, input.Title, input.Destination, input.StartDate, input.EndDate,
		input.Tags, schedulesJSON, distancesJSON, input.Cost, input.PeopleCount, input.IsPublic, input.ReviewText)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Post{}, apperr.Persistence(err)
	}
	return input, nil
}

// Update replaces all itinerary fields wholesale after re-running the full
// validator pipeline. Only the author may update, and an update that modifies
// zero rows is surfaced as a failure rather than silently ignored.
func (s *Service) Update(ctx context.Context, userID, postID string, input Post) (Post, error) {
	existing, err := s.Get(ctx, postID)
	if err != nil {
		return Post{}, err
	}
	if existing.AuthorID != userID {
		return Post{}, apperr.AuthorMismatch("post")
	}

	if err := s.validate(&input); err != nil {
		return Post{}, err
	}
	assignStopIDs(input.Schedules)

	schedulesJSON, distancesJSON, err := encodeItinerary(&input)
	if err != nil {
		return Post{}, apperr.InvalidInput("schedules or distances not encodable")
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE posts
		SET title=$2, destination=$3, start_date=$4, end_date=$5, tags=$6,
		    schedules=$7, distances=$8, cost=$9, people_count=$10, is_public=$11,
		    review_text=$12, updated_at=now()
		WHERE id=$1
	`, postID, input.Title, input.Destination, input.StartDate, input.EndDate, input.Tags,
		schedulesJSON, distancesJSON, input.Cost, input.PeopleCount, input.IsPublic, input.ReviewText)
	if err != nil {
		return Post{}, apperr.Persistence(err)
	}
	if tag.RowsAffected() == 0 {
		return Post{}, apperr.PostUpdateFailed()
	}

	input.ID = existing.ID
	input.AuthorID = existing.AuthorID
	input.LikeCount = existing.LikeCount
	input.CreatedAt = existing.CreatedAt
	return input, nil
}

// Delete removes a post. Ownership is checked against the stored author, not
// the caller-provided id.
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	existing, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return apperr.AuthorMismatch("post")
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, postID); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, apperr.PostNotFound()
	}
	if err != nil {
		return Post{}, apperr.Persistence(err)
	}
	return p, nil
}

func (s *Service) All(ctx context.Context) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts WHERE author_id=$1 ORDER BY created_at DESC`, userID)
}

// ByTags filters posts carrying any of the requested tags. The filter itself
// is validated: at most MaxFilterTags, each from the allow-list.
func (s *Service) ByTags(ctx context.Context, tags []string) ([]Post, error) {
	if len(tags) == 0 {
		return nil, apperr.InvalidInput("at least one tag is required")
	}
	if len(tags) > MaxFilterTags {
		return nil, apperr.TagCountExceeded(MaxFilterTags)
	}
	if err := s.allow.ValidateTags(tags); err != nil {
		return nil, err
	}
	return s.list(ctx, `SELECT `+postColumns+` FROM posts WHERE tags && $1 ORDER BY created_at DESC`, tags)
}

func (s *Service) ByDestination(ctx context.Context, city string) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts WHERE destination=$1 ORDER BY created_at DESC`, city)
}

func (s *Service) Latest(ctx context.Context) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY updated_at DESC`)
}

func (s *Service) Oldest(ctx context.Context) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY updated_at ASC`)
}

func (s *Service) MostLiked(ctx context.Context) ([]Post, error) {
	return s.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY like_count DESC`)
}

// validate runs the fixed fail-fast pipeline: tags, destination, then shape.
func (s *Service) validate(input *Post) error {
	if err := s.allow.ValidateTags(input.Tags); err != nil {
		return err
	}
	if err := s.allow.ValidateCity(input.Destination); err != nil {
		return err
	}
	return validateShape(input.Schedules, input.Distances, input.StartDate, input.EndDate)
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(err)
	}
	return posts, nil
}

// assignStopIDs gives every stop without an id a fresh one. Stops that arrive
// with an id keep it, so identity survives a wholesale schedule replacement.
func assignStopIDs(schedules [][]Stop) {
	for i := range schedules {
		for j := range schedules[i] {
			if schedules[i][j].ID == "" {
				schedules[i][j].ID = uuid.NewString()
			}
		}
	}
}

func encodeItinerary(p *Post) ([]byte, []byte, error) {
	schedulesJSON, err := json.Marshal(p.Schedules)
	if err != nil {
		return nil, nil, err
	}
	distancesJSON, err := json.Marshal(p.Distances)
	if err != nil {
		return nil, nil, err
	}
	return schedulesJSON, distancesJSON, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (Post, error) {
	var p Post
	var schedulesJSON, distancesJSON []byte
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Destination, &p.StartDate, &p.EndDate, &p.Tags,
		&schedulesJSON, &distancesJSON, &p.Cost, &p.PeopleCount, &p.IsPublic, &p.ReviewText, &p.LikeCount,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	if err := json.Unmarshal(schedulesJSON, &p.Schedules); err != nil {
		return Post{}, err
	}
	if err := json.Unmarshal(distancesJSON, &p.Distances); err != nil {
		return Post{}, err
	}
	return p, nil
}
