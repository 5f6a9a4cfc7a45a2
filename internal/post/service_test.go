package post

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"backend-yogida/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func testAllowlist() *Allowlist {
	return NewAllowlist(
		[]string{"food", "healing", "mountain", "beach", "city", "night"},
		[]string{"Seoul", "Busan", "Jeju"},
	)
}

func samplePost() Post {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return Post{
		Title:       "Seoul food crawl",
		Destination: "Seoul",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 1),
		Tags:        []string{"food"},
		Schedules: [][]Stop{
			{{PlaceName: "Gwangjang Market", Star: 5, Category: "food"}},
			{{ID: "stop-keep", PlaceName: "N Seoul Tower", Star: 4, Category: "sight"}, {PlaceName: "Hongdae", Star: 4, Category: "night"}},
		},
		Distances:   [][]float64{{0}, {1.2, 3.4}},
		Cost:        250000,
		PeopleCount: 2,
		IsPublic:    true,
	}
}

var postCols = []string{"id", "author_id", "title", "destination", "start_date", "end_date", "tags",
	"schedules", "distances", "cost", "people_count", "is_public", "review_text", "like_count",
	"created_at", "updated_at"}

func addPostRow(rows *pgxmock.Rows, id, authorID string, p Post, likeCount int) *pgxmock.Rows {
	schedulesJSON, _ := json.Marshal(p.Schedules)
	distancesJSON, _ := json.Marshal(p.Distances)
	now := time.Now()
	return rows.AddRow(id, authorID, p.Title, p.Destination, p.StartDate, p.EndDate, p.Tags,
		schedulesJSON, distancesJSON, p.Cost, p.PeopleCount, p.IsPublic, p.ReviewText, likeCount,
		now, now)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestCreateAssignsIdentity(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "Seoul food crawl", "Seoul",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	svc := NewService(mock, testAllowlist())
	created, err := svc.Create(context.Background(), "user-1", samplePost())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected a generated post id")
	}
	if created.AuthorID != "user-1" {
		t.Fatalf("expected author user-1, got %s", created.AuthorID)
	}
	if created.LikeCount != 0 {
		t.Fatalf("expected like count to start at zero")
	}
	for i, sched := range created.Schedules {
		for j, stop := range sched {
			if stop.ID == "" {
				t.Fatalf("stop %d/%d missing id", i, j)
			}
		}
	}
	if created.Schedules[1][0].ID != "stop-keep" {
		t.Fatalf("expected submitted stop id to survive, got %s", created.Schedules[1][0].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsUnknownTag(t *testing.T) {
	svc := NewService(nil, testAllowlist())
	input := samplePost()
	input.Tags = []string{"food", "skydiving"}

	_, err := svc.Create(context.Background(), "user-1", input)
	wantKind(t, err, apperr.KindInvalidTag)
}

func TestCreateRejectsUnknownCity(t *testing.T) {
	svc := NewService(nil, testAllowlist())
	input := samplePost()
	input.Destination = "Atlantis"

	_, err := svc.Create(context.Background(), "user-1", input)
	wantKind(t, err, apperr.KindInvalidCity)
}

func TestCreateRejectsDayCountMismatch(t *testing.T) {
	svc := NewService(nil, testAllowlist())
	input := samplePost()
	input.EndDate = input.StartDate.AddDate(0, 0, 2)

	_, err := svc.Create(context.Background(), "user-1", input)
	wantKind(t, err, apperr.KindScheduleDateMismatch)
}

func TestCreateRejectsDistanceMismatch(t *testing.T) {
	svc := NewService(nil, testAllowlist())
	input := samplePost()
	input.Distances = [][]float64{{0, 9.9}, {1.2, 3.4}}

	_, err := svc.Create(context.Background(), "user-1", input)
	wantKind(t, err, apperr.KindScheduleDistanceMismatch)
}

func TestGetNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock, testAllowlist())
	_, err := svc.Get(context.Background(), "missing")
	wantKind(t, err, apperr.KindPostNotFound)
}

func TestGetDecodesItinerary(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "user-1", samplePost(), 3))

	svc := NewService(mock, testAllowlist())
	p, err := svc.Get(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Schedules) != 2 || len(p.Schedules[1]) != 2 {
		t.Fatalf("unexpected schedule shape: %v", p.Schedules)
	}
	if p.Schedules[0][0].PlaceName != "Gwangjang Market" {
		t.Fatalf("unexpected first stop: %+v", p.Schedules[0][0])
	}
	if p.LikeCount != 3 {
		t.Fatalf("expected like count 3, got %d", p.LikeCount)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "someone-else", samplePost(), 0))

	svc := NewService(mock, testAllowlist())
	_, err := svc.Update(context.Background(), "user-1", "post-1", samplePost())
	wantKind(t, err, apperr.KindAuthorMismatch)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "user-1", samplePost(), 7))

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("post-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	input := samplePost()
	input.Title = "Seoul food crawl v2"
	input.AuthorID = "spoofed"
	input.LikeCount = 99

	svc := NewService(mock, testAllowlist())
	updated, err := svc.Update(context.Background(), "user-1", "post-1", input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Seoul food crawl v2" {
		t.Fatalf("expected title to change")
	}
	if updated.AuthorID != "user-1" || updated.LikeCount != 7 || updated.ID != "post-1" {
		t.Fatalf("expected identity fields preserved, got %+v", updated)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateZeroRowsFails(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "user-1", samplePost(), 0))

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("post-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock, testAllowlist())
	_, err := svc.Update(context.Background(), "user-1", "post-1", samplePost())
	wantKind(t, err, apperr.KindPostUpdateFailed)
}

func TestDeleteChecksStoredAuthor(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "owner-1", samplePost(), 0))

	svc := NewService(mock, testAllowlist())
	err := svc.Delete(context.Background(), "intruder", "post-1")
	wantKind(t, err, apperr.KindAuthorMismatch)

	// No DELETE was expected; a stray one would fail here.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByOwner(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM posts WHERE id`).
		WithArgs("post-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "owner-1", samplePost(), 0))

	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs("post-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, testAllowlist())
	if err := svc.Delete(context.Background(), "owner-1", "post-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestByTagsValidatesFilter(t *testing.T) {
	svc := NewService(nil, testAllowlist())

	_, err := svc.ByTags(context.Background(), nil)
	wantKind(t, err, apperr.KindInvalidInput)

	_, err = svc.ByTags(context.Background(), []string{"food", "healing", "mountain", "beach", "city", "night"})
	wantKind(t, err, apperr.KindTagCountExceeded)

	_, err = svc.ByTags(context.Background(), []string{"food", "skydiving"})
	wantKind(t, err, apperr.KindInvalidTag)
}

func TestByTagsQueriesOverlap(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM posts WHERE tags`).
		WithArgs([]string{"food", "night"}).
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "user-1", samplePost(), 0))

	svc := NewService(mock, testAllowlist())
	posts, err := svc.ByTags(context.Background(), []string{"food", "night"})
	if err != nil {
		t.Fatalf("by tags: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "post-1" {
		t.Fatalf("unexpected result: %+v", posts)
	}
}

func TestSortedListings(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, testAllowlist())

	mock.ExpectQuery(`FROM posts ORDER BY updated_at DESC`).
		WillReturnRows(pgxmock.NewRows(postCols))
	if _, err := svc.Latest(context.Background()); err != nil {
		t.Fatalf("latest: %v", err)
	}

	mock.ExpectQuery(`FROM posts ORDER BY updated_at ASC`).
		WillReturnRows(pgxmock.NewRows(postCols))
	if _, err := svc.Oldest(context.Background()); err != nil {
		t.Fatalf("oldest: %v", err)
	}

	mock.ExpectQuery(`FROM posts ORDER BY like_count DESC`).
		WillReturnRows(pgxmock.NewRows(postCols))
	if _, err := svc.MostLiked(context.Background()); err != nil {
		t.Fatalf("most liked: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestByUserAndDestination(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, testAllowlist())

	mock.ExpectQuery(`FROM posts WHERE author_id`).
		WithArgs("user-1").
		WillReturnRows(addPostRow(pgxmock.NewRows(postCols), "post-1", "user-1", samplePost(), 0))
	posts, err := svc.ByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected one post, got %d", len(posts))
	}

	mock.ExpectQuery(`FROM posts WHERE destination`).
		WithArgs("Seoul").
		WillReturnRows(pgxmock.NewRows(postCols))
	if _, err := svc.ByDestination(context.Background(), "Seoul"); err != nil {
		t.Fatalf("by destination: %v", err)
	}
}
