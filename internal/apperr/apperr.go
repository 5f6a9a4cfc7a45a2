package apperr

import (
	"fmt"
	"net/http"
)

// Kind identifies a failure class that callers and the HTTP boundary can
// branch on without parsing messages.
type Kind string

const (
	KindInvalidTag               Kind = "invalid_tag"
	KindInvalidCity              Kind = "invalid_city"
	KindTagCountExceeded         Kind = "tag_count_exceeded"
	KindScheduleDateMismatch     Kind = "schedule_date_mismatch"
	KindScheduleDistanceMismatch Kind = "schedule_distance_mismatch"
	KindPostNotFound             Kind = "post_not_found"
	KindBookmarkNotFound         Kind = "bookmark_not_found"
	KindAuthorMismatch           Kind = "author_mismatch"
	KindDuplicateBookmark        Kind = "duplicate_bookmark"
	KindInvalidInput             Kind = "invalid_input"
	KindPostUpdateFailed         Kind = "post_update_failed"
	KindPersistence              Kind = "persistence_error"
)

// Error is a typed failure: kind, human-readable message and the HTTP status
// the boundary should answer with. A wrapped cause is kept for diagnostics and
// is never part of the client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newf(kind Kind, status int, format string, args ...any) *Error {
	return &Error{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}

func InvalidTag(tag string) *Error {
	return newf(KindInvalidTag, http.StatusBadRequest, "tag %q is not in the allowed tag list", tag)
}

func InvalidCity(city string) *Error {
	return newf(KindInvalidCity, http.StatusBadRequest, "destination %q is not in the allowed city list", city)
}

func TagCountExceeded(limit int) *Error {
	return newf(KindTagCountExceeded, http.StatusBadRequest, "at most %d tags can be selected", limit)
}

func ScheduleDateMismatch(expectedDays, gotDays int) *Error {
	return newf(KindScheduleDateMismatch, http.StatusBadRequest,
		"schedule covers %d days but the date range spans %d", gotDays, expectedDays)
}

func ScheduleDistanceMismatch(day int) *Error {
	return newf(KindScheduleDistanceMismatch, http.StatusBadRequest,
		"distance count does not match place count on day %d", day)
}

func PostNotFound() *Error {
	return newf(KindPostNotFound, http.StatusNotFound, "post not found")
}

func BookmarkNotFound() *Error {
	return newf(KindBookmarkNotFound, http.StatusNotFound, "bookmark not found")
}

// ScheduleNotFound reports a bookmark target that does not exist inside the
// referenced post's current schedule.
func ScheduleNotFound() *Error {
	return newf(KindBookmarkNotFound, http.StatusNotFound, "schedule not found in this post")
}

func AuthorMismatch(resource string) *Error {
	return newf(KindAuthorMismatch, http.StatusForbidden, "caller is not the owner of this %s", resource)
}

func DuplicateBookmark() *Error {
	return newf(KindDuplicateBookmark, http.StatusConflict, "bookmark already exists")
}

func InvalidInput(message string) *Error {
	return newf(KindInvalidInput, http.StatusBadRequest, "%s", message)
}

func PostUpdateFailed() *Error {
	return newf(KindPostUpdateFailed, http.StatusNotFound, "post update modified no rows")
}

// Persistence wraps a raw storage failure. The cause stays reachable through
// errors.Unwrap but is never exposed to the caller.
func Persistence(cause error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		cause:   cause,
	}
}
