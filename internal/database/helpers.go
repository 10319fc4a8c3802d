package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/thenoetrevino/kanban/internal/models"
)

// notFound converts sql.ErrNoRows into a domain not-found error.
// Other errors are returned unchanged.
func notFound(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFound(message)
	}
	return err
}

// unixToTime converts stored unix seconds to time.Time.
// Returns zero time for 0.
func unixToTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// timeToUnix converts time.Time to unix seconds, 0 for the zero time.
func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
