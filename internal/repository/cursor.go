package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Feed pages are keyed by a compound cursor "id:value" where value is the
// ordering column at the last row of the previous page: the like count
// for popularity order, the creation time for recency order. The id acts
// as a stable tiebreaker so repeated pagination yields each row exactly
// once.
type feedCursor struct {
	ID  int64
	Val int64
}

func parseFeedCursor(cursor string) (feedCursor, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return feedCursor{}, fmt.Errorf("invalid cursor format")
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return feedCursor{}, fmt.Errorf("invalid cursor id: %w", err)
	}
	val, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return feedCursor{}, fmt.Errorf("invalid cursor value: %w", err)
	}
	return feedCursor{ID: id, Val: val}, nil
}

func formatFeedCursor(id, val int64) string {
	return fmt.Sprintf("%d:%d", id, val)
}

// createdCursorVal encodes a creation time for the recency cursor.
// Microseconds match timestamptz resolution, so the boundary row's
// timestamp survives the round trip and no row sharing its second is
// skipped or repeated.
func createdCursorVal(t time.Time) int64 {
	return t.UnixMicro()
}
