package repository

import (
	"testing"
	"time"
)

func TestFeedCursor_RoundTrip(t *testing.T) {
	raw := formatFeedCursor(42, 100)

	c, err := parseFeedCursor(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ID != 42 || c.Val != 100 {
		t.Errorf("cursor = %+v, want id 42 val 100", c)
	}
}

func TestParseFeedCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "empty", cursor: ""},
		{name: "no separator", cursor: "42"},
		{name: "too many parts", cursor: "1:2:3"},
		{name: "non-numeric id", cursor: "abc:100"},
		{name: "non-numeric value", cursor: "42:xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFeedCursor(tt.cursor); err == nil {
				t.Errorf("parseFeedCursor(%q) should fail", tt.cursor)
			}
		})
	}
}

func TestCreatedCursorVal_KeepsSubSecondPrecision(t *testing.T) {
	// Rows inserted within the same second differ only in their
	// sub-second fraction. A cursor that truncated to whole seconds
	// would skip the ones between the truncated boundary and the real
	// boundary row, so the encoded value must reconstruct the timestamp
	// exactly at timestamptz (microsecond) resolution.
	boundary := time.Date(2026, 8, 31, 12, 0, 0, 589123000, time.UTC)

	raw := formatFeedCursor(42, createdCursorVal(boundary))
	c, err := parseFeedCursor(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := time.UnixMicro(c.Val).UTC(); !got.Equal(boundary) {
		t.Errorf("decoded time = %v, want %v", got, boundary)
	}

	earlier := boundary.Add(-time.Millisecond)
	if createdCursorVal(earlier) >= c.Val {
		t.Error("a row earlier in the same second must compare below the cursor")
	}
}

func TestParseFeedCursor_NegativeValues(t *testing.T) {
	// Timestamps and counters are non-negative, but the parser itself
	// accepts any int64 and leaves range rules to the query.
	c, err := parseFeedCursor("7:-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Val != -1 {
		t.Errorf("val = %d, want -1", c.Val)
	}
}
