package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the cleanup stream
const (
	EventImageDeleted = "image_deleted"
)

// Stream names
const (
	StreamCleanup = "stream:cleanup"
)

// Consumer group name for cleanup workers
const (
	ConsumerGroupCleanup = "cleanup_workers"
)

// CleanupEvent represents an event published to the cleanup stream.
// Image deletion against external storage is decoupled from the database
// transaction that stopped referencing the image: a failed delete leaves
// an orphaned blob, never an inconsistent row.
type CleanupEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Image cleanup event
	ImageURL  string `json:"image_url,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
}

// NewImageDeletedEvent creates an event for an image URL that is no
// longer referenced by any product and should be removed from storage.
func NewImageDeletedEvent(imageURL string, productID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventImageDeleted,
		Timestamp: time.Now().Unix(),
		ImageURL:  imageURL,
		ProductID: productID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to
// JSON in a "data" field.
func (e CleanupEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseCleanupEvent parses a CleanupEvent from Redis stream message values.
func ParseCleanupEvent(values map[string]interface{}) (CleanupEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return CleanupEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event CleanupEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return CleanupEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
