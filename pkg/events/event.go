package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields for concrete events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	DocumentIngestedType     = "DOCUMENT_INGESTED"
	DocumentIngestFailedType = "DOCUMENT_INGEST_FAILED"
)

// NewDocumentIngested marks a successful background ingestion.
func NewDocumentIngested(conversationId int64, fileName string, chunkCount int) Event {
	return BaseEvent{
		Type: DocumentIngestedType,
		Data: map[string]interface{}{
			"conversation_id": conversationId,
			"file_name":       fileName,
			"chunk_count":     chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngestFailed marks a failed background ingestion.
func NewDocumentIngestFailed(conversationId int64, fileName string, reason string) Event {
	return BaseEvent{
		Type: DocumentIngestFailedType,
		Data: map[string]interface{}{
			"conversation_id": conversationId,
			"file_name":       fileName,
			"reason":          reason,
		},
		OccurredAt: time.Now(),
	}
}
