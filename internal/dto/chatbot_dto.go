package dto

type AnswerRequest struct {
	ConversationId int64  `json:"conversation_id" validate:"required"`
	Query          string `json:"query" validate:"required"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

type IngestDocumentRequest struct {
	ConversationId int64  `json:"conversation_id" validate:"required"`
	FileName       string `json:"file_name" validate:"required"`
	FileBytes      []byte `json:"file_bytes" validate:"required"`
}

type IngestDocumentResponse struct {
	Status string `json:"status"`
}

// PublishIngestDocumentMessage is the payload queued for the background
// ingestion worker. FileBytes round-trips as base64 through encoding/json.
type PublishIngestDocumentMessage struct {
	ConversationId int64  `json:"conversation_id"`
	FileName       string `json:"file_name"`
	FileBytes      []byte `json:"file_bytes"`
}
