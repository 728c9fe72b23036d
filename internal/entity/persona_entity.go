package entity

import (
	"time"
)

// Persona is the last-known character a conversation asked the bot to play.
// One row per conversation, last-write-wins.
type Persona struct {
	ConversationId int64
	Persona        string
	UpdatedAt      time.Time
}
