package dto

// TelegramUpdate mirrors the subset of the Bot API update object the
// webhook cares about: plain text messages and document uploads.
type TelegramUpdate struct {
	UpdateId int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	MessageId int64             `json:"message_id"`
	Chat      TelegramChat      `json:"chat"`
	From      *TelegramUser     `json:"from"`
	Text      string            `json:"text"`
	Document  *TelegramDocument `json:"document"`
}

type TelegramChat struct {
	Id   int64  `json:"id"`
	Type string `json:"type"`
}

type TelegramUser struct {
	Id        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type TelegramDocument struct {
	FileId   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}
