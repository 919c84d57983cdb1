package amqp

import (
	"encoding/json"
	"time"
)

// MediaKind labels an incoming media job for routing to the right processor.
type MediaKind string

const (
	MediaPhoto             MediaKind = "photo"
	MediaVoice             MediaKind = "voice"
	MediaPaymentScreenshot MediaKind = "payment-screenshot"
)

// TextMessage is a raw text expense entry waiting to be parsed.
type TextMessage struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTextMessage creates an ingest message for a raw text entry.
func NewTextMessage(userID int64, text string) *TextMessage {
	return &TextMessage{
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (m *TextMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TextMessageFromJSON(data []byte) (*TextMessage, error) {
	var msg TextMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MediaJob points at a downloaded media file that still needs OCR or
// transcription before it can be parsed. Caption carries the user's own
// text, used as a fallback when extraction finds nothing.
type MediaJob struct {
	UserID    int64     `json:"user_id"`
	Kind      MediaKind `json:"kind"`
	FilePath  string    `json:"file_path"`
	Caption   string    `json:"caption,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMediaJob creates a job for a stored media file.
func NewMediaJob(userID int64, kind MediaKind, filePath, caption string) *MediaJob {
	return &MediaJob{
		UserID:    userID,
		Kind:      kind,
		FilePath:  filePath,
		Caption:   caption,
		Timestamp: time.Now(),
	}
}

func (m *MediaJob) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MediaJobFromJSON(data []byte) (*MediaJob, error) {
	var msg MediaJob
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Advisory is a budget warning produced after an expense was recorded.
type Advisory struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAdvisory creates a budget advisory reply.
func NewAdvisory(userID int64, text string) *Advisory {
	return &Advisory{
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (m *Advisory) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AdvisoryFromJSON(data []byte) (*Advisory, error) {
	var msg Advisory
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
