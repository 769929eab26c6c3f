package amqp

import (
	"encoding/json"
	"time"
)

// SyncRequestMessage asks a worker to run a spreadsheet sync for one window.
// It carries only the window; the worker resolves the spreadsheet and writes
// to the database itself.
type SyncRequestMessage struct {
	Year        string    `json:"year"`
	Month       string    `json:"month"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewSyncRequestMessage creates a sync request for the given window.
func NewSyncRequestMessage(year, month string) *SyncRequestMessage {
	return &SyncRequestMessage{
		Year:        year,
		Month:       month,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SyncRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncRequestMessageFromJSON creates a message from JSON bytes
func SyncRequestMessageFromJSON(data []byte) (*SyncRequestMessage, error) {
	var msg SyncRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
