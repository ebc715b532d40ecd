// Package amqp connects the app to RabbitMQ so spreadsheet exports can run
// out of process: the server publishes export requests, the export worker
// consumes them.
package amqp

import (
	"encoding/json"
	"time"
)

// ExportRequestMessage asks the export worker to snapshot the ledger and
// rewrite the spreadsheet.
type ExportRequestMessage struct {
	RequestedAt time.Time `json:"requested_at"`
	Reason      string    `json:"reason"`
}

// NewExportRequestMessage creates a request stamped with the current time.
func NewExportRequestMessage(reason string) *ExportRequestMessage {
	return &ExportRequestMessage{
		RequestedAt: time.Now().UTC(),
		Reason:      reason,
	}
}

// ToJSON serializes the message for publishing.
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON deserializes a consumed message body.
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
