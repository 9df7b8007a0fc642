package amqp

import (
	"encoding/json"
	"time"
)

// Operations carried on the export queue. Sync messages tell the worker to
// re-read the transaction from the database and push it to the sheet; delete
// messages carry only the id of a row that no longer exists.
const (
	OpSync   = "sync"
	OpDelete = "delete"
)

// TransactionSyncMessage is the lightweight envelope published after every
// ledger mutation. It carries the id and version only; the worker fetches
// the current row from the database so stale messages are harmless.
type TransactionSyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewDeleteMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		msg.Op = OpSync
	}
	return &msg, nil
}
