package storage

import "time"

// PollResult is one poll's resolved outcome for an adopted session.
type PollResult struct {
	SessionID string            `dynamodbav:"PK" json:"sessionId"`
	PollKey   string            `dynamodbav:"SK" json:"pollKey"`
	Mask      uint32            `dynamodbav:"Mask" json:"mask"`
	Payloads  map[string]string `dynamodbav:"Payloads" json:"payloads"`
	GameMode  string            `dynamodbav:"GameMode,omitempty" json:"gameMode,omitempty"`
	CreatedAt time.Time         `dynamodbav:"CreatedAt" json:"createdAt"`
}

// Snapshot is the last full-state message received for a session together
// with the selection results decoded from it.
type Snapshot struct {
	SessionID  string            `dynamodbav:"PK" json:"sessionId"`
	Message    []byte            `dynamodbav:"Message" json:"message"`
	Selections map[string]string `dynamodbav:"Selections" json:"selections"`
	UpdatedAt  time.Time         `dynamodbav:"UpdatedAt" json:"updatedAt"`
}
