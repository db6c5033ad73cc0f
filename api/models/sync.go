package models

import "github.com/tung362/votecatalog/storage"

type RuleBookResponse struct {
	SessionID  string            `json:"sessionId"`
	Selections map[string]string `json:"selections"`
}

type AdoptResponse struct {
	SessionID string                `json:"sessionId"`
	GameMode  string                `json:"gameMode,omitempty"`
	Results   []*storage.PollResult `json:"results"`
}

type VotesResponse struct {
	Voter string            `json:"voter"`
	Votes map[string]string `json:"votes"`
}
