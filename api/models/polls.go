package models

import "github.com/tung362/votecatalog/vote"

type PollResponse struct {
	Key       string         `json:"key"`
	Mask      uint32         `json:"mask"`
	Bits      []int          `json:"bits"`
	ExtraData map[string]any `json:"extraData"`
}

type VoteBitResponse struct {
	Key   string `json:"key"`
	Bit   int    `json:"bit"`
	Voted bool   `json:"voted"`
}

func TransformPoll(p vote.PollView) PollResponse {
	return PollResponse{
		Key:       p.Key,
		Mask:      uint32(p.Mask),
		Bits:      p.Mask.Indices(),
		ExtraData: p.ExtraData,
	}
}
