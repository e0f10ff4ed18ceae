// Package dto defines data transfer objects for the screening HTTP API.
package dto

// RankingItem is one ranked instrument.
type RankingItem struct {
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// JudgmentItem is the outcome of the buy rule.
type JudgmentItem struct {
	Buy    bool   `json:"buy"`
	Reason string `json:"reason"`
}

// CandidateItem is a ranked instrument with its judgment.
type CandidateItem struct {
	RankingItem
	Judgment JudgmentItem `json:"judgment"`
}

// JudgmentResponse is returned for a single-symbol judgment.
type JudgmentResponse struct {
	Code string `json:"code"`
	JudgmentItem
}
