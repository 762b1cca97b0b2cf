package dto

import (
	"time"

	"github.com/google/uuid"
)

// Match types tagged on search results.
const (
	MatchTypeKeyword  = "keyword"
	MatchTypeSemantic = "semantic"
)

type SearchResultResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	TitleEmoji *string    `json:"title_emoji"`
	Preview    string     `json:"preview"`
	UpdatedAt  *time.Time `json:"updated_at"`
	MatchType  string     `json:"match_type"` // "keyword" | "semantic"
}
