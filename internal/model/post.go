package model

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Excerpt      string    `json:"excerpt"`
	Status       string    `json:"status"`
	WritingPhase string    `json:"writing_phase,omitempty"`
	WordCount    int       `json:"word_count"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PostQuery struct {
	AuthorID     string
	Search       string
	Status       string
	WritingPhase string
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

type PostListData struct {
	Items []Post `json:"items"`
}

type PostCounts struct {
	Total     int `json:"total_posts"`
	Published int `json:"published_posts"`
	Drafts    int `json:"draft_posts"`
}

func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}
