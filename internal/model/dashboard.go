package model

type DashboardStats struct {
	TotalPosts     int    `json:"total_posts"`
	PublishedPosts int    `json:"published_posts"`
	DraftPosts     int    `json:"draft_posts"`
	Generations    string `json:"generations"`
}

type DashboardPost struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	Date   string `json:"date"`
}

type Dashboard struct {
	Stats       DashboardStats  `json:"stats"`
	RecentPosts []DashboardPost `json:"recent_posts"`
	Drafts      []DashboardPost `json:"drafts"`
}

type IdeasResult struct {
	Topics    []string `json:"topics"`
	Partial   bool     `json:"partial,omitempty"`
	Message   string   `json:"message,omitempty"`
	Remaining int      `json:"generations_left"`
}

type DraftResult struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	Remaining int    `json:"generations_left"`
}
