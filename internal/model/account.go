package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	TierFree    = "free"
	TierPremium = "premium"

	// Generation allotments per tier.
	FreeGenerations    = 20
	PremiumGenerations = 100
)

type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	Avatar           string    `json:"avatar,omitempty"`
	Role             string    `json:"role"`
	Subscription     string    `json:"subscription"`
	GenerationsLeft  int       `json:"generations_left"`
	GenerationsTotal int       `json:"generations_total"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AccountUpdate carries the admin-controlled fields of an account. Nil
// fields are left untouched.
type AccountUpdate struct {
	Role             *string
	Subscription     *string
	GenerationsLeft  *int
	GenerationsTotal *int
}

type Quota struct {
	Left  int `json:"left"`
	Total int `json:"total"`
}

type DeletionReport struct {
	SavedLinks      int64 `json:"saved_links"`
	CollectionLinks int64 `json:"collection_links"`
	Collections     int64 `json:"collections"`
	Posts           int64 `json:"posts"`
}

type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	PremiumUsers   int `json:"premium_users"`
	TotalPosts     int `json:"total_posts"`
	PostsThisMonth int `json:"posts_this_month"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func ValidTier(tier string) bool {
	return tier == TierFree || tier == TierPremium
}
