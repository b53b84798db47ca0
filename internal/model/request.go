package model

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AdminUpdateAccountRequest struct {
	Role         string `json:"role"`
	Subscription string `json:"subscription"`
}

type CreatePostRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Status       string `json:"status"`
	WritingPhase string `json:"writing_phase"`
}

type UpdatePostRequest struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	Status       *string `json:"status"`
	WritingPhase *string `json:"writing_phase"`
}

type SetPostCollectionsRequest struct {
	CollectionIDs []string `json:"collection_ids"`
}

type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GenerateIdeasRequest struct {
	Topic    string `json:"topic"`
	Keywords string `json:"keywords"`
}

type GenerateDraftRequest struct {
	Title    string `json:"title"`
	Keywords string `json:"keywords"`
}
