package rest

import "time"

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Story struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	Image             *string   `json:"image"`
	Author            string    `json:"author"`
	Website           string    `json:"website"`
	WebsiteButtonText string    `json:"websiteButtonText"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type StoriesRequest struct {
	Search string `query:"search"`
	Tags   string `query:"tags"`
}

type TagRequest struct {
	Name  string `json:"name" form:"name" validate:"required,max=64"`
	Color string `json:"color" form:"color" validate:"omitempty,max=32"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
