package models

// User mirrors the backend's wire shape: name fields travel in snake_case.
type User struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email"`
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Profile   map[string]interface{} `json:"profile,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

type MeResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type File struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Size      int64   `json:"size"`
	MimeType  string  `json:"mime_type,omitempty"`
	IsDeleted bool    `json:"is_deleted"`
	IsFolder  bool    `json:"is_folder"`
	IsStarred bool    `json:"is_starred"`
	ParentID  *string `json:"parent_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type Share struct {
	ID              string `json:"id"`
	FileID          string `json:"file_id"`
	OwnerID         string `json:"-"`
	Permissions     string `json:"permissions"`
	SharedWithEmail string `json:"shared_with_email"`
	CreatedAt       string `json:"created_at"`
	File            *File  `json:"files,omitempty"`
}

type ShareList struct {
	Shares []*Share `json:"shares"`
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}
