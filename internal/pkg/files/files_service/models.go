package files_service

// File is the backend's file/folder record. This surface is treated as
// opaque: fields pass through with the backend's naming.
type File struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id,omitempty"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name,omitempty"`
	Size         int64   `json:"size"`
	Type         string  `json:"type,omitempty"`
	MimeType     string  `json:"mime_type,omitempty"`
	Extension    *string `json:"extension,omitempty"`
	Path         string  `json:"path,omitempty"`
	IsDeleted    bool    `json:"is_deleted,omitempty"`
	IsFolder     bool    `json:"is_folder,omitempty"`
	IsStarred    bool    `json:"is_starred,omitempty"`
	ParentID     *string `json:"parent_id,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
	DeletedAt    *string `json:"deleted_at,omitempty"`
}

// Share is a sharing record, either granted to or granted by the current
// user depending on the listing endpoint.
type Share struct {
	ID              string  `json:"id"`
	Permissions     string  `json:"permissions"`
	ShareType       string  `json:"share_type,omitempty"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
	File            *File   `json:"files,omitempty"`
	FileID          string  `json:"file_id,omitempty"`
	SharedWithEmail string  `json:"shared_with_email,omitempty"`
}

// ShareList is a paginated share listing.
type ShareList struct {
	Shares []*Share `json:"shares"`
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

// ListOptions filters a file listing. Pointer fields are tri-state:
// nil means "not filtered".
type ListOptions struct {
	Deleted   *bool
	Starred   *bool
	Recent    *bool
	ParentID  *string
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// PageOptions paginates a share listing.
type PageOptions struct {
	Page   int
	Limit  int
	Search string
}

// UpdateRequest renames, moves or stars a file.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	ParentID *string `json:"parentId,omitempty"`
	Starred  *bool   `json:"starred,omitempty"`
}
