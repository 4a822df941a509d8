package watcher

import "cloud_drive_agent/internal/pkg/files/files_service"

// Uploader pushes a local file to the drive.
type Uploader interface {
	UploadFileFromPath(path string, parentID *string) (*files_service.File, error)
}

// SessionState gates uploads on an authenticated session.
type SessionState interface {
	IsAuthenticated() bool
}

// Notifier reports upload outcomes to the user.
type Notifier interface {
	Success(message string)
	Info(message string)
}
