package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile stores an uploaded file under a generated name and returns its recorded path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a previously saved file
	DeleteFile(filePath string) error

	// GetFullPath maps a recorded path to its location on disk
	GetFullPath(filePath string) string
}
