package filestorage

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
)

// MaxUploadSize is the default upload limit (5 MiB)
const MaxUploadSize int64 = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".pdf":  {},
}

var allowedContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}

// ValidateUpload enforces the upload allow-list: at most maxSize bytes, an image or PDF
// extension, a matching declared content type and matching file contents.
func ValidateUpload(fileHeader *multipart.FileHeader, maxSize int64) error {
	if fileHeader == nil {
		return apperrors.NewValidationError(apperrors.FieldError{Field: "file", Message: "No file uploaded"})
	}
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	if fileHeader.Size > maxSize {
		return apperrors.NewValidationError(apperrors.FieldError{
			Field:   "file",
			Message: fmt.Sprintf("File exceeds the maximum size of %d bytes", maxSize),
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return fileTypeError()
	}
	if !isAllowedContentType(declaredContentType(fileHeader)) {
		return fileTypeError()
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("failed to inspect uploaded file: %w", err)
	}
	for _, allowed := range allowedContentTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return fileTypeError()
}

func declaredContentType(fileHeader *multipart.FileHeader) string {
	raw := fileHeader.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}

func isAllowedContentType(contentType string) bool {
	for _, allowed := range allowedContentTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func fileTypeError() error {
	return apperrors.NewCustomError(apperrors.ErrFileType, "Error: Images and PDFs only!")
}
