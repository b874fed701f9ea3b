package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string // directory files are written to
	publicPrefix string // prefix of the recorded path, e.g. "uploads"
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Recorded paths take the form publicPrefix/<uuid><ext>.
func NewLocalStorage(basePath, publicPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if publicPrefix == "" {
		publicPrefix = filepath.Base(basePath)
	}
	return &LocalStorage{
		basePath:     basePath,
		publicPrefix: strings.Trim(publicPrefix, "/"),
	}, nil
}

// SaveFile copies an uploaded file to a fresh collision-resistant name
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	recorded := path.Join(ls.publicPrefix, uniqueFilename)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", recorded).Msg("File saved successfully")
	return recorded, nil
}

// DeleteFile removes a file from the storage filesystem.
// Missing files are not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %q", filePath)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath returns the filesystem path for a recorded path.
// Only the base name is used so recorded paths cannot escape basePath.
func (ls *LocalStorage) GetFullPath(filePath string) string {
	filename := filepath.Base(filePath)
	if filePath == "" || filename == "." || filename == "/" || filename == ls.publicPrefix {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
