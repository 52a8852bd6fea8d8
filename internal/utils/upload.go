package utils

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SaveUpload stores a multipart file under dir with a uuid-prefixed name
// and returns the stored filename. The client-supplied name is reduced to
// its base so it cannot carry path components.
func SaveUpload(c *fiber.Ctx, file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + "_" + filepath.Base(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return "", err
	}

	return filename, nil
}

// DeleteUpload removes a stored file, ignoring missing files.
func DeleteUpload(dir, filename string) {
	if filename == "" {
		return
	}
	_ = os.Remove(filepath.Join(dir, filepath.Base(filename)))
}
