package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labellens/backend/internal/domain"
)

// Fallback used when the bytes are not recognized as an image
const (
	defaultMIMEType  = "image/jpeg"
	defaultExtension = ".jpg"
	filePrefix       = "label-"
)

// Stager writes uploaded images to uniquely named files in a directory
type Stager struct {
	dir string
}

// NewStager creates a stager writing into dir. An empty dir means os.TempDir().
func NewStager(dir string) *Stager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Stager{dir: dir}
}

// Dir returns the directory staged files are written to
func (s *Stager) Dir() string {
	return s.dir
}

// Stage writes data to a new file named after a random UUID with an image extension
func (s *Stager) Stage(data []byte) (domain.StagedImage, error) {
	mimeType, ext := detectImageType(data)
	path := filepath.Join(s.dir, filePrefix+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return domain.StagedImage{}, fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return domain.StagedImage{}, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return domain.StagedImage{}, fmt.Errorf("failed to close staged file: %w", err)
	}

	return domain.StagedImage{Path: path, MIMEType: mimeType}, nil
}

// Release deletes a staged file. Releasing a file that is already gone is not an error.
func (s *Stager) Release(image domain.StagedImage) error {
	if image.Path == "" {
		return nil
	}
	if err := os.Remove(image.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}

// detectImageType sniffs the content type and extension of data
func detectImageType(data []byte) (string, string) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") || mt.Extension() == "" {
		return defaultMIMEType, defaultExtension
	}
	return mt.String(), mt.Extension()
}
