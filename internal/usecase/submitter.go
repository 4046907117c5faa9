package usecase

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/labellens/backend/internal/domain"
)

// ImageSubmitter stages raw image bytes and registers them with the model service
type ImageSubmitter struct {
	stager domain.ImageStager
	model  domain.ModelClient
}

// NewImageSubmitter creates a new image submitter
func NewImageSubmitter(stager domain.ImageStager, model domain.ModelClient) *ImageSubmitter {
	return &ImageSubmitter{
		stager: stager,
		model:  model,
	}
}

// Submit uploads the image and returns the handle the model service assigned to it.
// The transient file is removed before Submit returns, whatever the outcome.
func (s *ImageSubmitter) Submit(ctx context.Context, data []byte) (*domain.FileHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpload, domain.ErrEmptyImage)
	}

	staged, err := s.stager.Stage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: stage image: %v", domain.ErrUpload, err)
	}
	defer func() {
		if err := s.stager.Release(staged); err != nil {
			log.WithError(err).WithField("path", staged.Path).Warn("failed to remove staged image")
		}
	}()

	handle, err := s.model.UploadFile(ctx, staged.Path, staged.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if !handle.Valid() {
		return nil, fmt.Errorf("%w: model service returned an empty handle", domain.ErrUpload)
	}

	log.WithFields(log.Fields{
		"file":     handle.Name,
		"mimeType": handle.MIMEType,
		"bytes":    len(data),
	}).Info("image uploaded")

	return handle, nil
}
