package usecase

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/labellens/backend/internal/domain"
)

// remoteCleanupTimeout bounds the best-effort deletion of an uploaded file
const remoteCleanupTimeout = 10 * time.Second

// LabelServiceConfig holds configuration for the label service
type LabelServiceConfig struct {
	// ModelTimeout bounds the upload and generation calls of one request. Zero disables it.
	ModelTimeout time.Duration
	// KeepUploads leaves images registered with the model service after the request
	KeepUploads bool
}

// LabelService runs the submit, extract and flatten pipeline for one label image
type LabelService struct {
	model        domain.ModelClient
	submitter    *ImageSubmitter
	extractor    *ExtractionService
	flattener    *RecordFlattener
	modelTimeout time.Duration
	keepUploads  bool
}

// NewLabelService creates a new label service with dependencies
func NewLabelService(
	stager domain.ImageStager,
	model domain.ModelClient,
	config LabelServiceConfig,
) *LabelService {
	return &LabelService{
		model:        model,
		submitter:    NewImageSubmitter(stager, model),
		extractor:    NewExtractionService(model),
		flattener:    NewRecordFlattener(),
		modelTimeout: config.ModelTimeout,
		keepUploads:  config.KeepUploads,
	}
}

// Analyze extracts product details from a label image.
// Flow: submit image -> ask model -> parse -> flatten -> report
//
// Errors are limited to upload failures (domain.ErrUpload) and model service
// failures (domain.ErrTransport). Unusable model output is reported as
// domain.OutcomeEmpty.
func (s *LabelService) Analyze(ctx context.Context, filename string, image []byte) (*domain.LabelReport, error) {
	if s.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.modelTimeout)
		defer cancel()
	}

	logger := log.WithField("filename", filename)

	handle, err := s.submitter.Submit(ctx, image)
	if err != nil {
		logger.WithError(err).Error("image submission failed")
		return nil, err
	}
	defer s.releaseUpload(ctx, handle)

	doc, err := s.extractor.Extract(ctx, handle)
	if err != nil {
		logger.WithError(err).Error("extraction request failed")
		return nil, err
	}

	report := &domain.LabelReport{
		Filename: filename,
		Outcome:  domain.OutcomeEmpty,
		Records:  []domain.FlatRecord{},
	}

	if doc.Len() == 0 {
		logger.Info("model returned no product details")
		return report, nil
	}

	records := s.flattener.Flatten(doc)
	if len(records) == 0 {
		logger.Info("extraction result produced no records")
		return report, nil
	}

	report.Outcome = domain.OutcomeExtracted
	report.Records = records

	logger.WithField("records", len(records)).Info("product details extracted")
	return report, nil
}

// releaseUpload deletes the image from the model service. Failures are logged only.
func (s *LabelService) releaseUpload(ctx context.Context, handle *domain.FileHandle) {
	if s.keepUploads {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), remoteCleanupTimeout)
	defer cancel()

	if err := s.model.DeleteFile(ctx, handle); err != nil {
		log.WithError(err).WithField("file", handle.Name).Warn("failed to delete uploaded image")
	}
}
