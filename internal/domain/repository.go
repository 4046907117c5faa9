package domain

import "context"

// ModelClient defines the interface for the multimodal model service
type ModelClient interface {
	UploadFile(ctx context.Context, path, mimeType string) (*FileHandle, error)
	GenerateText(ctx context.Context, file *FileHandle, prompt string) (string, error)
	DeleteFile(ctx context.Context, file *FileHandle) error
}

// ImageStager defines the interface for transient image storage
type ImageStager interface {
	Stage(data []byte) (StagedImage, error)
	Release(image StagedImage) error
}
