package usecase

import (
	"context"
	"fmt"

	"github.com/labellens/backend/internal/domain"
)

// MockModelClient is a mock implementation of domain.ModelClient
type MockModelClient struct {
	uploadHandle  *domain.FileHandle
	uploadError   error
	generateText  string
	generateError error
	deleteError   error

	// onUpload runs before UploadFile returns; tests use it to inspect staged files
	onUpload func(path, mimeType string)

	uploadedPaths []string
	uploadedMIME  []string
	prompts       []string
	generatedFor  []*domain.FileHandle
	deleted       []*domain.FileHandle
	hadDeadline   bool
	calls         []string
}

func NewMockModelClient() *MockModelClient {
	return &MockModelClient{
		uploadHandle: &domain.FileHandle{
			Name:     "files/label-1",
			URI:      "https://generativelanguage.googleapis.com/v1beta/files/label-1",
			MIMEType: "image/jpeg",
		},
	}
}

func (m *MockModelClient) UploadFile(ctx context.Context, path, mimeType string) (*domain.FileHandle, error) {
	m.calls = append(m.calls, "upload")
	m.uploadedPaths = append(m.uploadedPaths, path)
	m.uploadedMIME = append(m.uploadedMIME, mimeType)
	if m.onUpload != nil {
		m.onUpload(path, mimeType)
	}
	if m.uploadError != nil {
		return nil, m.uploadError
	}
	return m.uploadHandle, nil
}

func (m *MockModelClient) GenerateText(ctx context.Context, file *domain.FileHandle, prompt string) (string, error) {
	m.calls = append(m.calls, "generate")
	m.prompts = append(m.prompts, prompt)
	m.generatedFor = append(m.generatedFor, file)
	_, m.hadDeadline = ctx.Deadline()
	if m.generateError != nil {
		return "", m.generateError
	}
	return m.generateText, nil
}

func (m *MockModelClient) DeleteFile(ctx context.Context, file *domain.FileHandle) error {
	m.calls = append(m.calls, "delete")
	m.deleted = append(m.deleted, file)
	return m.deleteError
}

// MockImageStager is a mock implementation of domain.ImageStager
type MockImageStager struct {
	stageError   error
	releaseError error

	staged   []domain.StagedImage
	released []domain.StagedImage
}

func NewMockImageStager() *MockImageStager {
	return &MockImageStager{}
}

func (m *MockImageStager) Stage(data []byte) (domain.StagedImage, error) {
	if m.stageError != nil {
		return domain.StagedImage{}, m.stageError
	}
	img := domain.StagedImage{
		Path:     fmt.Sprintf("/tmp/label-%d.jpg", len(m.staged)+1),
		MIMEType: "image/jpeg",
	}
	m.staged = append(m.staged, img)
	return img, nil
}

func (m *MockImageStager) Release(image domain.StagedImage) error {
	m.released = append(m.released, image)
	return m.releaseError
}

func (m *MockImageStager) isReleased(image domain.StagedImage) bool {
	for _, r := range m.released {
		if r == image {
			return true
		}
	}
	return false
}

// labelResponse is a well-formed model reply with 10 nutrients and 3 ingredients
const labelResponse = "```json\n" + `{
  "Nutrients": {
    "Energy": "457.7 kcal",
    "Protein": "22.20 g",
    "Total Carbohydrate": "53.3 g",
    "Total Sugars": "2.3 g",
    "Added Sugars": "0.0 g",
    "Dietary Fibre": "12.3 g",
    "Total Fat": "17.3 g",
    "Saturated Fat": "6.1 g",
    "Trans Fat": "<0.1 g",
    "Sodium": "571.3 mg"
  },
  "Ingredients": [
    "Split Green Gram (Moong Dal)",
    "Vegetable Oil (Cotton Seed, Groundnut and Rice Bran)",
    "Iodized Salt"
  ]
}` + "\n```"
