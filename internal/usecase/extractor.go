package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/labellens/backend/internal/domain"
)

// ExtractionPrompt asks the model for nutrients and ingredients as a bare JSON object
const ExtractionPrompt = `Extract all the details regarding nutrients and ingredients shown in the given image and give me response in the format of JSON Object where Nutrient:(given nutrient) and Ingredients:(given ingredients) and only these two things and only JSON response, no other thing. like as follows:
{
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
}`

const (
	jsonFenceOpen = "```json"
	fenceClose    = "```"
)

// ExtractionService asks the model to read a label and turns its reply into a document
type ExtractionService struct {
	model  domain.ModelClient
	prompt string
}

// NewExtractionService creates a new extraction service using ExtractionPrompt
func NewExtractionService(model domain.ModelClient) *ExtractionService {
	return &ExtractionService{
		model:  model,
		prompt: ExtractionPrompt,
	}
}

// Extract returns the sanitized object the model produced for the file.
// Text that is not a JSON object yields an empty object and no error; only
// failures talking to the model service are returned.
func (s *ExtractionService) Extract(ctx context.Context, file *domain.FileHandle) (domain.Object, error) {
	text, err := s.model.GenerateText(ctx, file, s.prompt)
	if err != nil {
		return nil, &domain.ModelError{Kind: domain.ErrTransport, Err: err}
	}

	logger := log.WithField("file", file.Name)
	logger.WithField("text", text).Debug("model response received")

	doc, err := parseModelText(text)
	if err != nil {
		logger.WithError(err).Warn("discarding model response")
		return domain.Object{}, nil
	}

	return SanitizeFloats(doc).(domain.Object), nil
}

// parseModelText trims the reply, strips a ```json fence and decodes the remainder
func parseModelText(text string) (domain.Object, error) {
	text = stripJSONFence(text)

	value, err := DecodeDocument([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	obj, ok := value.(domain.Object)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T", domain.ErrMalformedOutput, value)
	}
	return obj, nil
}

func stripJSONFence(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= len(jsonFenceOpen)+len(fenceClose) &&
		strings.HasPrefix(text, jsonFenceOpen) &&
		strings.HasSuffix(text, fenceClose) {
		text = strings.TrimSpace(text[len(jsonFenceOpen) : len(text)-len(fenceClose)])
	}
	return text
}
