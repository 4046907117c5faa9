package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/google/generative-ai-go/genai"
	"github.com/labellens/backend/internal/domain"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model answers without any text part
var ErrEmptyResponse = errors.New("gemini response contained no text")

// Client handles communication with the Gemini API
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
	debug       bool
}

// NewClient creates a new Gemini API client authenticated with apiKey
func NewClient(ctx context.Context, apiKey, model string, temperature float32) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini API key is empty")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("gemini model is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		genai:       cl,
		model:       model,
		temperature: temperature,
	}, nil
}

// SetDebug enables logging of raw model responses
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Close releases the underlying connections
func (c *Client) Close() error {
	return c.genai.Close()
}

// UploadFile registers the file at path with the Gemini Files API
func (c *Client) UploadFile(ctx context.Context, path, mimeType string) (*domain.FileHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged image: %w", err)
	}
	defer f.Close()

	file, err := c.genai.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return toHandle(file, mimeType), nil
}

// GenerateText sends the uploaded file and the prompt to the model and returns its text reply
func (c *Client) GenerateText(ctx context.Context, file *domain.FileHandle, prompt string) (string, error) {
	m := c.genai.GenerativeModel(c.model)
	m.SetTemperature(c.temperature)

	resp, err := m.GenerateContent(ctx,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(prompt),
	)
	if err != nil {
		return "", err
	}

	text, ok := responseText(resp)
	if !ok {
		return "", ErrEmptyResponse
	}

	if c.debug {
		log.WithFields(log.Fields{
			"model": c.model,
			"file":  file.Name,
			"text":  text,
		}).Info("[Gemini] generated content")
	}

	return text, nil
}

// DeleteFile removes an uploaded file from the Gemini Files API
func (c *Client) DeleteFile(ctx context.Context, file *domain.FileHandle) error {
	if !file.Valid() {
		return nil
	}
	if err := c.genai.DeleteFile(ctx, file.Name); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", file.Name, err)
	}
	return nil
}

// toHandle converts an uploaded file into a domain handle
func toHandle(file *genai.File, fallbackMIME string) *domain.FileHandle {
	if file == nil {
		return &domain.FileHandle{}
	}
	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = fallbackMIME
	}
	return &domain.FileHandle{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: mimeType,
	}
}

// responseText concatenates the text parts of the first candidate that has content
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		found := false
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
				found = true
			}
		}
		if found {
			return sb.String(), true
		}
	}
	return "", false
}
