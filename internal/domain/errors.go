package domain

import "errors"

var (
	// ErrUpload is returned when the image cannot be staged or registered with the model service
	ErrUpload = errors.New("failed to upload the image")

	// ErrEmptyImage is returned when the uploaded image has no bytes
	ErrEmptyImage = errors.New("uploaded image is empty")

	// ErrTransport is returned when the model service call fails at the network or auth layer
	ErrTransport = errors.New("model service request failed")

	// ErrMalformedOutput marks model text that could not be decoded as a JSON object.
	// It is logged, never returned to callers.
	ErrMalformedOutput = errors.New("model output is not a JSON object")

	// ErrUnexpectedShape marks an extraction result that does not look like
	// {"Nutrients": {...}, "Ingredients": [...]}. It is logged, never returned to callers.
	ErrUnexpectedShape = errors.New("extraction result has unexpected shape")
)

// ModelError wraps a failure reported by the model service.
// Error returns the upstream message unchanged so it can be shown to the client as is.
type ModelError struct {
	Kind error
	Err  error
}

func (e *ModelError) Error() string {
	return e.Err.Error()
}

func (e *ModelError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
