package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Is matches any AppError carrying the same code, so wrapped copies produced by
// WithError still satisfy errors.Is against the catalogue entry.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNoFileUploaded = &AppError{
		Code:       "NO_FILE_UPLOADED",
		Message:    "No file uploaded",
		StatusCode: 400,
	}

	ErrVerifyInputRequired = &AppError{
		Code:       "MISSING_INPUT",
		Message:    "Both image_file and image_url are required",
		StatusCode: 400,
	}

	ErrReferenceFetchFailed = &AppError{
		Code:       "REFERENCE_FETCH_FAILED",
		Message:    "Failed to fetch image from URL",
		StatusCode: 400,
	}

	ErrImageTooLarge = &AppError{
		Code:       "IMAGE_TOO_LARGE",
		Message:    "Image exceeds the maximum allowed size",
		StatusCode: 413,
	}

	// Decode failures share the generic failure status with other internal errors.
	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 500,
	}

	// ErrFaceNotDetected is the model refusing to find a face. It is distinct from
	// a successful detection that returned zero faces.
	ErrFaceNotDetected = &AppError{
		Code:       "FACE_NOT_DETECTED",
		Message:    "Face could not be detected in the image",
		StatusCode: 500,
	}

	ErrProviderUnavailable = &AppError{
		Code:       "PROVIDER_UNAVAILABLE",
		Message:    "Face analysis provider unavailable",
		StatusCode: 500,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)
