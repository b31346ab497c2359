package ws

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/saturnino-fabrica-de-software/aiface/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/aiface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/aiface/internal/domain"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	errTextFrame = &domain.AppError{
		Code:       domain.ErrBadRequest.Code,
		Message:    "Frames must be binary images",
		StatusCode: domain.ErrBadRequest.StatusCode,
	}
)

func encodeOutcome(outcome *domain.AnalysisOutcome) []byte {
	data, err := json.Marshal(handler.NewAnalyzeResponse(*outcome))
	if err != nil {
		return encodeError(domain.ErrInternal.WithError(err))
	}
	return data
}

func encodeError(err error) []byte {
	_, body := middleware.NewErrorBody(err)
	// ErrorBody only holds strings
	data, _ := json.Marshal(body)
	return data
}
