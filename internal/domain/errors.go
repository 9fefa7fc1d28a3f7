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

	ErrRecordNotFound = &AppError{
		Code:       "RECORD_NOT_FOUND",
		Message:    "No image with this id in the session",
		StatusCode: 404,
	}

	ErrUploadDecode = &AppError{
		Code:       "UPLOAD_DECODE_FAILURE",
		Message:    "Uploaded file could not be decoded as an image",
		StatusCode: 422,
	}

	ErrAnalysisFailed = &AppError{
		Code:       "ANALYSIS_FAILURE",
		Message:    "Facial attribute analysis failed",
		StatusCode: 502,
	}

	ErrAnalysisInProgress = &AppError{
		Code:       "ANALYSIS_IN_PROGRESS",
		Message:    "Analysis already running for this image",
		StatusCode: 409,
	}

	ErrReportFailed = &AppError{
		Code:       "REPORT_GENERATION_FAILURE",
		Message:    "Report could not be generated",
		StatusCode: 500,
	}
)
