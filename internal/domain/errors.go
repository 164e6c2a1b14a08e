package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCounselorRequired   = errors.New("counselor selection is required")
	ErrUnknownCounselor    = errors.New("counselor is not registered")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrRecognitionFailed   = errors.New("recognition produced no data")
	ErrDuplicateName       = errors.New("name already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrLedgerWrite         = errors.New("ledger write failed")
)
