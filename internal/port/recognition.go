package port

import "context"

// RecognitionEngine extracts raw text from an ERA image on disk.
type RecognitionEngine interface {
	// Recognize returns the full text content of the image, preserving line
	// breaks. The path must point to a readable PNG, JPG or single-page PDF.
	Recognize(ctx context.Context, path string) (string, error)
}

// NameEnhancer resolves fields OCR could not, typically via a vision model.
type NameEnhancer interface {
	// ExtractClientName returns the patient name as "LAST, FIRST", or an
	// empty string when the image does not show one.
	ExtractClientName(ctx context.Context, imagePath string) (string, error)
	Name() string
}
