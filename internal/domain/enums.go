package domain

// FileType represents the allowed ERA image types for upload.
type FileType string

const (
	FileTypePNG FileType = "png"
	FileTypeJPG FileType = "jpg"
	FileTypePDF FileType = "pdf"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"image/png":       FileTypePNG,
	"image/jpeg":      FileTypeJPG,
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"png":  FileTypePNG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"pdf":  FileTypePDF,
}

// ValidationSeverity grades a validation rule.
type ValidationSeverity string

const (
	SeverityWarning ValidationSeverity = "warning"
	SeverityError   ValidationSeverity = "error"
)

// CheckState is the tri-state outcome of a cross-check that may be
// undecidable when an input is absent.
type CheckState string

const (
	CheckMatch         CheckState = "match"
	CheckMismatch      CheckState = "mismatch"
	CheckIndeterminate CheckState = "indeterminate"
)
