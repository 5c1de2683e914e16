package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// ImageConstraints covers meal and body photos
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
		},
		MaxSize: 5 << 20, // 5MB
	}

	// DocumentConstraints covers medical reports
	DocumentConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"application/pdf": true,
		},
		AllowedExtensions: map[string]bool{
			".pdf": true,
		},
		MaxSize: 10 << 20, // 10MB
	}
)

// ValidateUpload checks an uploaded file against one or more constraint sets
// and returns the content type detected from its bytes.
// If multiple constraints are provided, the file must match at least one.
func ValidateUpload(filename string, data []byte, constraints ...FileConstraints) (string, error) {
	if len(constraints) == 0 {
		return "", fmt.Errorf("no file constraints provided")
	}

	var lastErr error
	for _, constraint := range constraints {
		mimeType, err := validateAgainstConstraint(filename, data, constraint)
		if err == nil {
			return mimeType, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func validateAgainstConstraint(filename string, data []byte, constraints FileConstraints) (string, error) {
	if int64(len(data)) > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return "", invalid(fmt.Sprintf("file too large: maximum size is %d MB", maxMB))
	}

	// Magic numbers, not the client supplied Content-Type
	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	detectedType := http.DetectContentType(sniff)

	if !constraints.AllowedMimeTypes[detectedType] {
		return "", invalid(fmt.Sprintf("invalid file type (detected: %s)", detectedType))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return "", invalid(fmt.Sprintf("invalid file extension: %s", ext))
	}

	return detectedType, nil
}
