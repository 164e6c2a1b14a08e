// Package tesseract shells out to the tesseract binary for ERA text
// recognition. Screenshots stay on the local machine; no image data ever
// leaves the host.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
)

type engine struct {
	bin       string
	languages string
	timeout   time.Duration
}

// NewEngine creates a tesseract-backed RecognitionEngine.
func NewEngine(cfg *config.OCRConfig) port.RecognitionEngine {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &engine{
		bin:       cfg.TesseractBin,
		languages: cfg.Languages,
		timeout:   timeout,
	}
}

// Recognize runs tesseract in page-segmentation mode 6 (uniform text block),
// which handles the tabular layout of ERA screenshots better than the
// default automatic segmentation.
func (e *engine) Recognize(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tesseract: stat %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.bin, path, "stdout", "-l", e.languages, "--oem", "3", "--psm", "6")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s: %w", msg, domain.ErrRecognitionFailed)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", fmt.Errorf("tesseract: empty output for %s: %w", path, domain.ErrRecognitionFailed)
	}
	return text, nil
}
