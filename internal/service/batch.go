package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/domain"
)

// BatchItem is the outcome of processing one file in a batch.
type BatchItem struct {
	ImagePath string         `json:"image_path"`
	Output    *ProcessOutput `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// BatchResult aggregates per-file outcomes for a batch run.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
}

// BatchProcessor fans a set of claim images out over a bounded number of
// concurrent pipeline runs.
type BatchProcessor struct {
	claims ClaimService
	cfg    config.BatchConfig
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(claims ClaimService, cfg config.BatchConfig) *BatchProcessor {
	return &BatchProcessor{claims: claims, cfg: cfg}
}

// Run processes every image path in inputs and returns one BatchItem per
// input, in input order. A failed file never aborts the batch.
func (p *BatchProcessor) Run(ctx context.Context, inputs []ProcessInput) (*BatchResult, error) {
	if len(inputs) == 0 {
		return &BatchResult{Items: []BatchItem{}}, nil
	}
	if p.cfg.MaxFiles > 0 && len(inputs) > p.cfg.MaxFiles {
		return nil, fmt.Errorf("batchProcessor.Run: %d files exceeds batch limit of %d", len(inputs), p.cfg.MaxFiles)
	}

	concurrency := p.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	items := make([]BatchItem, len(inputs))
	var wg sync.WaitGroup

	start := time.Now()
	log.Printf("batchProcessor: starting batch of %d files (concurrency=%d)", len(inputs), concurrency)

	for i := range inputs {
		input := inputs[i] // copy for goroutine

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			item := BatchItem{ImagePath: input.ImagePath}
			if ctx.Err() != nil {
				item.Error = ctx.Err().Error()
			} else if out, err := p.claims.Process(ctx, input); err != nil {
				log.Printf("batchProcessor: %s failed: %v", input.ImagePath, err)
				item.Error = err.Error()
			} else {
				item.Output = out
			}
			items[idx] = item
		}(i)
	}

	wg.Wait()

	result := &BatchResult{Items: items}
	for _, item := range items {
		if item.Error != "" {
			result.Failed++
		} else {
			result.Processed++
		}
	}

	log.Printf("batchProcessor: batch complete in %s (%d processed, %d failed)",
		time.Since(start).Round(time.Millisecond), result.Processed, result.Failed)

	if result.Processed == 0 && result.Failed > 0 {
		return result, domain.ErrRecognitionFailed
	}
	return result, nil
}
