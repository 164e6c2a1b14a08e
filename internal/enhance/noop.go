package enhance

import (
	"context"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/port"
)

func init() {
	RegisterProvider("noop", func(_ *config.EnhancerConfig) (port.NameEnhancer, error) {
		return noopEnhancer{}, nil
	})
}

// noopEnhancer never resolves anything. It is the default provider so that
// claim processing works without a local model installed.
type noopEnhancer struct{}

func (noopEnhancer) ExtractClientName(context.Context, string) (string, error) {
	return "", nil
}

func (noopEnhancer) Name() string { return "noop" }
