// Package enhance resolves claim fields OCR could not, primarily the patient
// name on low-contrast ERA screenshots.
package enhance

import (
	"fmt"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/port"
)

// ProviderFactory is a function that creates a NameEnhancer from config.
type ProviderFactory func(cfg *config.EnhancerConfig) (port.NameEnhancer, error)

// registry of enhancer provider factories, populated explicitly via
// RegisterProvider during startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an enhancer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a NameEnhancer from config using the registered factory.
func New(cfg *config.EnhancerConfig) (port.NameEnhancer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown enhancer provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
