package playlist

import (
	"github.com/jfmyers9/setlistify/internal/match"
	"github.com/rs/zerolog"
)

// Options configures NewBuilder.
type Options struct {
	Catalog   Catalog        // Optional online catalog for the automation strategy
	Policy    match.Policy   // Match policy for the automation strategy
	ExportDir string         // Directory for default file paths
	Logger    zerolog.Logger // Logger for progress events
}

// NewBuilder returns the builder for target.
func NewBuilder(target Target, opts Options) Builder {
	if target.Strategy() == StrategyAutomation {
		return NewAutomationBuilder(target.Automation, opts.Catalog, opts.Policy, opts.Logger)
	}
	return NewFileBuilder(target.Path, opts.ExportDir, target.Format, opts.Logger)
}
