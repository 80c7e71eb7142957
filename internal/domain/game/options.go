package game

import "github.com/okian/possession/pkg/logger"

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithLogger sets a custom logger for the processor.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPossessionDump logs every reconstructed possession at debug level.
func WithPossessionDump(enabled bool) Option {
	return func(p *Processor) {
		p.dump = enabled
	}
}
