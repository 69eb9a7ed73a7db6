// Package logger provides logger implementations used as defaults and in tests.
package logger

import "github.com/arloliu/chring/types"

// NopLogger discards all log messages. It is the Router default when
// WithLogger is not supplied.
//
// Example:
//
//	router, _ := chring.NewRouter(&cfg, chring.WithLogger(logger.NewNop()))
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a logger that performs no operations.
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message. It does not exit the process.
func (n *NopLogger) Fatal(_ string, _ ...any) {}
