package testing

import (
	"testing"

	"github.com/arloliu/chring/internal/logger"
	"github.com/arloliu/chring/types"
)

// NewTestLogger returns a types.Logger writing through t.Logf, so router and
// source logs appear next to the test that produced them.
func NewTestLogger(t testing.TB) types.Logger {
	return logger.NewTest(t)
}
