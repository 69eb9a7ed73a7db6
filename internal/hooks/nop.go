// Package hooks provides default implementations of types.Hooks.
package hooks

import (
	"context"

	"github.com/arloliu/chring/types"
)

// NopHooks implements every hook as a no-op so callers never nil-check.
type NopHooks struct{}

var (
	_ func(context.Context, string, int) error = (*NopHooks)(nil).OnDestinationAdded
	_ func(context.Context, string, int) error = (*NopHooks)(nil).OnDestinationRemoved
	_ func(context.Context, error) error       = (*NopHooks)(nil).OnError
)

// NewNop returns hooks whose callbacks all succeed without side effects.
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnDestinationAdded:   h.OnDestinationAdded,
		OnDestinationRemoved: h.OnDestinationRemoved,
		OnError:              h.OnError,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by a no-op.
// A nil pointer yields NewNop().
func Fill(hooks *types.Hooks) types.Hooks {
	out := NewNop()
	if hooks == nil {
		return out
	}
	if hooks.OnDestinationAdded != nil {
		out.OnDestinationAdded = hooks.OnDestinationAdded
	}
	if hooks.OnDestinationRemoved != nil {
		out.OnDestinationRemoved = hooks.OnDestinationRemoved
	}
	if hooks.OnError != nil {
		out.OnError = hooks.OnError
	}

	return out
}

// OnDestinationAdded is a no-op implementation.
func (h *NopHooks) OnDestinationAdded(_ context.Context, _ string, _ int) error {
	return nil
}

// OnDestinationRemoved is a no-op implementation.
func (h *NopHooks) OnDestinationRemoved(_ context.Context, _ string, _ int) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
