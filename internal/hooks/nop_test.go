package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chring/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NoError(t, hooks.OnDestinationAdded(ctx, "node-a", 5))
	require.NoError(t, hooks.OnDestinationRemoved(ctx, "node-a", 5))
	require.NoError(t, hooks.OnError(ctx, context.Canceled))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		hooks := Fill(nil)

		require.NotNil(t, hooks.OnDestinationAdded)
		require.NotNil(t, hooks.OnDestinationRemoved)
		require.NotNil(t, hooks.OnError)
	})

	t.Run("keeps provided callbacks", func(t *testing.T) {
		boom := errors.New("boom")
		hooks := Fill(&types.Hooks{
			OnDestinationAdded: func(context.Context, string, int) error { return boom },
		})

		require.ErrorIs(t, hooks.OnDestinationAdded(context.Background(), "node-a", 1), boom)
		require.NoError(t, hooks.OnDestinationRemoved(context.Background(), "node-a", 1))
		require.NoError(t, hooks.OnError(context.Background(), boom))
	})
}
