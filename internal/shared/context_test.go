package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEnsureRequestID(t *testing.T) {
	t.Run("keeps existing id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "fixed")
		got, id := EnsureRequestID(ctx)
		assert.Equal(t, "fixed", id)
		assert.Equal(t, ctx, got)
	})

	t.Run("generates uuid", func(t *testing.T) {
		ctx, id := EnsureRequestID(context.Background())
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, RequestID(ctx))
	})
}
