package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	var s Storage = NewMemory()
	mem := s.(*Memory)

	require.NoError(t, s.Save(ctx, "private/logs/a.png", strings.NewReader("png-bytes"), "image/png"))
	data, contentType, ok := mem.File("private/logs/a.png")
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	url, err := s.URL(ctx, "private/logs/a.png")
	require.NoError(t, err)
	assert.Equal(t, "memory://private/logs/a.png", url)

	require.NoError(t, s.Delete(ctx, "private/logs/a.png"))
	assert.Equal(t, 0, mem.Len())
	_, err = s.URL(ctx, "private/logs/a.png")
	assert.Error(t, err)
}
