package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "ns/req-1/job.json", false},
		{"empty", "", true},
		{"absolute", "/ns/job.json", true},
		{"traversal", "ns/../secrets", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := "ns/req-1/job.json"
	payload := []byte(`[{"a":1}]`)
	meta := map[string]string{"requester_id": "req-1"}

	require.NoError(t, store.Upload(ctx, key, payload, "application/json", meta))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	stored, ok := store.Metadata(key)
	require.True(t, ok)
	assert.Equal(t, "req-1", stored["requester_id"])

	url, err := store.SignedURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "memory://"+key)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Download(ctx, "ns/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := store.Exists(ctx, "ns/missing.json")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.SignedURL(ctx, "ns/missing.json", time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	payload := []byte("original")
	require.NoError(t, store.Upload(ctx, "ns/k", payload, "text/plain", nil))
	payload[0] = 'X'

	data, err := store.Download(ctx, "ns/k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestMemoryStoreRejectsBadKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, store.Upload(ctx, "../escape", nil, "", nil))
	_, err := store.Download(ctx, "")
	assert.Error(t, err)
}
