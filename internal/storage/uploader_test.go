package storage

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	testCases := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "img/1.png", "https://cdn.example.com/img/1.png"},
		{"https://cdn.example.com/", "/img/1.png", "https://cdn.example.com/img/1.png"},
		{"https://cdn.example.com/leagues", "img/2.png", "https://cdn.example.com/leagues/img/2.png"},
	}

	for _, tc := range testCases {
		got, err := PublicURL(tc.base, tc.key)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := PublicURL("://bad", "img/1.png")
	assert.Error(t, err)
}

func TestLogoKey(t *testing.T) {
	assert.Equal(t, "img/42.png", LogoKey(42))
}

func TestNewS3UploaderRequiresCredentials(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), config.StorageConfig{Bucket: "logos"})
	assert.Error(t, err)
}
