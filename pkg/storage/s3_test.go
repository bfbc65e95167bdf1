package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogoKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		ok   bool
	}{
		{
			name: "upload url round-trips to its key",
			url:  "https://marochub-logos.s3.eu-west-3.amazonaws.com/logos/abc/logo.png",
			key:  "logos/abc/logo.png",
			ok:   true,
		},
		{"not an s3 url", "https://example.com/logo.png", "", false},
		{"bucket root without key", "https://marochub-logos.s3.eu-west-3.amazonaws.com/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := LogoKeyFromURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestLogoKeyMatchesURLFormat(t *testing.T) {
	key := LogoKey("abc", "logo.png")
	assert.Equal(t, "logos/abc/logo.png", key)

	url := "https://marochub-logos.s3.eu-west-3.amazonaws.com/" + key
	got, ok := LogoKeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, key, got)
}

func TestValidateLogoFileType(t *testing.T) {
	assert.True(t, ValidateLogoFileType("image/png", "logo.png"))
	assert.True(t, ValidateLogoFileType("", "logo.webp"), "extension alone is enough")
	assert.True(t, ValidateLogoFileType("image/svg+xml", "logo"))
	assert.False(t, ValidateLogoFileType("application/pdf", "logo.pdf"))
	assert.False(t, ValidateLogoFileType("", "logo"))
}
