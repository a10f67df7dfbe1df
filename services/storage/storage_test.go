package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"versioned", "https://res.cloudinary.com/demo/image/upload/v1712345678/glowbook/brush.jpg", "glowbook/brush"},
		{"unversioned", "https://res.cloudinary.com/demo/image/upload/glowbook/brush.png", "glowbook/brush"},
		{"root asset", "https://res.cloudinary.com/demo/image/upload/v1/brush.webp", "brush"},
		{"query string", "https://res.cloudinary.com/demo/image/upload/v99/a/b/c.jpg?_a=x", "a/b/c"},
		{"folder starting with v", "https://res.cloudinary.com/demo/image/upload/vintage/look.jpg", "vintage/look"},
		{"not cloudinary", "https://example.com/img.jpg", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicIDFromURL(tt.url))
		})
	}
}
