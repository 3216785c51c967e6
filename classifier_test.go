package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/climapredict/go-auth"
)

func TestPathClassifier_Classify(t *testing.T) {
	classifier := auth.NewPathClassifier()

	tests := []struct {
		name     string
		path     string
		expected auth.Access
	}{
		{"home page is public", "/", auth.AccessPublic},
		{"auth pages are public", "/auth/login", auth.AccessPublic},
		{"auth reset page is public", "/auth/reset-password", auth.AccessPublic},
		{"auth API is public", "/api/auth/login", auth.AccessPublic},
		{"weather API is public", "/api/weather/current", auth.AccessPublic},
		{"weather forecast is public", "/api/weather/forecast", auth.AccessPublic},
		{"dashboard is protected", "/dashboard", auth.AccessProtected},
		{"profile is protected", "/profile/edit", auth.AccessProtected},
		{"chat API is protected by the classifier", "/api/chat/history", auth.AccessProtected},
		{"crops API is protected", "/api/crops", auth.AccessProtected},
		{"bare auth without trailing slash is protected", "/auth", auth.AccessProtected},
		{"prefix look-alike is protected", "/authentic", auth.AccessProtected},
		{"api weather look-alike is protected", "/api/weatherman", auth.AccessProtected},
		{"empty path is protected", "", auth.AccessProtected},
		{"double slash is protected", "//", auth.AccessProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.path))
		})
	}
}

func TestPathClassifier_ExtraPrefixes(t *testing.T) {
	classifier := auth.NewPathClassifier("/api/public/")

	assert.Equal(t, auth.AccessPublic, classifier.Classify("/api/public/news"))
	assert.Equal(t, auth.AccessProtected, classifier.Classify("/api/private/news"))

	// the default policy still applies
	assert.Equal(t, auth.AccessPublic, classifier.Classify("/api/weather/current"))
}

func TestPathClassifier_IsPublic(t *testing.T) {
	classifier := auth.NewPathClassifier()

	assert.True(t, classifier.IsPublic("/"))
	assert.False(t, classifier.IsPublic("/settings"))
}
