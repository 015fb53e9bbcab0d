package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Diving Gear":      "diving-gear",
		"  spaced   out  ": "-spaced-out-",
		"UPPER_case":       "upper_case",
		"weird!@#chars":    "weirdchars",
		"a  -  b":          "a-b",
		"under__score":     "under_score",
		"already-clean":    "already-clean",
	}

	for input, want := range cases {
		got, err := SanitizeName(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Diving Gear", "a  -  b", "!!!x!!!", "MiXeD 123_ok", "tab\there",
		"trailing  ", "-_-", "a....b", "çafé au lait",
	}

	for _, input := range inputs {
		once, err := SanitizeName(input)
		require.NoError(t, err, input)

		twice, err := SanitizeName(once)
		require.NoError(t, err, input)
		assert.Equal(t, once, twice, input)
	}
}

func TestSanitizeName_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "日本語"} {
		_, err := SanitizeName(input)
		assert.Error(t, err, input)
	}
}

func TestFolderPath_Valid(t *testing.T) {
	for _, p := range []string{"products", "products/diving-gear", "a/b/c", "x_1/y-2"} {
		assert.True(t, IsValidPath(p), p)
	}
}

func TestFolderPath_Rejections(t *testing.T) {
	invalid := []string{
		"",
		"../etc",
		"products/../secrets",
		"a/..",
		"/products",
		"products/",
		"a//b",
		"a\\b",
		".",
		"root",
		"products/root",
		"Products", // sanitization happens before validation
	}

	for _, p := range invalid {
		assert.False(t, IsValidPath(p), p)
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "products", JoinPath("", "products"))
	assert.Equal(t, "products/diving-gear", JoinPath("products", "diving-gear"))
	assert.Equal(t, "products/diving-gear", JoinPath("products/", "diving-gear"))
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("My Photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, "my-photo.jpg", got)

	got, err = SanitizeFileName("noextension")
	require.NoError(t, err)
	assert.Equal(t, "noextension", got)

	_, err = SanitizeFileName("!!!.png")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.NoError(t, FileName("1700000000_logo.png"))
	assert.Error(t, FileName(""))
	assert.Error(t, FileName("a/b.png"))
	assert.Error(t, FileName("..hidden"))
	assert.Error(t, FileName(strings.Repeat("x", 300)))
}

func TestImageContentType(t *testing.T) {
	assert.NoError(t, ImageContentType("image/png"))
	assert.NoError(t, ImageContentType("image/jpeg; charset=binary"))
	assert.Error(t, ImageContentType("application/pdf"))
	assert.Error(t, ImageContentType("not a mime type"))
	assert.Error(t, ImageContentType(""))
}

func TestImageSize(t *testing.T) {
	assert.NoError(t, ImageSize(0))
	assert.NoError(t, ImageSize(5*1024*1024))
	assert.Error(t, ImageSize(5*1024*1024+1))
	assert.Error(t, ImageSize(-1))
}
