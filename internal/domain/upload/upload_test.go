package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestDisplayURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/thumbnail?authuser=0&sz=w800&id=abc", DisplayURL(RoleProfile, "abc"))
	assert.Equal(t, "https://drive.google.com/thumbnail?authuser=0&sz=w1080&id=abc", DisplayURL(RoleCover, "abc"))
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=abc", DisplayURL(RoleAttachment, "abc"))
}

func TestParseFileRole(t *testing.T) {
	assert.Equal(t, RoleProfile, ParseFileRole(" Profile "))
	assert.Equal(t, RoleCover, ParseFileRole("cover"))
	assert.Equal(t, RoleAttachment, ParseFileRole("banner"))
}

func TestFile_Sniff(t *testing.T) {
	f := File{Name: "a.png", Content: pngHeader}
	f.Sniff()
	assert.Equal(t, "image/png", f.MimeType)

	declared := File{Name: "b.jpg", MimeType: "image/jpeg", Content: pngHeader}
	declared.Sniff()
	assert.Equal(t, "image/jpeg", declared.MimeType, "specific declared types are kept")
}

func TestFile_Validate(t *testing.T) {
	assert.NoError(t, File{Name: "a", Content: []byte("x")}.Validate())
	assert.Error(t, File{Content: []byte("x")}.Validate())
	assert.Error(t, File{Name: "a"}.Validate())
}

func TestCategoryOf(t *testing.T) {
	tests := map[string]MimeCategory{
		"image/png":                CategoryImage,
		"video/mp4":                CategoryVideo,
		"audio/mpeg; codecs=x":     CategoryAudio,
		"application/pdf":          CategoryDocument,
		"text/plain; charset=utf8": CategoryDocument,
		"application/zip":          CategoryOther,
		"":                         CategoryOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, CategoryOf(in), in)
	}
}

func TestURLs(t *testing.T) {
	got := URLs([]Result{{PublicURL: "a"}, {PublicURL: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
}
