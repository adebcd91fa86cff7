// Package upload describes files sent to object storage and the URLs they yield.
package upload

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FolderMimeType marks a storage folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// FileRole is the semantic use of an uploaded file. It selects the display URL template.
type FileRole string

const (
	RoleProfile    FileRole = "profile"
	RoleCover      FileRole = "cover"
	RoleAttachment FileRole = "attachment"
)

// ParseFileRole defaults unknown roles to attachment.
func ParseFileRole(s string) FileRole {
	switch FileRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleProfile:
		return RoleProfile
	case RoleCover:
		return RoleCover
	default:
		return RoleAttachment
	}
}

// File is one local file to upload.
type File struct {
	Name     string
	MimeType string
	Role     FileRole
	Content  []byte
}

// Sniff fills in MimeType from the content when the caller did not supply a specific one.
func (f *File) Sniff() {
	if f.MimeType != "" && f.MimeType != "application/octet-stream" {
		return
	}
	f.MimeType = mimetype.Detect(f.Content).String()
}

// Validate checks the file can be uploaded.
func (f File) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("file name is required")
	}
	if len(f.Content) == 0 {
		return fmt.Errorf("file %q is empty", f.Name)
	}
	return nil
}

// MimeCategory is the coarse kind of an uploaded file.
type MimeCategory string

const (
	CategoryImage    MimeCategory = "image"
	CategoryVideo    MimeCategory = "video"
	CategoryAudio    MimeCategory = "audio"
	CategoryDocument MimeCategory = "document"
	CategoryOther    MimeCategory = "other"
)

// CategoryOf maps a MIME type to its category, walking mimetype's
// hierarchy so that e.g. "image/svg+xml" lands under image.
func CategoryOf(mimeType string) MimeCategory {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), ";")
	switch {
	case strings.HasPrefix(base, "image/"):
		return CategoryImage
	case strings.HasPrefix(base, "video/"):
		return CategoryVideo
	case strings.HasPrefix(base, "audio/"):
		return CategoryAudio
	case base == "application/pdf", strings.HasPrefix(base, "text/"):
		return CategoryDocument
	}
	if m := mimetype.Lookup(base); m != nil {
		for p := m.Parent(); p != nil; p = p.Parent() {
			if p.Is("text/plain") {
				return CategoryDocument
			}
		}
	}
	return CategoryOther
}

// Result is produced per uploaded file.
type Result struct {
	ObjectID     string       `json:"object_id"`
	PublicURL    string       `json:"public_url"`
	MimeCategory MimeCategory `json:"mime_category"`
}

// DisplayURL renders the public URL for an object given the file role.
// Profile and cover images use sized thumbnails; attachments use the view link.
func DisplayURL(role FileRole, objectID string) string {
	id := url.QueryEscape(objectID)
	switch role {
	case RoleProfile:
		return "https://drive.google.com/thumbnail?authuser=0&sz=w800&id=" + id
	case RoleCover:
		return "https://drive.google.com/thumbnail?authuser=0&sz=w1080&id=" + id
	default:
		return "https://drive.google.com/uc?export=view&id=" + id
	}
}

// URLs extracts public URLs in order.
func URLs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.PublicURL
	}
	return out
}
