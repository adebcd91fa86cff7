package feed

import (
	"strings"
)

// Visibility values accepted by the backend.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Draft is a post being composed. Caption is required; media is optional.
type Draft struct {
	Title      string   `json:"title"      validate:"max=120"`
	Caption    string   `json:"caption"    validate:"required,max=2200"`
	Tags       []string `json:"tags"       validate:"max=30,dive,max=50"`
	Location   string   `json:"location"   validate:"max=120"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=public private"`
}

// Normalize trims text fields and canonicalizes tags.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Caption = strings.TrimSpace(d.Caption)
	d.Location = strings.TrimSpace(d.Location)
	d.Visibility = strings.ToLower(strings.TrimSpace(d.Visibility))
	if d.Visibility == "" {
		d.Visibility = VisibilityPublic
	}
	d.Tags = hashtags(strings.Join(d.Tags, ","))
}

// CreatePost is the backend payload for a new dream.
type CreatePost struct {
	UserID     string   `json:"userId"`
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content"`
	Tags       string   `json:"tags,omitempty"`
	Visibility string   `json:"visibility"`
	Location   string   `json:"location,omitempty"`
	MediaURLs  []string `json:"mediaUrls,omitempty"`
}

// ToCreatePost builds the backend payload. Tags travel as a comma string.
func (d Draft) ToCreatePost(userID string, mediaURLs []string) CreatePost {
	return CreatePost{
		UserID:     userID,
		Title:      d.Title,
		Content:    d.Caption,
		Tags:       strings.Join(d.Tags, ","),
		Visibility: d.Visibility,
		Location:   d.Location,
		MediaURLs:  mediaURLs,
	}
}
