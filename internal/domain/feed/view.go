package feed

import (
	"slices"
	"strconv"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// PostViewModel is a post joined with its author and the viewer's relationship to it.
// It is rebuilt on every fetch and never persisted.
type PostViewModel struct {
	ID            string    `json:"id"`
	Author        Author    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	RelativeTime  string    `json:"relative_time"`
	Title         string    `json:"title,omitempty"`
	Body          string    `json:"body"`
	MediaType     MediaType `json:"media_type"`
	MediaURLs     []string  `json:"media_urls"`
	Location      string    `json:"location,omitempty"`
	Hashtags      []string  `json:"hashtags"`
	TaggedUserIDs []string  `json:"tagged_user_ids"`
	LikeCount     int       `json:"like_count"`
	LikeLabel     string    `json:"like_label"`
	CommentCount  int       `json:"comment_count"`
	RepostCount   int       `json:"repost_count"`
	Visibility    string    `json:"visibility"`
	RepostOf      *Author   `json:"repost_of,omitempty"`
	TaggedUser    *Author   `json:"tagged_user,omitempty"`
	IsOwnedByMe   bool      `json:"is_owned_by_current_user"`
	IsLikedByMe   bool      `json:"is_liked_by_current_user"`
	HasMedia      bool      `json:"has_media"`
}

// BuildViewModel merges a record with its resolved author and derives the
// viewer-relative flags.
func BuildViewModel(rec PostRecord, author Author, viewer auth.Identity, now time.Time) PostViewModel {
	if author.UserID == "" {
		author.UserID = rec.Author.ID()
	}
	media := nonNil(rec.MediaURLs)
	vm := PostViewModel{
		ID:            rec.ID,
		Author:        author,
		CreatedAt:     rec.CreatedAt,
		RelativeTime:  RelativeTime(rec.CreatedAt, now),
		Title:         rec.Title,
		Body:          rec.Body,
		MediaType:     rec.MediaType,
		MediaURLs:     media,
		Location:      rec.Location,
		Hashtags:      nonNil(rec.Hashtags),
		TaggedUserIDs: nonNil(rec.TaggedUserIDs),
		LikeCount:     rec.Likes(),
		CommentCount:  rec.Comments(),
		RepostCount:   len(rec.RepostIDs),
		Visibility:    rec.Visibility,
		RepostOf:      rec.RepostOf,
		TaggedUser:    rec.TaggedUser,
		HasMedia:      len(media) > 0,
	}
	vm.LikeLabel = FormatCount(vm.LikeCount)
	if vm.MediaType == "" {
		vm.MediaType = MediaTypeFor(len(media))
	}
	if !viewer.IsZero() {
		vm.IsOwnedByMe = author.UserID == viewer.UserID
		vm.IsLikedByMe = slices.Contains(rec.LikeIDs, viewer.UserID)
	}
	return vm
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RelativeTime renders a compact age such as "12s ago" or "3mo ago".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	secs := int64(now.Sub(t) / time.Second)
	if secs < 0 {
		secs = 0
	}
	if secs < 60 {
		return strconv.FormatInt(secs, 10) + "s ago"
	}
	mins := secs / 60
	if mins < 60 {
		return strconv.FormatInt(mins, 10) + "m ago"
	}
	hours := mins / 60
	if hours < 24 {
		return strconv.FormatInt(hours, 10) + "h ago"
	}
	days := hours / 24
	if days < 30 {
		return strconv.FormatInt(days, 10) + "d ago"
	}
	months := days / 30
	if months < 12 {
		return strconv.FormatInt(months, 10) + "mo ago"
	}
	return strconv.FormatInt(months/12, 10) + "y ago"
}

// FormatCount abbreviates large counts: 1200 -> "1.2K", 3400000 -> "3.4M".
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.Itoa(n)
	}
}
