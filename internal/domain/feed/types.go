// Package feed holds post records, feed contexts and the view models built from them.
package feed

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MediaType classifies how a post's media renders.
type MediaType string

const (
	MediaText   MediaType = "text"
	MediaSingle MediaType = "single-media"
	MediaMulti  MediaType = "multi-media"
)

// MediaTypeFor derives the media type from the number of attachments.
func MediaTypeFor(n int) MediaType {
	switch {
	case n <= 0:
		return MediaText
	case n == 1:
		return MediaSingle
	default:
		return MediaMulti
	}
}

// Author carries the display fields of a post's author.
type Author struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Verified        bool   `json:"verified"`
}

// AuthorRef is either an inline author or a bare id that needs a lookup.
type AuthorRef struct {
	inline *Author
	id     string
}

// InlineAuthor wraps an author sub-object delivered with the post.
func InlineAuthor(a Author) AuthorRef { return AuthorRef{inline: &a, id: a.UserID} }

// AuthorID wraps a bare author id.
func AuthorID(id string) AuthorRef { return AuthorRef{id: id} }

// Inline returns the inline author, if any.
func (r AuthorRef) Inline() (Author, bool) {
	if r.inline == nil {
		return Author{}, false
	}
	return *r.inline, true
}

// ID returns the author id for either shape.
func (r AuthorRef) ID() string { return r.id }

// PostRecord is a post as the backend returned it, after field normalization.
type PostRecord struct {
	ID            string
	Author        AuthorRef
	CreatedAt     time.Time
	Title         string
	Body          string
	MediaType     MediaType
	MediaURLs     []string
	Location      string
	Hashtags      []string
	TaggedUserIDs []string
	LikeIDs       []string
	LikeCount     int
	CommentIDs    []string
	CommentCount  int
	RepostIDs     []string
	Visibility    string
	RepostOf      *Author
	TaggedUser    *Author
}

// Likes returns the like count, preferring an explicit count when larger.
func (p PostRecord) Likes() int { return max(p.LikeCount, len(p.LikeIDs)) }

// Comments returns the comment count.
func (p PostRecord) Comments() int { return max(p.CommentCount, len(p.CommentIDs)) }

// Kind names a feed context.
type Kind string

const (
	KindGlobal  Kind = "global"
	KindUser    Kind = "user"
	KindPost    Kind = "post"
	KindSearch  Kind = "search"
	KindHashtag Kind = "hashtag"
)

// Context is a particular scope of posts.
type Context struct {
	Kind Kind
	Arg  string
}

// Global is the explore feed.
func Global() Context { return Context{Kind: KindGlobal} }

// User is one user's feed.
func User(userID string) Context { return Context{Kind: KindUser, Arg: userID} }

// Post is a single post.
func Post(id string) Context { return Context{Kind: KindPost, Arg: id} }

// Search is a free-text search.
func Search(q string) Context { return Context{Kind: KindSearch, Arg: strings.TrimSpace(q)} }

// Hashtag is a tag feed. A leading '#' is dropped.
func Hashtag(tag string) Context {
	return Context{Kind: KindHashtag, Arg: strings.TrimPrefix(strings.TrimSpace(tag), "#")}
}

// Validate checks the context has the argument its kind needs.
func (c Context) Validate() error {
	switch c.Kind {
	case KindGlobal:
		return nil
	case KindUser, KindPost, KindSearch, KindHashtag:
		if c.Arg == "" {
			return fmt.Errorf("feed context %s requires an argument", c.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown feed context %q", c.Kind)
	}
}

// Key is a stable identifier used to register views.
func (c Context) Key() string {
	if c.Kind == KindGlobal {
		return string(c.Kind)
	}
	return string(c.Kind) + ":" + url.PathEscape(c.Arg)
}

func (c Context) String() string { return c.Key() }

// ParseKey is the inverse of Key.
func ParseKey(key string) (Context, error) {
	kind, arg, _ := strings.Cut(key, ":")
	unescaped, err := url.PathUnescape(arg)
	if err != nil {
		return Context{}, fmt.Errorf("parse feed key %q: %w", key, err)
	}
	c := Context{Kind: Kind(kind), Arg: unescaped}
	if err := c.Validate(); err != nil {
		return Context{}, err
	}
	return c, nil
}
