package testutil

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
)

// NewIdentity returns a resolved standard identity with fake profile data.
func NewIdentity(id string) auth.Identity {
	return auth.Identity{
		UserID:          id,
		Username:        gofakeit.Username(),
		Email:           gofakeit.Email(),
		Role:            auth.RoleStandard,
		DisplayName:     gofakeit.Name(),
		ProfileImageURL: gofakeit.URL(),
		Active:          true,
	}
}

// NewAuthor returns an author with fake display fields.
func NewAuthor(id string) feed.Author {
	return feed.Author{
		UserID:          id,
		Name:            gofakeit.Name(),
		Username:        gofakeit.Username(),
		ProfileImageURL: gofakeit.URL(),
	}
}

// PostBuilder provides a fluent interface for building PostRecords.
type PostBuilder struct {
	rec feed.PostRecord
}

// NewPost starts a text post by an inline author.
func NewPost(id string) *PostBuilder {
	return &PostBuilder{rec: feed.PostRecord{
		ID:         id,
		Author:     feed.InlineAuthor(NewAuthor(strconv.Itoa(gofakeit.Number(1, 9999)))),
		CreatedAt:  TestTime().Add(-time.Duration(gofakeit.Number(1, 3600)) * time.Second),
		Body:       "dreamt of " + gofakeit.City(),
		MediaType:  feed.MediaText,
		Visibility: feed.VisibilityPublic,
	}}
}

// ByAuthorID makes the author a bare reference.
func (b *PostBuilder) ByAuthorID(id string) *PostBuilder {
	b.rec.Author = feed.AuthorID(id)
	return b
}

// ByAuthor sets an inline author.
func (b *PostBuilder) ByAuthor(a feed.Author) *PostBuilder {
	b.rec.Author = feed.InlineAuthor(a)
	return b
}

// LikedBy sets the liking user ids.
func (b *PostBuilder) LikedBy(ids ...string) *PostBuilder {
	b.rec.LikeIDs = ids
	return b
}

// Build returns the record.
func (b *PostBuilder) Build() feed.PostRecord { return b.rec }

// NewUser returns a user summary with fake names.
func NewUser(id string) user.Summary {
	return user.Summary{
		UserID:    id,
		Username:  gofakeit.Username(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Role:      "ROLE_USER",
		Active:    true,
	}
}

// NewImage returns a small attachment with PNG magic bytes.
func NewImage(name string) upload.File {
	return upload.File{
		Name:     name,
		MimeType: "image/png",
		Role:     upload.RoleAttachment,
		Content:  []byte("\x89PNG\r\n\x1a\n" + gofakeit.Password(true, true, true, false, false, 16)),
	}
}

// DreamJSON renders a backend list item for a post.
func DreamJSON(rec feed.PostRecord) map[string]any {
	item := map[string]any{
		"dreamId":    rec.ID,
		"content":    rec.Body,
		"title":      rec.Title,
		"visibility": rec.Visibility,
		"createdAt":  rec.CreatedAt.Format("2006-01-02T15:04:05"),
	}
	if a, ok := rec.Author.Inline(); ok {
		item["user"] = map[string]any{
			"userId":    a.UserID,
			"username":  a.Username,
			"firstName": a.Name,
			"profile":   a.ProfileImageURL,
		}
	} else {
		item["userId"] = rec.Author.ID()
	}
	if len(rec.LikeIDs) > 0 {
		item["likes"] = rec.LikeIDs
	}
	return item
}

// PageJSON renders a paged backend response body.
func PageJSON(recs ...feed.PostRecord) []byte {
	items := make([]map[string]any, len(recs))
	for i, r := range recs {
		items[i] = DreamJSON(r)
	}
	b, err := json.Marshal(map[string]any{"content": items, "totalElements": len(items)})
	if err != nil {
		panic(err)
	}
	return b
}
