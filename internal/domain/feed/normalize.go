package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmespath-community/go-jmespath"
)

// FieldPaths are the JMESPath expressions used to read a post item.
// The backend names the same field differently across endpoints, so each
// expression lists the known spellings in order of preference.
type FieldPaths struct {
	ID         string
	Author     string
	AuthorID   string
	CreatedAt  string
	Title      string
	Body       string
	MediaType  string
	MediaURLs  string
	Location   string
	Hashtags   string
	Tagged     string
	Likes      string
	Reactions  string
	LikeCount  string
	Comments   string
	CommentCnt string
	Reposts    string
	Visibility string
	RepostOf   string
	TaggedUser string
}

// DefaultFieldPaths covers the list, detail and legacy post shapes.
func DefaultFieldPaths() FieldPaths {
	return FieldPaths{
		ID:         `dreamId || "$id" || id`,
		Author:     `user || author || owner`,
		AuthorID:   `user.userId || author.userId || userId || user_id || authorId`,
		CreatedAt:  `createdAt || "$createdAt" || created_at`,
		Title:      `title`,
		Body:       `content || caption || body`,
		MediaType:  `mediaType || type`,
		MediaURLs:  `mediaUrls || files || media || images`,
		Location:   `location`,
		Hashtags:   `hashtags || tags`,
		Tagged:     `tagged_people || taggedUsers || taggedUserIds`,
		Likes:      `likes`,
		Reactions:  `reactions[?type == 'like' || type == 'LIKE'].userId`,
		LikeCount:  `likeCount || likesCount`,
		Comments:   `comments || comment`,
		CommentCnt: `commentCount || commentsCount`,
		Reposts:    `reposts || repostIds`,
		Visibility: `visibility`,
		RepostOf:   `repost_user_data || repostOf`,
		TaggedUser: `tagged_user_data || taggedUser`,
	}
}

// authorPaths read an author sub-object.
var authorPaths = struct {
	ID, First, Last, Name, Username, Avatar, Verified string
}{
	ID:       `userId || id || "$id"`,
	First:    `firstName || first_name`,
	Last:     `lastName || last_name`,
	Name:     `name || displayName`,
	Username: `username`,
	Avatar:   `profile || profileImage || profileImageUrl || avatar || imageUrl`,
	Verified: `not_null(verified, isVerified)`,
}

type searchFn func(data any) (any, error)

type compiledPaths struct {
	id, author, authorID, createdAt, title, body, mediaType, mediaURLs searchFn
	location, hashtags, tagged, likes, reactions, likeCount            searchFn
	comments, commentCnt, reposts, visibility, repostOf, taggedUser    searchFn

	aID, aFirst, aLast, aName, aUsername, aAvatar, aVerified searchFn
}

// Normalizer converts backend JSON documents into PostRecords.
type Normalizer struct {
	p compiledPaths
}

// NewNormalizer compiles the field paths.
func NewNormalizer(paths FieldPaths) (*Normalizer, error) {
	var c compiledPaths
	targets := []struct {
		dst  *searchFn
		expr string
	}{
		{&c.id, paths.ID}, {&c.author, paths.Author}, {&c.authorID, paths.AuthorID},
		{&c.createdAt, paths.CreatedAt}, {&c.title, paths.Title}, {&c.body, paths.Body},
		{&c.mediaType, paths.MediaType}, {&c.mediaURLs, paths.MediaURLs},
		{&c.location, paths.Location}, {&c.hashtags, paths.Hashtags}, {&c.tagged, paths.Tagged},
		{&c.likes, paths.Likes}, {&c.reactions, paths.Reactions}, {&c.likeCount, paths.LikeCount},
		{&c.comments, paths.Comments}, {&c.commentCnt, paths.CommentCnt},
		{&c.reposts, paths.Reposts}, {&c.visibility, paths.Visibility},
		{&c.repostOf, paths.RepostOf}, {&c.taggedUser, paths.TaggedUser},
		{&c.aID, authorPaths.ID}, {&c.aFirst, authorPaths.First}, {&c.aLast, authorPaths.Last},
		{&c.aName, authorPaths.Name}, {&c.aUsername, authorPaths.Username},
		{&c.aAvatar, authorPaths.Avatar}, {&c.aVerified, authorPaths.Verified},
	}
	for _, t := range targets {
		compiled, err := jmespath.Compile(t.expr)
		if err != nil {
			return nil, fmt.Errorf("compile field path %q: %w", t.expr, err)
		}
		*t.dst = compiled.Search
	}
	return &Normalizer{p: c}, nil
}

// MustNormalizer is NewNormalizer(DefaultFieldPaths()) and panics on error.
func MustNormalizer() *Normalizer {
	n, err := NewNormalizer(DefaultFieldPaths())
	if err != nil {
		panic(err)
	}
	return n
}

// Skipped is an item Records left out of its result.
type Skipped struct {
	Index int
	Err   error
}

// Decode parses a response body and normalizes every post it contains.
func (n *Normalizer) Decode(body []byte) ([]PostRecord, []Skipped, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode posts: %w", err)
	}
	return n.Records(doc)
}

// Records normalizes a decoded document. Bare arrays, paged objects
// ({"content": [...]}) and single post objects are accepted. Items that
// cannot be normalized are skipped and reported; the rest keep their order.
func (n *Normalizer) Records(doc any) ([]PostRecord, []Skipped, error) {
	items, err := listItems(doc)
	if err != nil {
		return nil, nil, err
	}
	out := make([]PostRecord, 0, len(items))
	var skipped []Skipped
	for i, item := range items {
		rec, err := n.Record(item)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func listItems(doc any) ([]any, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range []string{"content", "items", "data"} {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
		return []any{v}, nil
	default:
		return nil, fmt.Errorf("unexpected posts document of type %T", doc)
	}
}

// Record normalizes one post item.
func (n *Normalizer) Record(item any) (PostRecord, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return PostRecord{}, fmt.Errorf("post is %T, not an object", item)
	}
	p := n.p
	rec := PostRecord{
		ID:         scalar(p.id, obj),
		Title:      scalar(p.title, obj),
		Body:       scalar(p.body, obj),
		Location:   scalar(p.location, obj),
		Visibility: strings.ToLower(scalar(p.visibility, obj)),
		CreatedAt:  timestamp(search(p.createdAt, obj)),
		MediaURLs:  stringList(search(p.mediaURLs, obj)),
		Hashtags:   hashtags(search(p.hashtags, obj)),
	}
	if rec.ID == "" {
		return PostRecord{}, errors.New("post has no id")
	}
	if rec.Visibility == "" {
		rec.Visibility = "public"
	}

	if a, ok := n.author(search(p.author, obj)); ok && (a.Username != "" || a.Name != "") {
		rec.Author = InlineAuthor(a)
	} else {
		rec.Author = AuthorID(scalar(p.authorID, obj))
	}

	rec.MediaType = parseMediaType(scalar(p.mediaType, obj), len(rec.MediaURLs))
	rec.TaggedUserIDs = idList(search(p.tagged, obj))
	rec.RepostIDs = idList(search(p.reposts, obj))

	switch likes := search(p.likes, obj).(type) {
	case float64:
		rec.LikeCount = int(likes)
	case []any:
		rec.LikeIDs = idList(likes)
	}
	if rec.LikeIDs == nil {
		rec.LikeIDs = idList(search(p.reactions, obj))
	}
	if c, ok := search(p.likeCount, obj).(float64); ok {
		rec.LikeCount = max(rec.LikeCount, int(c))
	}

	switch comments := search(p.comments, obj).(type) {
	case float64:
		rec.CommentCount = int(comments)
	case []any:
		rec.CommentIDs = idList(comments)
	}
	if c, ok := search(p.commentCnt, obj).(float64); ok {
		rec.CommentCount = max(rec.CommentCount, int(c))
	}

	if a, ok := n.author(search(p.repostOf, obj)); ok {
		rec.RepostOf = &a
	}
	if a, ok := n.author(search(p.taggedUser, obj)); ok {
		rec.TaggedUser = &a
	}
	return rec, nil
}

// author reads an author sub-object; ok is false when v is not an object.
func (n *Normalizer) author(v any) (Author, bool) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return Author{}, false
	}
	p := n.p
	name := scalar(p.aName, obj)
	if name == "" {
		name = strings.TrimSpace(scalar(p.aFirst, obj) + " " + scalar(p.aLast, obj))
	}
	verified, _ := search(p.aVerified, obj).(bool)
	return Author{
		UserID:          scalar(p.aID, obj),
		Name:            name,
		Username:        scalar(p.aUsername, obj),
		ProfileImageURL: scalar(p.aAvatar, obj),
		Verified:        verified,
	}, true
}

// AuthorFromJSON normalizes a user payload into an Author.
func (n *Normalizer) AuthorFromJSON(body []byte) (Author, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Author{}, fmt.Errorf("decode author: %w", err)
	}
	a, ok := n.author(doc)
	if !ok {
		return Author{}, fmt.Errorf("author payload is %T, not an object", doc)
	}
	return a, nil
}

func search(fn searchFn, data any) any {
	v, err := fn(data)
	if err != nil {
		return nil
	}
	return v
}

func scalar(fn searchFn, data any) string {
	return toString(search(fn, data))
}

// toString renders ids and text uniformly; numeric ids arrive as float64.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		if s := toString(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := toString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// idList accepts arrays of ids or of objects carrying an id.
func idList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			for _, key := range []string{"userId", "commentId", "dreamId", "id", "$id"} {
				if s := toString(obj[key]); s != "" {
					out = append(out, s)
					break
				}
			}
			continue
		}
		if s := toString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// hashtags accepts an array or a comma/space separated string and returns
// unique tags without the leading '#', in first-seen order.
func hashtags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ' ' })
	default:
		raw = stringList(v)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func parseMediaType(s string, n int) MediaType {
	switch strings.ToLower(s) {
	case "text":
		return MediaText
	case "single", "single-media", "image", "video":
		return MediaSingle
	case "multi", "multiple", "multi-media", "carousel":
		return MediaMulti
	default:
		return MediaTypeFor(n)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// timestamp accepts ISO strings, epoch milliseconds, and the array form
// [yyyy, mm, dd, hh, mm, ss, nanos] that Java date-times serialize to.
// Zone-less values are read as UTC.
func timestamp(v any) time.Time {
	switch t := v.(type) {
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts
			}
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC()
	case []any:
		parts := make([]int, 7)
		for i := 0; i < len(t) && i < len(parts); i++ {
			f, _ := t[i].(float64)
			parts[i] = int(f)
		}
		if parts[0] == 0 {
			return time.Time{}
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
	}
	return time.Time{}
}
