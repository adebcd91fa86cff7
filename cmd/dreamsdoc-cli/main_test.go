package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
)

func TestCommands(t *testing.T) {
	for name, c := range commands() {
		assert.Equal(t, name, c.name)
		assert.NotEmpty(t, c.description, name)
		assert.NotNil(t, c.run, name)
	}
}

func TestContextFromFlags(t *testing.T) {
	tests := []struct {
		kind, arg string
		want      feed.Context
		wantErr   bool
	}{
		{kind: "global", want: feed.Global()},
		{kind: "GLOBAL", arg: "ignored", want: feed.Global()},
		{kind: "user", arg: "7", want: feed.User("7")},
		{kind: "post", arg: " 12 ", want: feed.Post("12")},
		{kind: "search", arg: "night sky", want: feed.Search("night sky")},
		{kind: "hashtag", arg: "#lucid", want: feed.Hashtag("lucid")},
		{kind: "hashtag", wantErr: true},
		{kind: "timeline", arg: "x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := contextFromFlags(tt.kind, tt.arg)
		if tt.wantErr {
			assert.Error(t, err, tt.kind)
			continue
		}
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.want, got, tt.kind)
	}
}

func TestParseLoginFlags(t *testing.T) {
	opts, err := parseLoginFlags([]string{"--username", " luna ", "--password-stdin"}, strings.NewReader("Dream#2024\n"))
	require.NoError(t, err)
	assert.Equal(t, "luna", opts.Username)
	assert.Equal(t, "Dream#2024", opts.Password)

	_, err = parseLoginFlags([]string{"--password", "x"}, strings.NewReader(""))
	assert.ErrorContains(t, err, "--username")

	_, err = parseLoginFlags([]string{"--username", "luna", "--password", "a", "--password-stdin"}, strings.NewReader("b\n"))
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = parseLoginFlags([]string{"--username", "luna"}, strings.NewReader(""))
	assert.ErrorContains(t, err, "password is required")
}

func TestParseSignUpFlags_DefaultsRole(t *testing.T) {
	opts, err := parseSignUpFlags([]string{"--name", "Luna Park", "--username", "luna", "--email", "luna@example.com", "--password-stdin"},
		strings.NewReader("Dream#2024"))
	require.NoError(t, err)
	assert.Equal(t, "ROLE_USER", opts.Input.Role)
	assert.Equal(t, "Dream#2024", opts.Input.Password)
}

func TestParsePostFlags(t *testing.T) {
	opts, err := parsePostFlags([]string{"--caption", "Flying", "--tags", "lucid,#ocean", "--private", "--role", "cover", "sky.png", "sea.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Flying", opts.Draft.Caption)
	assert.Equal(t, []string{"lucid", "#ocean"}, opts.Draft.Tags)
	assert.Equal(t, feed.VisibilityPrivate, opts.Draft.Visibility)
	assert.Equal(t, upload.RoleCover, opts.Role)
	assert.Equal(t, []string{"sky.png", "sea.jpg"}, opts.Files)

	_, err = parsePostFlags([]string{"--caption", "  "})
	assert.ErrorContains(t, err, "--caption")
}

func TestParseUsersFlags(t *testing.T) {
	opts, err := parseUsersFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, usersOptions{Page: 1, Size: 50}, opts)

	_, err = parseUsersFlags([]string{"--page", "0"})
	assert.Error(t, err)
}

func TestReadMedia_SniffsType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.bin")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	require.NoError(t, os.WriteFile(path, png, 0o600))

	files, err := readMedia([]string{path}, upload.RoleCover)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "sky.bin", files[0].Name)
	assert.Equal(t, "image/png", files[0].MimeType)
	assert.Equal(t, upload.RoleCover, files[0].Role)

	_, err = readMedia([]string{filepath.Join(t.TempDir(), "missing.png")}, upload.RoleCover)
	assert.Error(t, err)
}

func TestPrintPosts(t *testing.T) {
	var buf bytes.Buffer
	posts := []feed.PostViewModel{
		{ID: "2", Author: feed.Author{Username: "sol"}, RelativeTime: "5m", LikeLabel: "1 like", Body: strings.Repeat("dream ", 20)},
		{ID: "1", Author: feed.Author{Name: "Luna"}, RelativeTime: "1h", LikeLabel: "", IsOwnedByMe: true, MediaURLs: []string{"a"}, Body: "short"},
	}

	require.NoError(t, printPosts(&buf, posts))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "sol")
	assert.Contains(t, lines[1], "…")
	assert.Contains(t, lines[2], "Luna (you)")

	buf.Reset()
	require.NoError(t, printPosts(&buf, nil))
	assert.Equal(t, "No posts.\n", buf.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview(" a \n b "))
	long := strings.Repeat("é", maxBodyPreview+5)
	assert.Equal(t, maxBodyPreview, len([]rune(preview(long))))
}

func TestPrintIdentity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printIdentity(&buf, domainauth.Identity{UserID: "7", Username: "luna", Role: domainauth.RoleAdmin, Active: true}))

	out := buf.String()
	assert.Contains(t, out, "Username:")
	assert.Contains(t, out, "luna")
	assert.Contains(t, out, "admin")
	assert.NotContains(t, out, "Email:", "empty fields are skipped")
}

func TestPrintUsersAndSuggestions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsers(&buf, []user.Summary{{UserID: "4", Username: "sol", FirstName: "Sol", Active: true}}))
	assert.Contains(t, buf.String(), "sol")
	assert.Contains(t, buf.String(), "true")

	buf.Reset()
	require.NoError(t, printSuggestions(&buf, nil))
	assert.Equal(t, "No suggestions.\n", buf.String())
}
