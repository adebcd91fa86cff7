package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dreamsdoc/dreamsdoc-web/internal/bootstrap"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
)

const maxBodyPreview = 60

type feedOptions struct {
	Context feed.Context
	JSON    bool
}

func parseFeedFlags(args []string) (feedOptions, error) {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		opts feedOptions
		kind string
		arg  string
	)
	fs.StringVar(&kind, "kind", "global", "Feed kind: global, user, post, search or hashtag")
	fs.StringVar(&arg, "arg", "", "User ID, post ID, search query or hashtag for non-global kinds")
	fs.BoolVar(&opts.JSON, "json", false, "Print posts as JSON")

	if err := fs.Parse(args); err != nil {
		return feedOptions{}, err
	}
	c, err := contextFromFlags(kind, arg)
	if err != nil {
		return feedOptions{}, err
	}
	opts.Context = c
	return opts, nil
}

func contextFromFlags(kind, arg string) (feed.Context, error) {
	arg = strings.TrimSpace(arg)
	k := feed.Kind(strings.ToLower(strings.TrimSpace(kind)))
	if k == feed.KindGlobal {
		return feed.Global(), nil
	}
	if arg == "" {
		return feed.Context{}, fmt.Errorf("--arg is required for %s feeds", k)
	}
	switch k {
	case feed.KindUser:
		return feed.User(arg), nil
	case feed.KindPost:
		return feed.Post(arg), nil
	case feed.KindSearch:
		return feed.Search(arg), nil
	case feed.KindHashtag:
		return feed.Hashtag(arg), nil
	default:
		return feed.Context{}, fmt.Errorf("unknown feed kind %q", kind)
	}
}

func runFeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseFeedFlags(args)
	if err != nil {
		return err
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		viewer, err := requireIdentity(ctx, svcs)
		if err != nil {
			return err
		}
		posts, err := svcs.Feed.Fetch(ctx, opts.Context, viewer)
		if err != nil {
			return err
		}
		if opts.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(posts)
		}
		return printPosts(os.Stdout, posts)
	})
}

func printPosts(w io.Writer, posts []feed.PostViewModel) error {
	if len(posts) == 0 {
		return writeln(w, "No posts.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tAUTHOR\tWHEN\tLIKES\tMEDIA\tBODY"); err != nil {
		return err
	}
	for _, p := range posts {
		author := p.Author.Username
		if author == "" {
			author = p.Author.Name
		}
		if p.IsOwnedByMe {
			author += " (you)"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, author, p.RelativeTime, p.LikeLabel, len(p.MediaURLs), preview(p.Body)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	r := []rune(body)
	if len(r) <= maxBodyPreview {
		return body
	}
	return string(r[:maxBodyPreview-1]) + "…"
}

type postOptions struct {
	Draft feed.Draft
	Files []string
	Role  upload.FileRole
}

func parsePostFlags(args []string) (postOptions, error) {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		opts    postOptions
		tags    string
		private bool
		role    string
	)
	fs.StringVar(&opts.Draft.Title, "title", "", "Optional title")
	fs.StringVar(&opts.Draft.Caption, "caption", "", "Post caption (required)")
	fs.StringVar(&tags, "tags", "", "Comma-separated hashtags")
	fs.StringVar(&opts.Draft.Location, "location", "", "Optional location")
	fs.BoolVar(&private, "private", false, "Only you can see the post")
	fs.StringVar(&role, "role", string(upload.RoleAttachment), "Media role: attachment, cover or profile")

	if err := fs.Parse(args); err != nil {
		return postOptions{}, err
	}
	if strings.TrimSpace(opts.Draft.Caption) == "" {
		return postOptions{}, errors.New("--caption is required")
	}
	if tags != "" {
		opts.Draft.Tags = strings.Split(tags, ",")
	}
	opts.Draft.Visibility = feed.VisibilityPublic
	if private {
		opts.Draft.Visibility = feed.VisibilityPrivate
	}
	opts.Role = upload.ParseFileRole(role)
	opts.Files = fs.Args()
	return opts, nil
}

func readMedia(paths []string, role upload.FileRole) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		f := upload.File{Name: filepath.Base(p), Role: role, Content: content}
		f.Sniff()
		files = append(files, f)
	}
	return files, nil
}

func runPost(cmdCtx *commandContext, args []string) error {
	opts, err := parsePostFlags(args)
	if err != nil {
		return err
	}
	files, err := readMedia(opts.Files, opts.Role)
	if err != nil {
		return err
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if _, err := requireIdentity(ctx, svcs); err != nil {
			return err
		}
		created, err := svcs.Compose.Create(ctx, opts.Draft, files)
		if err != nil {
			return err
		}
		if err := writeln(os.Stdout, "Posted."); err != nil {
			return err
		}
		for _, u := range created.MediaURLs {
			if err := writef(os.Stdout, "  %s\n", u); err != nil {
				return err
			}
		}
		return nil
	})
}

func runDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Post ID to delete (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("--id is required")
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if _, err := requireIdentity(ctx, svcs); err != nil {
			return err
		}
		if err := svcs.Compose.Delete(ctx, strings.TrimSpace(*id)); err != nil {
			return err
		}
		return writef(os.Stdout, "Deleted post %s.\n", strings.TrimSpace(*id))
	})
}
