package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dreamsdoc/dreamsdoc-web/internal/bootstrap"
	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

var errAdminOnly = errors.New("this command requires an admin account")

func runSuggest(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", cmdCtx.Config.Feed.SuggestionLimit, "Maximum suggestions to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if _, err := requireIdentity(ctx, svcs); err != nil {
			return err
		}
		out, err := svcs.Suggestions.Suggest(ctx, *limit)
		if err != nil {
			return err
		}
		return printSuggestions(os.Stdout, out)
	})
}

func printSuggestions(w io.Writer, out []user.Suggestion) error {
	if len(out) == 0 {
		return writeln(w, "No suggestions.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tUSERNAME\tNAME"); err != nil {
		return err
	}
	for _, s := range out {
		if err := writef(tw, "%s\t%s\t%s\n", s.UserID, s.Username, s.Name); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type usersOptions struct {
	Page int
	Size int
}

func parseUsersFlags(args []string) (usersOptions, error) {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts usersOptions
	fs.IntVar(&opts.Page, "page", 1, "Page number, starting at 1")
	fs.IntVar(&opts.Size, "size", 50, "Users per page")
	if err := fs.Parse(args); err != nil {
		return usersOptions{}, err
	}
	if opts.Page < 1 {
		return usersOptions{}, errors.New("--page must be at least 1")
	}
	return opts, nil
}

func runUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseUsersFlags(args)
	if err != nil {
		return err
	}
	return withAdmin(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		users, err := svcs.Admin.ListUsers(ctx, ports.PageParams{Page: opts.Page, Size: opts.Size})
		if err != nil {
			return err
		}
		return printUsers(os.Stdout, users)
	})
}

func printUsers(w io.Writer, users []user.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tACTIVE"); err != nil {
		return err
	}
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			u.UserID, u.Username, name, u.Email, u.Role, u.Active); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runActivate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("activate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	username := fs.String("username", "", "Username to toggle (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.TrimSpace(*username)
	if name == "" {
		return errors.New("--username is required")
	}
	return withAdmin(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if err := svcs.Admin.ToggleActivation(ctx, name); err != nil {
			return err
		}
		return writef(os.Stdout, "Toggled activation for %s.\n", name)
	})
}

// withAdmin mirrors the route guard: the backend enforces access, this only
// avoids calls that would be rejected anyway.
func withAdmin(cmdCtx *commandContext, fn func(ctx context.Context, svcs bootstrap.ServiceContainer) error) error {
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		id, err := requireIdentity(ctx, svcs)
		if err != nil {
			return err
		}
		if !id.HasRole(domainauth.RoleAdmin) {
			return errAdminOnly
		}
		return fn(ctx, svcs)
	})
}
