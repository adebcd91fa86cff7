package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dreamsdoc/dreamsdoc-web/internal/bootstrap"
	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

type loginOptions struct {
	Username      string
	Password      string
	PasswordStdin bool
}

func parseLoginFlags(args []string, stdin io.Reader) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Username, "username", "", "Account username (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}

	opts.Username = strings.TrimSpace(opts.Username)
	if opts.Username == "" {
		return loginOptions{}, errors.New("--username is required")
	}
	if opts.PasswordStdin {
		if opts.Password != "" {
			return loginOptions{}, errors.New("--password and --password-stdin are mutually exclusive")
		}
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return loginOptions{}, err
		}
		opts.Password = strings.TrimRight(line, "\r\n")
	}
	if opts.Password == "" {
		return loginOptions{}, errors.New("a password is required (--password or --password-stdin)")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args, os.Stdin)
	if err != nil {
		return err
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		id, err := svcs.Auth.SignIn(ctx, domainauth.SignInInput{Username: opts.Username, Password: opts.Password})
		if err != nil {
			return err
		}
		return printIdentity(os.Stdout, id)
	})
}

type signUpOptions struct {
	Input         domainauth.SignUpInput
	PasswordStdin bool
}

func parseSignUpFlags(args []string, stdin io.Reader) (signUpOptions, error) {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts signUpOptions
	in := &opts.Input
	fs.StringVar(&in.Name, "name", "", "Full name (required)")
	fs.StringVar(&in.Username, "username", "", "Username (required)")
	fs.StringVar(&in.Email, "email", "", "Email address (required)")
	fs.StringVar(&in.Password, "password", "", "Password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
	fs.StringVar(&in.Role, "role", "ROLE_USER", "ROLE_USER or ROLE_ADMIN")
	fs.StringVar(&in.Key, "key", "", "Admin registration key (required for ROLE_ADMIN)")

	if err := fs.Parse(args); err != nil {
		return signUpOptions{}, err
	}
	if opts.PasswordStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return signUpOptions{}, err
		}
		in.Password = strings.TrimRight(line, "\r\n")
	}
	return opts, nil
}

func runSignUp(cmdCtx *commandContext, args []string) error {
	opts, err := parseSignUpFlags(args, os.Stdin)
	if err != nil {
		return err
	}
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if err := svcs.Auth.SignUp(ctx, opts.Input); err != nil {
			return err
		}
		return writef(os.Stdout, "Registered %s. Sign in with: dreamsdoc-cli login --username %s\n",
			opts.Input.Username, opts.Input.Username)
	})
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if err := svcs.Auth.SignOut(ctx); err != nil {
			return err
		}
		return writeln(os.Stdout, "Signed out.")
	})
}

func runWhoAmI(cmdCtx *commandContext, _ []string) error {
	return withServices(cmdCtx, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		id, err := requireIdentity(ctx, svcs)
		if err != nil {
			return err
		}
		return printIdentity(os.Stdout, id)
	})
}

func printIdentity(w io.Writer, id domainauth.Identity) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"User ID", id.UserID},
		{"Username", id.Username},
		{"Name", id.DisplayName},
		{"Email", id.Email},
		{"Role", string(id.Role)},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		if err := writef(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	if err := writef(tw, "Active:\t%t\n", id.Active); err != nil {
		return err
	}
	return tw.Flush()
}
