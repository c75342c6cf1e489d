package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type loginCmd struct {
	email string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and save the session token" }
func (*loginCmd) Usage() string {
	return `deskctl login -email <email>

  Reads the password from NIVESH_PASSWORD or, when unset, from the first
  line of standard input.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Advisor email")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		return subcommands.ExitUsageError
	}
	a, status, ok := setup(false)
	if !ok {
		return status
	}

	password := os.Getenv("NIVESH_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return subcommands.ExitFailure
		}
		password = strings.TrimRight(line, "\r\n")
	}

	user, err := a.sess.Login(ctx, c.email, password)
	if err != nil {
		return a.fail(err)
	}
	if err := a.persist(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: signed in but could not save the token: %v\n", err)
	}
	fmt.Printf("Signed in as %s (%s)\n", displayUser(user.Name, user.Email), user.Role)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "forget the saved session" }
func (*logoutCmd) Usage() string            { return "deskctl logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status, ok := setup(false)
	if !ok {
		return status
	}
	a.sess.Logout()
	if err := a.forget(); err != nil {
		return a.fail(err)
	}
	fmt.Println("Signed out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the signed-in advisor" }
func (*whoamiCmd) Usage() string            { return "deskctl whoami\n" }
func (*whoamiCmd) SetFlags(_ *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	user, err := a.api.Me(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.sess.SetUser(user)
	fmt.Printf("%s (%s)\n", displayUser(user.Name, user.Email), user.Role)
	return subcommands.ExitSuccess
}

func displayUser(name, email string) string {
	if name == "" {
		return email
	}
	return name + " <" + email + ">"
}
