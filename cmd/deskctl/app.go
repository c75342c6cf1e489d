package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"nivesh/internal/client"
	"nivesh/internal/config"
	apperrors "nivesh/internal/errors"
	"nivesh/internal/logger"
	"nivesh/internal/session"
)

// app bundles what every subcommand needs. A CLI run is short lived, so one
// app per invocation is enough.
type app struct {
	cfg  *config.DeskConfig
	sess *session.Session
	api  *client.Client
}

// savedSession is the token file format.
type savedSession struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

func newApp() (*app, error) {
	cfg, err := config.LoadDesk(*configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Env)

	sess := session.New(nil)
	api := client.New(cfg.APIURL, nil, cfg.RequestTimeout, sess)
	sess.SetAuthenticator(api)

	a := &app{cfg: cfg, sess: sess, api: api}
	if err := a.restore(); err != nil {
		logger.Named("deskctl").Warnw("Ignoring unreadable token file", "path", cfg.TokenFile, "error", err)
	}
	return a, nil
}

// restore loads a previously saved token. A missing file is not an error.
func (a *app) restore() error {
	if a.cfg.TokenFile == "" {
		return nil
	}
	data, err := os.ReadFile(a.cfg.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}
	a.sess.Restore(saved.Token, saved.User)
	return nil
}

// persist writes the session token so later invocations stay signed in.
func (a *app) persist() error {
	if a.cfg.TokenFile == "" {
		return nil
	}
	user, err := a.sess.CurrentUser()
	if err != nil {
		return err
	}
	data, err := json.Marshal(savedSession{Token: a.sess.Token(), User: user})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(a.cfg.TokenFile, data, 0o600)
}

// forget removes the saved token.
func (a *app) forget() error {
	if a.cfg.TokenFile == "" {
		return nil
	}
	if err := os.Remove(a.cfg.TokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// requireLogin fails fast when no usable token is held.
func (a *app) requireLogin() error {
	if a.sess.Token() == "" {
		return fmt.Errorf("not signed in; run deskctl login first")
	}
	return nil
}

// fail prints err and maps it to an exit status. A rejected token also
// clears the saved session.
func (a *app) fail(err error) subcommands.ExitStatus {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", appErr.Code, appErr.Message)
		for _, field := range sortedKeys(appErr.Fields) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, appErr.Fields[field])
		}
		if appErr.Code == apperrors.ErrUnauthorized.Code {
			_ = a.forget()
		}
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// setup builds the app for a subcommand, reporting configuration errors.
func setup(needLogin bool) (*app, subcommands.ExitStatus, bool) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, subcommands.ExitUsageError, false
	}
	if needLogin {
		if err := a.requireLogin(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, subcommands.ExitFailure, false
		}
	}
	return a, subcommands.ExitSuccess, true
}
