package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/router"
	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// authStatus is what `auth status` reports.
type authStatus struct {
	Origin      string          `json:"origin"`
	Present     bool            `json:"present"`
	Claims      *session.Claims `json:"claims,omitempty"`
	Expired     bool            `json:"expired"`
	User        *models.User    `json:"user,omitempty"`
	ServerError string          `json:"server_error,omitempty"`
	Route       string          `json:"route"`
}

// AuthLogin exchanges credentials for a token, stores it and reports the landing view.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if email == "" {
		var err error
		if email, err = r.prompt("Email"); err != nil {
			return err
		}
	}
	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.prompt("Password"); err != nil {
			return err
		}
	}

	token, err := r.client.Auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, shared.ErrBadCredentials) {
			return fmt.Errorf("login failed for %s: %w", email, shared.ErrBadCredentials)
		}
		return fmt.Errorf("login failed: %w", err)
	}
	if err := r.store.SetToken(token.AccessToken); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.logger.Info("logged in", "email", email)

	out, err := r.navigator.Navigate(router.LoginPath)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Logged in. Landing view: %s\n", out.Route.Path)
}

// AuthRegister creates an account and optionally logs in with it.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := models.RegisterRequest{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Name:     cmd.String("name"),
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fmt.Errorf("%w: --email, --password and --name are required", shared.ErrMissingArgument)
	}

	user, err := r.client.Auth.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	r.writePlain("✓ Registered %s (user %d)\n", user.DisplayName(), user.UserID)

	if !cmd.Bool("login") {
		return nil
	}
	token, err := r.client.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := r.store.SetToken(token.AccessToken); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return r.writePlain("✓ Logged in\n")
}

// AuthLogout ends the session. The local credential is cleared even if the server call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Auth.Logout(ctx); err != nil {
		return err
	}
	if _, err := r.navigator.ForceLogin("logout"); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami prints the user behind the stored credential.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !session.Present(r.store) {
		return shared.ErrNotAuthenticated
	}

	user, err := r.client.Auth.Me(ctx)
	if err != nil {
		return err
	}

	tbl := formatter.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"User ID", strconv.Itoa(user.UserID)},
			{"Name", deref(user.Name)},
			{"Email", deref(user.Email)},
			{"Friend code", deref(user.FriendCode)},
		},
	}
	return r.emit(cmd, user, tbl)
}

// AuthStatus decodes the stored credential locally and then asks the server whether it still holds.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := authStatus{Origin: r.origin(), Present: session.Present(r.store)}

	if status.Present {
		token, _ := r.store.Token()
		if claims, err := session.Inspect(token); err == nil {
			status.Claims = &claims
			status.Expired = claims.Expired(time.Now())
		} else {
			r.logger.Debug("credential is opaque", "error", err)
		}

		user, err := r.client.Auth.Me(ctx)
		switch {
		case err == nil:
			status.User = user
		case errors.Is(err, shared.ErrSessionExpired):
			status.ServerError = "credential rejected; it has been cleared"
			status.Present = false
		default:
			status.ServerError = err.Error()
		}
	}

	out, err := r.navigator.Resolve(r.navigator.Table().Landing())
	if err != nil {
		return err
	}
	status.Route = out.Route.Path

	return r.emit(cmd, status, statusTable(status))
}

func statusTable(s authStatus) formatter.Table {
	present := "no"
	if s.Present {
		present = "yes"
	}
	rows := [][]string{
		{"Origin", s.Origin},
		{"Credential", present},
	}
	if s.Claims != nil {
		if s.Claims.Subject != "" {
			rows = append(rows, []string{"Subject", s.Claims.Subject})
		}
		if s.Claims.ExpiresAt != nil {
			exp := s.Claims.ExpiresAt.Local().Format(time.RFC1123)
			if s.Expired {
				exp += " (expired)"
			}
			rows = append(rows, []string{"Expires", exp})
		}
	}
	if s.User != nil {
		rows = append(rows, []string{"User", fmt.Sprintf("%s (%d)", s.User.DisplayName(), s.User.UserID)})
	}
	if s.ServerError != "" {
		rows = append(rows, []string{"Server", s.ServerError})
	}
	rows = append(rows, []string{"Opens at", s.Route})

	return formatter.Table{Title: "Session", Headers: []string{"Field", "Value"}, Rows: rows}
}

// AuthImport stores the bearer credential found in a copied browser request.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot use both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		req *shared.CurlRequest
		err error
	)
	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
	}
	if err != nil {
		return fmt.Errorf("failed to parse curl command: %w", err)
	}

	token, err := req.BearerToken()
	if err != nil {
		return err
	}

	if origin := req.Origin(); origin != "" {
		if want := r.origin(); want != "" {
			if got, err := session.Origin(origin); err == nil && got != want {
				r.logger.Warn("copied request targets a different API", "request", got, "configured", want)
			}
		}
	}

	if err := r.store.SetToken(token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.logger.Info("session imported", "origin", r.origin())
	return r.writePlain("✓ Session imported\n")
}

// AuthSessions lists the credentials kept in the session database.
func (r *Runner) AuthSessions(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session database is not open; run `mfx setup`", shared.ErrMissingConfig)
	}

	list, err := r.sessions.List()
	if err != nil {
		return err
	}

	current := r.origin()
	tbl := formatter.Table{Title: "Stored sessions", Headers: []string{"Origin", "Updated", "Active"}}
	for _, s := range list {
		active := ""
		if s.Origin == current {
			active = "*"
		}
		tbl.Rows = append(tbl.Rows, []string{s.Origin, s.UpdatedAt.Local().Format(time.DateTime), active})
	}
	return r.emit(cmd, list, tbl)
}

// origin returns the key the credential is stored under, or "" when it cannot be derived.
func (r *Runner) origin() string {
	if p, ok := r.store.(interface{ Origin() string }); ok {
		return p.Origin()
	}
	origin, err := session.Origin(r.client.BaseURL())
	if err != nil {
		return ""
	}
	return origin
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
