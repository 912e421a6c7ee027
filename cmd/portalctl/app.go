package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/db"
	"github.com/capstone-insurance/portal/internal/gateway"
	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/services"
	"github.com/capstone-insurance/portal/internal/validation"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in")

// app holds what every command needs, it is set up before any command runs.
type app struct {
	output  string
	apiURL  string
	verbose bool

	client   *gateway.Client
	services services.Services
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	if a.output != outputYAML && a.output != outputJSON {
		return fmt.Errorf("unknown output format %q (must be one of %s, %s)", a.output, outputYAML, outputJSON)
	}
	cfg, err := config.NewConfigHandler().Config()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	repo, err := db.NewCredentialRepository(cfg.Storage)
	if err != nil {
		return err
	}
	cookiePath, err := cfg.Storage.CookieFilePath()
	if err != nil {
		return err
	}
	jar, err := db.NewFileCookieJar(cookiePath)
	if err != nil {
		return err
	}
	a.client, err = gateway.NewClient(
		gateway.WithAPIConfig(cfg.API),
		gateway.WithCookieJar(jar),
		gateway.WithCredentialStore(db.NewCredentialStore(repo, "")),
		gateway.WithSessionExpiredHandler(func(err error) {
			slog.Debug("PORTALCTL", "message", "session expired", "error", err)
		}),
	)
	if err != nil {
		return err
	}
	a.services = services.New(a.client)
	return nil
}

// requireSession checks that a usable credential is stored before calling protected endpoints.
func (a *app) requireSession(cmd *cobra.Command, _ []string) error {
	_, err := a.client.RestoreSession(cmd.Context())
	if errors.Is(err, gwerrors.ErrCredentialNotFound) {
		return errNotLoggedIn
	}
	if errors.Is(err, gwerrors.ErrInvalidCredential) {
		return fmt.Errorf("%w: the stored session was unusable and has been removed", errNotLoggedIn)
	}
	return err
}

func (a *app) print(cmd *cobra.Command, value any) error {
	return printOutput(cmd.OutOrStdout(), a.output, value)
}

// readLine prompts on stderr and reads one line from the command input.
func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r\n"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", nil
}

func formError(errs validation.Errors) error {
	lines := []string{}
	for pair := errs.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, fmt.Sprintf("  %s: %s", pair.Key, pair.Value))
	}
	return fmt.Errorf("invalid input:\n%s", strings.Join(lines, "\n"))
}
