package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appsession "github.com/maison/storefront/internal/application/session"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/config"
	"github.com/maison/storefront/internal/infrastructure/logger"
	"github.com/maison/storefront/internal/infrastructure/token"
)

// app holds the wired collaborators every command shares. It is built once
// in the root command's PersistentPreRunE, after flags are parsed.
type app struct {
	config   *config.Config
	logger   *zap.Logger
	tokens   *token.Store
	api      *backend.Client
	sessions *appsession.Store
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Luxury goods storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newPasswordResetCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newProfileCommand(a),
		newCatalogCommand(a),
		newCartCommand(a),
		newWishlistCommand(a),
		newCheckoutCommand(a),
		newOrdersCommand(a),
		newCertificateCommand(a),
		newAdminCommand(a),
	)

	return root
}

// bootstrap loads config, wires the collaborators, and restores the session
// from the stored token pair. A failed restore degrades to logged out and
// is never fatal.
func (a *app) bootstrap(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.config = cfg

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = log

	a.tokens = token.NewStore(cfg.Token.Path)

	client, err := backend.NewClient(&backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Logger:  log.Named("backend"),
	}, a.tokens)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	a.api = client

	a.sessions = appsession.NewStore(client, a.tokens, log.Named("session"))
	return a.sessions.Initialize(cmd.Context())
}

// requireSignIn fails a command early when no session is active
func (a *app) requireSignIn() error {
	if !a.sessions.SignedIn() {
		return fmt.Errorf("not signed in; run `storefront login` first")
	}
	return nil
}

// requireAdmin gates the admin subtree on the role flag
func (a *app) requireAdmin() error {
	if err := a.requireSignIn(); err != nil {
		return err
	}
	if !a.sessions.IsAdmin() {
		return fmt.Errorf("admin access required")
	}
	return nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id: %w", what, err)
	}
	return id, nil
}
