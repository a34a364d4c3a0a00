package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/application/certificate"
	"github.com/maison/storefront/internal/infrastructure/printing"
)

// generateCertificate wires the renderer and certificate service for one
// invocation. The browser instance is torn down when the command finishes.
func (a *app) generateCertificate(cmd *cobra.Command, orderID uuid.UUID) (string, error) {
	cfg := a.config.Certificate

	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.RenderTimeout,
		RemoteURL:      cfg.ChromeRemoteURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         a.logger.Named("printing"),
	})
	if err != nil {
		return "", err
	}
	defer renderer.Close()

	svc, err := certificate.NewService(a.api, renderer, certificate.Config{
		OutputDir:     cfg.OutputDir,
		RenderTimeout: cfg.RenderTimeout,
		Logger:        a.logger.Named("certificate"),
	})
	if err != nil {
		return "", err
	}

	return svc.Generate(cmd.Context(), orderID)
}
