package main

import (
	"fmt"

	"github.com/jonathan/profile-resolver/internal/config"
	"github.com/jonathan/profile-resolver/internal/engine"
	"github.com/jonathan/profile-resolver/internal/oauth"
	"github.com/jonathan/profile-resolver/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long:  `Start the HTTP gateway that fronts the identity-resolution task engine.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	exchanger := oauth.New(oauth.Config{
		ClientID:    cfg.OAuthClientID,
		AuthURL:     cfg.OAuthAuthURL,
		TokenURL:    cfg.OAuthTokenURL,
		RedirectURL: cfg.OAuthRedirectURL,
	})

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Engine:     engine.NewHTTPClient(cfg.EngineBaseURL),
		Exchanger:  exchanger,
		AppBaseURL: cfg.AppBaseURL,
	})

	return srv.Start()
}
