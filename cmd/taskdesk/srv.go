package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"taskdesk/internal/blobstore"
	"taskdesk/internal/config"
	"taskdesk/internal/identity"
	"taskdesk/internal/server"
	"taskdesk/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the taskdesk API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			if cfg.BlobRoot == "" {
				return fmt.Errorf("blob root is required")
			}

			logger := slog.Default().With("component", "server")

			if cfg.Identity.SigningKey == config.DefaultSigningKey {
				logger.Warn("using built-in development signing key; set identity.signing_key for production")
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			bs, err := blobstore.NewLocal(cfg.BlobRoot)
			if err != nil {
				return err
			}

			provider, err := identity.NewLocal(st, identity.LocalConfig{
				DirectoryID: cfg.Identity.DirectoryID,
				ClientID:    cfg.Identity.ClientID,
				SigningKey:  []byte(cfg.Identity.SigningKey),
				TokenTTL:    time.Duration(cfg.Identity.TokenTTLSecs) * time.Second,
			}, slog.Default().With("component", "identity"))
			if err != nil {
				return err
			}

			srv := server.New(cfg.ListenAddr, st, bs, provider, logger)
			return srv.ListenAndServe()
		},
	}
}
