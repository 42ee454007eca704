// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/answer-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP answer API",
	Long: `Serve starts the HTTP API. POST /api/ accepts the form fields "question"
and an optional "file" and responds with {"answer": "..."}. A request without
a question is rejected with status 400; every other outcome is status 200,
including extractor failures, whose message becomes the answer.

GET /health reports liveness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := buildDispatcher(ctx, cfg, logger)
		if err != nil {
			return err
		}

		return server.NewServer(d, cfg.Server, logger).Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-upload-bytes", 32<<20, "largest accepted upload in bytes")
	serveCmd.Flags().String("shell-mode", "disabled", "shell command execution: disabled, host, or container")
	serveCmd.Flags().String("provider", "openai", "fallback provider: openai, gemini, claude, or static")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_upload_bytes", serveCmd.Flags().Lookup("max-upload-bytes"))
	_ = viper.BindPFlag("shell.mode", serveCmd.Flags().Lookup("shell-mode"))
	_ = viper.BindPFlag("fallback.provider", serveCmd.Flags().Lookup("provider"))

	rootCmd.AddCommand(serveCmd)
}
