package cmd

import (
	"context"
	"github.com/spf13/cobra"
	"log"
	"os"
	"os/signal"
)

func Start() {
	cfg := newCfg("env")
	newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var devMode bool

	rootCmd := &cobra.Command{Use: "ru-ticket"}
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "ignore meal windows")

	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx, devMode)
			},
		},
		{
			Use:   "serve-queue:ticket",
			Short: "Run queue ticket event server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueTicketCmd(ctx)
			},
		},
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx, true)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				if cfg.GetString("nats.addr") == "" || cfg.GetString("store.driver") != "postgres" {
					return
				}
				go func() {
					runQueueTicketCmd(ctx)
				}()
			},
		},
		newClientCmd(ctx, &devMode),
		newGateCmd(ctx),
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
