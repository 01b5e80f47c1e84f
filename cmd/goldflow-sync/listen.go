package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Follow live remote changes into the local store until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		printUpdate := func(_ context.Context, hojas []models.Hoja) {
			cmd.Printf("%d hojas received\n", len(hojas))
		}
		agent, err := services.NewSyncAgent(ctx, *config, printUpdate)
		if err != nil {
			return err
		}
		defer agent.Shutdown(context.Background())

		agent.Listen(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}
