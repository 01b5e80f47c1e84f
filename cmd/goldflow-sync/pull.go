package main

import (
	"context"

	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the remote collection into the local store once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		agent, err := services.NewSyncAgent(ctx, *config, nil)
		if err != nil {
			return err
		}
		defer agent.Shutdown(context.Background())

		n := agent.Pull(ctx)
		cmd.Printf("%d hojas downloaded\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
