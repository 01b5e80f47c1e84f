package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push [file|-]",
	Short: "Save a hojas payload locally and upload it",
	Long: `push reads a JSON payload from the given file, or stdin when the argument
is "-" or missing, saves it to the local store and waits for the background
upload to finish.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readPayload(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		agent, err := services.NewSyncAgent(ctx, *config, nil)
		if err != nil {
			return err
		}
		defer agent.Shutdown(context.Background())

		if err := agent.Saver().Save(ctx, raw); err != nil {
			return fmt.Errorf("local save failed: %w", err)
		}
		agent.Tasks().Wait()
		return nil
	},
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return raw, nil
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
