package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the model server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		client, err := getClient(cfg)
		if err != nil {
			return err
		}

		if err := client.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("model server unreachable at %s: %w", cfg.Model.URL, err)
		}

		fmt.Printf("Model server at %s is reachable (%s)\n", cfg.Model.URL, client.Name())
		return nil
	},
}
