package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/ollama"
)

var (
	modelLogsTail string
	modelPull     string
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the local Ollama container",
	Long: `Manage the lifecycle of a docker-managed Ollama server.

Models are stored under ~/.extractor/ollama/ on the host, so they survive
container removal.

Examples:
  extractor model up                  # Start Ollama (create if needed)
  extractor model up --pull gemma3    # Start and pull the gemma3 model
  extractor model status              # Check container status
  extractor model logs --tail 50      # View server logs
  extractor model down                # Stop the container`,
}

var modelUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the Ollama container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.ValidateExisting(ctx); err != nil {
			return fmt.Errorf("existing container is incompatible: %w", err)
		}

		fmt.Println("Starting Ollama...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start Ollama: %w", err)
		}
		fmt.Printf("Ollama is running at %s\n", mgr.URL())

		if modelPull != "" {
			fmt.Printf("Pulling model %s (this can take a while)...\n", modelPull)
			if err := mgr.PullModel(ctx, modelPull); err != nil {
				return err
			}
			fmt.Printf("Model %s ready\n", modelPull)
		}
		return nil
	},
}

var modelDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the Ollama container",
	Long:  `Stop the Ollama container. Pulled models are preserved on the host.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.Stop(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Ollama stopped")
		return nil
	},
}

var modelRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the Ollama container",
	Long:  `Stop and remove the Ollama container. Pulled models are preserved on the host.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.Remove(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Ollama container removed")
		return nil
	},
}

var modelStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Ollama container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Container: %s\n", status)

		if status == ollama.StatusRunning {
			if err := mgr.WaitReady(ctx, 5*time.Second); err != nil {
				fmt.Println("API:       not responding")
			} else {
				fmt.Printf("API:       ready at %s\n", mgr.URL())
			}
		}
		return nil
	},
}

var modelLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show Ollama container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), modelLogsTail)
		if err != nil {
			return err
		}
		fmt.Print(logs)
		return nil
	},
}

func getOllamaManager() (*ollama.DockerManager, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	h, err := getHome()
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	return ollama.NewDockerManager(ollama.DockerConfig{
		ContainerName: cfg.Ollama.ContainerName,
		Image:         cfg.Ollama.Image,
		HostPort:      cfg.Ollama.HostPort,
		ModelPath:     h.OllamaPath(),
	})
}

func init() {
	modelUpCmd.Flags().StringVar(&modelPull, "pull", "", "model to pull after startup")
	modelLogsCmd.Flags().StringVar(&modelLogsTail, "tail", "100", "number of log lines to show")
	modelCmd.AddCommand(modelUpCmd, modelDownCmd, modelRemoveCmd, modelStatusCmd, modelLogsCmd)
}
