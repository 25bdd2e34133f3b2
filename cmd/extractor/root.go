package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/api"
	"github.com/rvrstfn/extractor/internal/config"
	"github.com/rvrstfn/extractor/internal/home"
	"github.com/rvrstfn/extractor/internal/providers"
	"github.com/rvrstfn/extractor/version"
)

// clientRegistry holds the LLM clients built from config so every subcommand
// resolves the same instance per provider.
var clientRegistry = providers.NewRegistry()

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Schema-driven compliance extraction from PDF documents",
	Long: `Extractor pulls regulatory and compliance facts out of PDF documents
using a local LLM and user-authored JSON schemas.

A schema describes what to look for (MSDS availability, REACH numbers,
heavy metal limits, certifications); the extractor chunks the document,
prompts the model per chunk, and writes grounded extractions with page
numbers and character intervals to a results JSON file.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.extractor/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "extractor home directory (default: ~/.extractor)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env is optional; ignore a missing file.
		_ = godotenv.Load()

		api.SetOutputFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(
		extractCmd,
		schemasCmd,
		inspectCmd,
		genTestdataCmd,
		pingCmd,
		modelCmd,
		initCmd,
		versionCmd,
	)
}

// getHome returns the home directory handle honoring --home.
func getHome() (*home.Dir, error) {
	return home.New(homeDir)
}

// getConfig loads configuration honoring --config, falling back to the home
// directory config file when present.
func getConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		h, err := getHome()
		if err != nil {
			return nil, err
		}
		if h.ConfigExists() {
			path = h.ConfigPath()
		}
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	return mgr.Get(), nil
}

// getClient returns the LLM client for the configured provider, constructing
// and registering it on first use.
func getClient(cfg *config.Config) (providers.LLMClient, error) {
	name := cfg.Model.Provider
	if name == "" {
		name = providers.OllamaName
	}
	if client, err := clientRegistry.Get(name); err == nil {
		return client, nil
	}

	client, err := providers.NewClientFromConfig(providers.ClientConfig{
		Type:       cfg.Model.Provider,
		Model:      cfg.Model.Name,
		URL:        cfg.Model.URL,
		APIKey:     cfg.ResolvedAPIKey(),
		Timeout:    cfg.Model.TimeoutSeconds,
		KeepAlive:  cfg.Model.KeepAliveSeconds,
		MaxRetries: cfg.Model.MaxRetries,
		RateLimit:  cfg.Model.RateLimit,
	})
	if err != nil {
		return nil, err
	}
	clientRegistry.Register(name, client)
	return client, nil
}
