package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/vidigest/internal/config"
	"github.com/TobiSchelling/vidigest/internal/extract"
	"github.com/TobiSchelling/vidigest/internal/fetch"
	"github.com/TobiSchelling/vidigest/internal/llm"
	"github.com/TobiSchelling/vidigest/internal/pipeline"
	"github.com/TobiSchelling/vidigest/internal/poll"
	"github.com/TobiSchelling/vidigest/internal/query"
	"github.com/TobiSchelling/vidigest/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "vidigest",
	Short:   "Structured digests of channel uploads",
	Long:    "vidigest polls channel feeds, extracts structured analysis per video via an LLM, and appends the results to a local ledger.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vidigest", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/vidigest/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure channels, the recency window, and API keys.")
		return nil
	},
}

// --- run command ---

var windowOverride int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll all sources and ingest new items",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := createProvider()
		if provider == nil {
			return fmt.Errorf("no LLM provider configured")
		}

		template, err := promptTemplate()
		if err != nil {
			return err
		}

		var fetcher *fetch.Fetcher
		for _, s := range cfg.Sources {
			if s.FetchContent {
				fetcher = fetch.New(15 * time.Second)
				break
			}
		}

		windowDays := cfg.WindowDays
		if windowOverride > 0 {
			windowDays = windowOverride
		}

		extractor := extract.New(provider, fetcher, template, cfg.Extraction.MaxTokens)
		pipe := pipeline.New(
			poll.Registry(cfg.Sources),
			poll.NewPoller(),
			extractor,
			db,
			windowDays,
			cfg.Pacing(),
		)

		fmt.Printf("Scanning %d sources (window: %d days)...\n", len(cfg.Sources), windowDays)
		stats, runErr := pipe.Run(context.Background())

		fmt.Println("\nRun complete:")
		fmt.Printf("  Sources scanned: %d\n", stats.SourcesScanned)
		fmt.Printf("  Entries seen: %d\n", stats.EntriesSeen)
		fmt.Printf("  Recent and new: %d\n", stats.Fresh)
		fmt.Printf("  Persisted: %d\n", stats.Persisted)

		if runErr != nil {
			return fmt.Errorf("run aborted after %d item(s) saved: %w", stats.Persisted, runErr)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&windowOverride, "window", 0, "Override the recency window (days)")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		count, err := db.Count()
		if err != nil {
			return fmt.Errorf("counting records: %w", err)
		}

		fmt.Printf("Ledger: %s\n", db.Path())
		fmt.Printf("Records: %d\n", count)
		fmt.Printf("Sources configured: %d\n", len(cfg.Sources))

		recent, err := db.RecentRecords(5)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Println("\nMost recent:")
			for _, r := range recent {
				title := r.Title
				if len(title) > 60 {
					title = title[:60] + "..."
				}
				fmt.Printf("  [%s] %s — %s\n", r.PublishedAt, r.SourceName, title)
			}
		}
		return nil
	},
}

// --- ask command ---

var critique bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the collected records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := createProvider()
		if provider == nil {
			return fmt.Errorf("no LLM provider configured")
		}

		question := strings.Join(args, " ")
		engine := query.NewEngine(db, provider, cfg.Extraction.MaxTokens)
		ctx := context.Background()

		answer, err := engine.Ask(ctx, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)

		if critique {
			reviewed, err := engine.Critique(ctx, question, answer)
			if err != nil {
				return err
			}
			fmt.Println("\n--- critique ---")
			fmt.Println(reviewed)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&critique, "critique", false, "Run a critique pass over the answer")
}

// --- helpers ---

func openDB() (*store.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "vidigest.db")
	return store.Open(dbPath)
}

func createProvider() llm.Provider {
	e := cfg.Extraction
	return llm.CreateProvider(e.Provider, e.Model, e.APIKeyEnv, e.OpenAIModel, e.OpenAIKeyEnv)
}

func promptTemplate() (string, error) {
	if cfg.Extraction.PromptFile == "" {
		return extract.DefaultPrompt, nil
	}
	data, err := os.ReadFile(cfg.Extraction.PromptFile)
	if err != nil {
		return "", fmt.Errorf("reading prompt file: %w", err)
	}
	return string(data), nil
}
