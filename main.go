package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/chat"
	"github.com/tamerhisham/autoboq/pkg/config"
	"github.com/tamerhisham/autoboq/pkg/encode"
	"github.com/tamerhisham/autoboq/pkg/extract"
	"github.com/tamerhisham/autoboq/pkg/llm"
	"github.com/tamerhisham/autoboq/pkg/mcp"
	"github.com/tamerhisham/autoboq/pkg/server"
	"github.com/tamerhisham/autoboq/pkg/service"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:          "autoboq",
		Short:        "BOQ extraction engine for engineering drawings",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(analyzeCmd(&configPath))
	root.AddCommand(mcpCmd(&configPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline selects the live Gemini client or the keyless simulator.
func buildPipeline(ctx context.Context, cfg config.Config) (llm.Generator, chat.SessionFactory, func(), error) {
	if cfg.Simulated() {
		fmt.Println("No GEMINI_API_KEY configured: running in SIMULATION mode")
		sim := &llm.Simulator{}
		return sim, func(boq.ModelName) llm.ChatSession { return sim.NewChat() }, func() {}, nil
	}
	client, err := llm.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, client.StartChat, client.Close, nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gen, sessions, cleanup, err := buildPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := service.NewAnalysisService(gen, sessions, extract.DefaultConfig(), cfg.Simulated())
			fmt.Printf("Starting REST API Server on %s\n", cfg.Addr)
			return server.NewServer(svc).Run(cfg.Addr)
		},
	}
}

func analyzeCmd(configPath *string) *cobra.Command {
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "analyze <drawings...>",
		Short: "Run a one-shot extraction over drawing files and print the BOQ as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			model := boq.ModelName(cfg.Model)
			if modelFlag != "" {
				model = boq.ModelName(modelFlag)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen, _, cleanup, err := buildPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			artifacts := make([]encode.Artifact, 0, len(args))
			for _, path := range args {
				art, encErr := encode.FromFile(path, "")
				if encErr != nil {
					return encErr
				}
				artifacts = append(artifacts, art)
			}

			var items []boq.Item
			orch := extract.New(gen, extract.DefaultConfig())
			err = orch.Run(ctx, model, artifacts,
				func(entry boq.LogEntry) {
					fmt.Fprintf(os.Stderr, "[%s] %s\n", entry.Kind, entry.Message)
				},
				func(moduleID int, moduleItems []boq.Item) {
					items = append(items, moduleItems...)
				},
			)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(struct {
				Items []boq.Item `json:"items"`
			}{Items: items}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&modelFlag, "model", "", "model to use (defaults to config)")
	return cmd
}

func mcpCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gen, sessions, cleanup, err := buildPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := service.NewAnalysisService(gen, sessions, extract.DefaultConfig(), cfg.Simulated())
			return mcp.Run(cmd.Context(), svc)
		},
	}
}
