package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"precedent/internal/casebase"
	"precedent/internal/config"
	"precedent/internal/domain"
	"precedent/internal/embedding/openai"
	"precedent/internal/embedding/tfidf"
	"precedent/internal/predict"
	"precedent/internal/retrieval"
	"precedent/internal/tui"
	"precedent/internal/vectorstore/memory"
	"precedent/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfgPath string
	root := &cobra.Command{
		Use:   "precedent",
		Short: "Retrieve similar court decisions and predict statutory outcomes",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (defaults to ./config.yaml, then ~/.config/precedent/config.yaml)")

	root.AddCommand(newRetrieveCmd(&cfgPath, logger))
	root.AddCommand(newPredictCmd(&cfgPath, logger))
	root.AddCommand(newSearchCmd(&cfgPath, logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRetrieveCmd(cfgPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieve",
		Short: "Rank the top-K most similar cases for every query",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			embedder, err := newEmbedder(cfg)
			if err != nil {
				return err
			}
			store, err := newVectorStore(cfg)
			if err != nil {
				return err
			}
			return retrieval.Run(retrieval.RunConfig{
				CaseBasePath: cfg.Paths.CaseBase,
				QueriesPath:  cfg.Paths.Queries,
				OutputPath:   cfg.Paths.RetrievalOutput,
				TopK:         cfg.Retrieval.TopK,
			}, embedder, store, logger)
		},
	}
}

func newPredictCmd(cfgPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict statutory outcomes by majority vote over retrieved cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return predict.Run(predict.RunConfig{
				RetrievalPath: cfg.Paths.RetrievalOutput,
				CaseBasePath:  cfg.Paths.CaseBase,
				OutputPath:    cfg.Paths.Predictions,
			}, logger)
		},
	}
}

func newSearchCmd(cfgPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Interactively search the case base for similar decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			caseStore, err := casebase.Load(cfg.Paths.CaseBase, logger)
			if err != nil {
				return err
			}
			if caseStore.Len() == 0 {
				return errors.New("case base is empty; nothing to search")
			}
			embedder, err := newEmbedder(cfg)
			if err != nil {
				return err
			}
			store, err := newVectorStore(cfg)
			if err != nil {
				return err
			}
			retriever := retrieval.New(embedder, store, logger)
			if err := retriever.BuildIndex(caseStore.Ordered(), nil); err != nil {
				return err
			}
			m := tui.New(retriever, caseStore)
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.New(cfg.Retrieval.MaxFeatures), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, errors.New("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func newVectorStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.New(), nil
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, errors.New("qdrant config missing")
		}
		return qdrant.New(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
