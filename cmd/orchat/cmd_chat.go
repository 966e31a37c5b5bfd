package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blossomz37/orchat/internal/catalog"
	"github.com/blossomz37/orchat/internal/chat"
	"github.com/blossomz37/orchat/internal/tui"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

var chatModel string

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model id to chat with (default: chat.default_model)")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	cat, err := catalog.Load(cfg.ModelCatalog)
	if err != nil {
		return err
	}

	client := openrouter.New(&openrouter.Config{
		BaseURL: cfg.OpenRouter.BaseURL,
		APIKey:  cfg.OpenRouter.APIKey,
		Title:   cfg.OpenRouter.Title,
	})

	session := chat.NewSession(cfg.OpenRouter.APIKey)

	wanted := chatModel
	if wanted == "" {
		wanted = cfg.Chat.DefaultModel
	}
	if wanted != "" {
		model, ok := cat.ByID(wanted)
		if !ok {
			if chatModel != "" {
				return fmt.Errorf("model %q is not in the catalog (see `orchat models`)", wanted)
			}
			slog.Warn("default model not in catalog, falling back to first entry", "model", wanted)
		} else {
			session.SelectModel(model)
		}
	}

	return tui.Run(tui.New(session, client, cat, cfg.Chat.ExportDir))
}
