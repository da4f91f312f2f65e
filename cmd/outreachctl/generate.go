package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"outreach-backend/internal/bootstrap"
	"outreach-backend/internal/history"
	"outreach-backend/internal/llm"
	"outreach-backend/internal/outreach"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/search"
	"outreach-backend/internal/search/exa"
	"outreach-backend/internal/shared/config"
	"outreach-backend/internal/stages"
)

const cliUserID = "outreachctl"

func newGenerateCmd() *cobra.Command {
	var userFile, targetFile, note string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft outreach for a target profile using in-memory storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			userText, err := os.ReadFile(userFile)
			if err != nil {
				return fmt.Errorf("read user profile: %w", err)
			}
			targetText, err := os.ReadFile(targetFile)
			if err != nil {
				return fmt.Errorf("read target profile: %w", err)
			}

			cfg := config.Load()
			writer, fast, embedder, err := bootstrap.BuildLLM(cfg)
			if err != nil {
				return err
			}
			runner := &stages.Runner{Fast: fast, Writer: writer}
			capability := search.Absent()
			if client, err := exa.NewClient(cfg.ExaAPIKey, cfg.SearchTimeout); err == nil {
				capability = search.Present(client)
			}
			return runGenerate(cmd, pipelineDeps{
				stages:   runner,
				embedder: embedder,
				search:   capability,
			}, string(userText), string(targetText), note)
		},
	}
	cmd.Flags().StringVar(&userFile, "user", "", "file with the sender's profile text")
	cmd.Flags().StringVar(&targetFile, "target", "", "file with the target's profile text")
	cmd.Flags().StringVar(&note, "note", "", "context note")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

type pipelineDeps struct {
	stages   *stages.Runner
	embedder llm.Embedder
	search   search.Capability
}

func runGenerate(cmd *cobra.Command, deps pipelineDeps, userText, targetText, note string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	profileRepo := profiles.NewMemoryRepo()
	profileSvc := &profiles.Service{Repo: profileRepo, Extractor: deps.stages, Embedder: deps.embedder}
	if _, err := profileSvc.SaveText(ctx, cliUserID, userText); err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}

	historyRepo := history.NewMemoryRepo()
	svc := &outreach.Service{
		Profiles: profileRepo,
		History:  historyRepo,
		Stages:   deps.stages,
		Enricher: &search.Enricher{Capability: deps.search},
	}
	res, err := svc.Generate(ctx, outreach.GenerateInput{UserID: cliUserID, TargetProfile: targetText, ContextNote: note})
	if err != nil {
		return err
	}
	entry, err := historyRepo.Get(ctx, cliUserID, res.HistoryID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), entry)
}
