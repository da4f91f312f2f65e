package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"outreach-backend/internal/contextnote"
	"outreach-backend/internal/textguard"
)

func newEnforceCmd() *cobra.Command {
	var maxChars int
	var messageType string
	cmd := &cobra.Command{
		Use:   "enforce [text]",
		Short: "Trim text to a character budget",
		Long:  "Trims text to --max characters, or to the budget of --type (linkedin, email, followup). Reads stdin when no text is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			budget := maxChars
			if budget <= 0 {
				budget = textguard.Budget(messageType)
			}
			fmt.Fprintln(cmd.OutOrStdout(), textguard.Enforce(text, budget))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxChars, "max", 0, "character budget (overrides --type)")
	cmd.Flags().StringVar(&messageType, "type", "linkedin", "message type selecting the budget")
	return cmd
}

func newSanitizeCmd() *cobra.Command {
	var maxLen int
	cmd := &cobra.Command{
		Use:   "sanitize [text]",
		Short: "Strip markup and injection phrases from text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), textguard.Sanitize(text, maxLen))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxLen, "max", textguard.DefaultMaxInput, "maximum output length")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [note]",
		Short: "Derive outreach attributes from a context note",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), contextnote.Classify(note))
		},
	}
}

func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
