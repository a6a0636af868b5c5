package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"trialsearch/internal/config"
	"trialsearch/internal/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a single query and print the matching trials",
	Long: `Run one query against the search service without starting the interactive UI.

The same rules apply as in the UI: the query must be at least two characters
once trimmed, and at most ten trials are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		asJSON, _ := cmd.Flags().GetBool("json")
		query := strings.Join(args, " ")
		if utf8.RuneCountInString(strings.TrimSpace(query)) < a.cfg.MinQueryLength {
			return fmt.Errorf("query must be at least %d characters", a.cfg.MinQueryLength)
		}

		trials, err := a.client.Search(cmd.Context(), query)
		if err != nil {
			a.bus.Publish(domain.ErrorEvent{Message: "search " + query, Err: err})
			return fmt.Errorf("%s: %w", a.cfg.ErrorMessage, err)
		}
		return printTrials(cmd.OutOrStdout(), capTrials(trials, a.cfg), asJSON)
	},
}

func init() {
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func capTrials(trials []domain.Trial, cfg *config.Config) []domain.Trial {
	if len(trials) > cfg.MaxDisplay {
		return trials[:cfg.MaxDisplay]
	}
	return trials
}

func printTrials(w io.Writer, trials []domain.Trial, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(trials)
	}
	if len(trials) == 0 {
		_, err := fmt.Fprintln(w, "No matching trials.")
		return err
	}
	for i, t := range trials {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n  NCT ID: %s\n  Status: %s\n", t.BriefTitle, t.NCTID, t.OverallStatus)
	}
	return nil
}
