package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/script-analytics/internal/export"
	"github.com/sells-group/script-analytics/internal/service"
)

var (
	analyzeChannel string
	analyzeFormat  string
	analyzeSave    bool
	analyzeUser    string
	analyzeIdea    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|->",
	Short: "Analyze a single script document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		script, err := readScript(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		channel, err := loadChannel(analyzeChannel)
		if err != nil {
			return err
		}

		if !analyzeSave {
			a, err := newService(nil).Analyze(ctx, script, channel)
			if err != nil {
				return err
			}
			return writeAnalysis(cmd.OutOrStdout(), analyzeFormat, export.Result{
				File:     args[0],
				Variant:  script.Variant(),
				Analysis: a,
			})
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		res, err := newService(st).AnalyzeAndSave(ctx, service.SaveRequest{
			UserID:  analyzeUser,
			IdeaID:  analyzeIdea,
			Script:  script,
			Channel: channel,
		})
		if err != nil {
			return err
		}
		if analyzeFormat == export.FormatTable {
			return writeAnalysis(cmd.OutOrStdout(), analyzeFormat, export.Result{
				File:     res.ID,
				Variant:  script.Variant(),
				Analysis: res.Analysis,
			})
		}
		return writeValue(cmd.OutOrStdout(), analyzeFormat, res)
	},
}

func writeAnalysis(w io.Writer, format string, r export.Result) error {
	if format == export.FormatTable {
		return export.WriteTable(w, []export.Result{r})
	}
	return writeValue(w, format, r.Analysis)
}

// writeValue prints v as indented JSON or YAML.
func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case export.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "write JSON output")
		}
		return nil
	case export.FormatYAML:
		return export.WriteYAMLValue(w, v)
	default:
		return eris.Errorf("unsupported format %q", format)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeChannel, "channel", "", "path to a channel context JSON file")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format: json, yaml or table")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "store the script and its analysis")
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "owner user id (required with --save)")
	analyzeCmd.Flags().StringVar(&analyzeIdea, "idea", "", "idea id the script was generated for")
	rootCmd.AddCommand(analyzeCmd)
}
