package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/script-analytics/internal/analyzer"
	"github.com/sells-group/script-analytics/internal/export"
	"github.com/sells-group/script-analytics/internal/model"
)

var (
	batchChannel string
	batchFormat  string
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every script document in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		files, err := scriptFiles(args[0])
		if err != nil {
			return err
		}
		channel, err := loadChannel(batchChannel)
		if err != nil {
			return err
		}

		results, err := processBatch(ctx, newAnalyzer(), files, channel, cfg.Batch.MaxConcurrentScripts)
		if err != nil {
			return err
		}

		return writeBatchOutput(cmd.OutOrStdout(), batchFormat, batchOutput, results)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchChannel, "channel", "", "path to a channel context JSON file applied to every script")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "output format: json, csv, xlsx or yaml")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output file (default stdout)")
	rootCmd.AddCommand(batchCmd)
}

// scriptFiles lists the .json files directly inside dir, sorted by name.
func scriptFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, eris.Wrapf(err, "batch: list %s", dir)
	}
	if len(files) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, eris.Wrapf(err, "batch: open %s", dir)
		}
	}
	sort.Strings(files)
	return files, nil
}

// processBatch analyzes files concurrently. A file that cannot be read or
// parsed is reported in its Result and does not abort the batch. Results
// keep the order of files.
func processBatch(ctx context.Context, a *analyzer.Analyzer, files []string, channel *model.ChannelContext, concurrency int) ([]export.Result, error) {
	results := make([]export.Result, len(files))
	if len(files) == 0 {
		zap.L().Info("no script files found")
		return results, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("scripts", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for i, file := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", file))
			results[i].File = file

			script, err := readScript(file, nil)
			if err != nil {
				failed.Add(1)
				results[i].Error = err.Error()
				log.Warn("script rejected", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			results[i].Variant = script.Variant()

			analysis, err := a.Analyze(gctx, script, channel)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				failed.Add(1)
				results[i].Error = err.Error()
				log.Error("analysis failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			results[i].Analysis = analysis
			log.Debug("analysis complete", zap.Int("quality_score", analysis.OverallQualityScore))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results, nil
}

func writeBatchOutput(stdout io.Writer, format, outputPath string, results []export.Result) error {
	w := stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "batch: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch format {
	case export.FormatJSON, export.FormatCSV, export.FormatXLSX, export.FormatYAML:
		return export.Write(w, format, results)
	default:
		return eris.Errorf("batch: unsupported format %q", format)
	}
}
