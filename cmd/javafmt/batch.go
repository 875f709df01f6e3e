package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/javafmt"
	"github.com/dhamidi/javafmt/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(configPath *string) *cobra.Command {
	var write bool
	var concurrency int
	var failFast bool
	cmd := &cobra.Command{
		Use:   "batch <file> [file...]",
		Short: "Lint (and optionally fix) a batch of .java files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			errStrategy := batch.Continue
			if failFast {
				errStrategy = batch.FailFast
			}

			result := javafmt.ProcessBatch(context.Background(), args, batch.Config{
				RuleConfig:     cfg,
				Rewrite:        write,
				MaxConcurrency: concurrency,
				ErrorStrategy:  errStrategy,
			}, func(completed, total int, path string) {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", completed, total, path)
			})

			out, err := json.MarshalIndent(batchSummary(result), "", "  ")
			if err != nil {
				return fmt.Errorf("encode batch result: %w", err)
			}
			fmt.Println(string(out))

			if len(result.Errors) > 0 {
				var names []string
				for path := range result.Errors {
					names = append(names, path)
				}
				return fmt.Errorf("batch: %d file(s) failed: %s", len(result.Errors), strings.Join(names, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "apply auto-fixes and overwrite files in place")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max files in flight (0 = size to estimated available heap)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop scheduling new files after the first failure")
	return cmd
}

type batchSummaryOutput struct {
	Total       int      `json:"total"`
	Succeeded   int      `json:"succeeded"`
	Failed      int      `json:"failed"`
	DurationMS  int64    `json:"durationMs"`
	Throughput  float64  `json:"throughput"`
	FailedPaths []string `json:"failedPaths,omitempty"`
}

func batchSummary(result batch.BatchResult) batchSummaryOutput {
	out := batchSummaryOutput{
		Total:      result.Total,
		Succeeded:  result.SuccessCount,
		Failed:     result.FailureCount,
		DurationMS: result.Duration.Milliseconds(),
		Throughput: result.Throughput,
	}
	for path := range result.Errors {
		out.FailedPaths = append(out.FailedPaths, path)
	}
	return out
}
