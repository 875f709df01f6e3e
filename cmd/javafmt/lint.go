package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhamidi/javafmt"
	"github.com/dhamidi/javafmt/rules"
	"github.com/spf13/cobra"
)

func newLintCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Report style violations in a .java file, printing the JSON violation envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			parsed := javafmt.Parse(src)
			violations := javafmt.Lint(src, path, parsed.Arena, parsed.Root, cfg)

			envelope := rules.BuildEnvelope(violations)
			out, err := json.MarshalIndent(envelope, "", "  ")
			if err != nil {
				return fmt.Errorf("encode violations: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}
