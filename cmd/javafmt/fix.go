package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/javafmt"
	"github.com/spf13/cobra"
)

func newFixCmd(configPath *string) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Apply auto-applicable fixes to a .java file",
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
			rewritten, applied := javafmt.Rewrite(src, violations, cfg)

			if write {
				if err := os.WriteFile(path, rewritten, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Printf("%s: applied %d fix(es)\n", path, applied)
				return nil
			}
			_, err = os.Stdout.Write(rewritten)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "overwrite the file in place")
	return cmd
}
