package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mcpkit-labs/mcpkit/internal/boilerplate"
	"github.com/spf13/cobra"
)

// Shared flag for all create subcommands.
var createOutputDir string

func init() {
	createCmd.PersistentFlags().StringVar(&createOutputDir, "output-dir", ".", "Directory that holds the <framework>/ project")
	createCmd.AddCommand(createFeatureCmd)
	createCmd.AddCommand(createQueueCmd)
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <framework>",
	Short: "Scaffold a boilerplate project",
	Long: `Scaffold a starter project from the built-in framework catalog.

Examples:
  mcpkit create nestjs
  mcpkit create feature nestjs billing
  mcpkit create queue springboot email`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fw, err := boilerplate.Lookup(args[0])
		if err != nil {
			return err
		}

		result, err := boilerplate.Create(fw, createOutputDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s at %s/ (%d folders/files)\n", fw.Title, result.BaseDir, result.Total())
		printSkipped(out, result)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  1. Add feature modules with '%s create feature %s <name>'\n", cmd.Root().Name(), fw.Name)
		fmt.Fprintf(out, "  2. Add background queues with '%s create queue %s <name>'\n", cmd.Root().Name(), fw.Name)
		return nil
	},
}

// ─── create feature ────────────────────────────────────────────────

var createFeatureCmd = &cobra.Command{
	Use:   "feature <framework> <name>",
	Short: "Add a feature module to a generated project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return extendProject(cmd.OutOrStdout(), args[0], args[1], boilerplate.AddFeature)
	},
}

// ─── create queue ──────────────────────────────────────────────────

var createQueueCmd = &cobra.Command{
	Use:   "queue <framework> <name>",
	Short: "Add a background queue to a generated project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return extendProject(cmd.OutOrStdout(), args[0], args[1], boilerplate.AddQueue)
	},
}

// ─── Helpers ───────────────────────────────────────────────────────

type addFunc func(fw *boilerplate.Framework, baseDir, name string) (*boilerplate.Result, error)

func extendProject(out io.Writer, framework, name string, add addFunc) error {
	fw, err := boilerplate.Lookup(framework)
	if err != nil {
		return err
	}
	if err := boilerplate.ValidateName(name); err != nil {
		return err
	}

	result, err := add(fw, filepath.Join(createOutputDir, fw.Name), name)
	if err != nil {
		return err
	}
	for _, f := range result.Created {
		fmt.Fprintf(out, "  created %s\n", f)
	}
	printSkipped(out, result)
	return nil
}

func printSkipped(out io.Writer, result *boilerplate.Result) {
	if len(result.Skipped) == 0 {
		return
	}
	fmt.Fprintln(out, "\nSkipped (already exist):")
	for _, f := range result.Skipped {
		fmt.Fprintf(out, "  - %s\n", f)
	}
}
