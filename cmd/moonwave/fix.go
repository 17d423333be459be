package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"moonwave/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <stream files...>",
	Short: "Remove unused tags from the documented source files",
	Long: `Build the entries of every tag stream document and apply the fixes attached
to its diagnostics to the source files on disk. Sources that were only
available inline or reconstructed are never modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every fix (default)")
	fixCmd.Flags().Bool("once", false, "apply only the first fix")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier")
	fixCmd.Flags().Bool("dry-run", false, "report fixes without writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runFix(cmd *cobra.Command, args []string) error {
	local := &flagReader{set: cmd.Flags()}
	applyAll := local.Bool("all")
	applyOnce := local.Bool("once")
	targetID := local.String("id")
	dryRun := local.Bool("dry-run")
	if err := local.Err(); err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeAll
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyOnce:
		mode = fix.ApplyModeOnce
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	res, err := extractFiles(cmd, s, args, nil)
	if err != nil {
		return err
	}

	applied, applyErr := fix.Apply(res.Files, res.Bag.Items(), fix.ApplyOptions{
		Mode:      mode,
		TargetID:  targetID,
		DryRun:    dryRun,
		Protected: res.Comments.Covers,
	})
	return reportFixes(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

func reportFixes(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(out, "  %s [%s] (%d edits)\n", item.Title, item.ID, item.EditCount)
		}
	}
	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(out, "Files that would change:")
		} else {
			fmt.Fprintln(out, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
