// Check command: compare two artifacts the way the loader would.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wirelayer/abiguard/abicheck"
	"github.com/wirelayer/abiguard/shape"
)

var checkBoth bool

var checkCmd = &cobra.Command{
	Use:   "check <expected> <found>",
	Short: "Compare two artifacts' shapes for compatibility",
	Long: `Check rebuilds the layout graph of each artifact and runs the same
structural comparison the loader runs at load time. The first artifact is
the expected side (what a binary was compiled against), the second is the
found side (what a library actually ships). The comparison is asymmetric:
growth is tolerated only where the expected shape allows it.

Exits nonzero when the shapes are incompatible, after printing every
instability rather than just the first.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		expArt, err := resolveArtifact(ctx, args[0])
		if err != nil {
			return err
		}
		foundArt, err := resolveArtifact(ctx, args[1])
		if err != nil {
			return err
		}

		expected, err := shape.ToLayout(expArt.Doc)
		if err != nil {
			return fmt.Errorf("rebuild %s: %w", expArt.Ref, err)
		}
		found, err := shape.ToLayout(foundArt.Doc)
		if err != nil {
			return fmt.Errorf("rebuild %s: %w", foundArt.Ref, err)
		}

		out := cmd.OutOrStdout()
		ok := reportCheck(out, expArt.title(), foundArt.title(), abicheck.Check(expected, found))
		if checkBoth {
			fmt.Fprintln(out)
			ok = reportCheck(out, foundArt.title(), expArt.title(), abicheck.Check(found, expected)) && ok
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkBoth, "both", false, "also run the comparison in the reverse direction")
}

// reportCheck prints one direction's result and reports whether the
// layouts were compatible.
func reportCheck(w io.Writer, expected, found string, result error) bool {
	fmt.Fprintf(w, "expected %s\n   found %s\n", expected, found)
	if result == nil {
		fmt.Fprintln(w, "compatible")
		return true
	}

	var incompat *abicheck.IncompatibilityError
	if !errors.As(result, &incompat) {
		fmt.Fprintf(w, "check failed: %v\n", result)
		return false
	}
	for _, node := range incompat.Nodes {
		at := "<root>"
		if len(node.Path) > 0 {
			at += "." + strings.Join(node.Path, ".")
		}
		fmt.Fprintf(w, "incompatible at %s (%s):\n", at, node.TypeName)
		for _, inst := range node.Instabilities {
			fmt.Fprintf(w, "  - %s\n", inst)
		}
	}
	return false
}
