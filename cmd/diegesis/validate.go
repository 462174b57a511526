package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/world"
)

func validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a world cartridge for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat lint findings as errors")
	return cmd
}

func runValidate(path string, strict bool) error {
	def, err := cartridge.LoadFile(path)
	if err != nil {
		return err
	}
	findings := cartridge.Lint(def)
	st := world.FromDefinition(def)
	violations := st.World().CheckContainment()

	fmt.Fprintf(os.Stdout, "%s v%s by %s: %d entities\n", def.Meta.Title, def.Meta.Version, def.Meta.Author, len(def.Entities))
	if len(findings) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
	} else {
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(os.Stdout, "  - %s\n", f)
		}
	}
	for _, v := range violations {
		fmt.Fprintf(os.Stdout, "  ! %s\n", v)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d containment violations after load", len(violations))
	}
	if strict && len(findings) > 0 {
		return fmt.Errorf("%d lint findings", len(findings))
	}
	return nil
}
