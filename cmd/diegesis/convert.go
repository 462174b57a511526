package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diegesis/engine/internal/cartridge"
)

func convertCmd() *cobra.Command {
	var builtin bool
	cmd := &cobra.Command{
		Use:   "convert [<in>] <out>",
		Short: "Convert a cartridge between JSON and YAML (by extension)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if builtin {
				if len(args) != 1 {
					return fmt.Errorf("--builtin takes only an output file")
				}
				return cartridge.WriteFile(args[0], cartridge.Default())
			}
			if len(args) != 2 {
				return fmt.Errorf("need an input and an output file")
			}
			def, err := cartridge.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := cartridge.WriteFile(args[1], def); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%d entities)\n", args[1], len(def.Entities))
			return nil
		},
	}
	cmd.Flags().BoolVar(&builtin, "builtin", false, "export the built-in world")
	return cmd
}
