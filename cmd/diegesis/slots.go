package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func slotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlots(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlotDelete(cmd.Context(), args[0])
		},
	})
	return cmd
}

func runSlots(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	be, err := openStore(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer be.Close()

	slots, err := be.slots.List(ctx)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintln(os.Stdout, "No saved games.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tSAVED\tPREVIEW")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Timestamp.Local().Format("2006-01-02 15:04"), s.Preview)
	}
	return tw.Flush()
}

func runSlotDelete(ctx context.Context, slot string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	be, err := openStore(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer be.Close()
	if err := be.slots.Delete(ctx, slot); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "deleted %s\n", slot)
	return nil
}
