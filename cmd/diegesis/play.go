package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diegesis/engine/internal/cartridge"
	"github.com/diegesis/engine/internal/command"
	"github.com/diegesis/engine/internal/core/event"
	"github.com/diegesis/engine/internal/handler"
	"github.com/diegesis/engine/internal/session"
	"github.com/diegesis/engine/internal/world"
)

func playCmd() *cobra.Command {
	var (
		worldPath string
		editor    bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), worldPath, editor)
		},
	}
	cmd.Flags().StringVar(&worldPath, "world", "", "start from this cartridge instead of the saved world")
	cmd.Flags().BoolVar(&editor, "editor", false, "enable @ editor commands")
	return cmd
}

func runPlay(parent context.Context, worldPath string, editor bool) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printSection("Storage")
	be, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()
	printOK(fmt.Sprintf("%s backend ready", cfg.Storage.Backend))
	if be.journal != nil {
		printOK("action journal on")
	}

	if worldPath == "" {
		worldPath = cfg.Game.WorldPath
	}
	var seed *world.Definition
	if worldPath != "" {
		def, err := cartridge.LoadFile(worldPath)
		if err != nil {
			return err
		}
		for _, w := range cartridge.Lint(def) {
			log.Warn("cartridge lint", zap.String("file", worldPath), zap.String("finding", w))
		}
		seed = &def
	}

	sess, err := session.New(ctx, session.Options{
		Seed:            seed,
		ExpectedVersion: cfg.Game.ExpectedVersion,
		FallbackMessage: cfg.Game.FallbackMessage,
		Store:           be.slots,
		Journal:         be.journal,
		PersistWorld:    cfg.Game.PersistWorld,
		AutosaveSlot:    cfg.Storage.AutosaveSlot,
		AutosaveEvery:   cfg.Storage.AutosaveEvery,
		Log:             log,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sess.Close(closeCtx); err != nil {
			log.Error("session close failed", zap.Error(err))
		}
	}()

	st := sess.State()
	printSection("World")
	printStat("Entities", st.World().Len())
	if slots, err := sess.Slots(ctx); err == nil {
		printStat("Save slots", len(slots))
	}
	meta := st.Meta()
	printBanner(meta.Title, meta.Author, meta.Version)

	priv := command.PrivPlayer
	if editor {
		priv = command.PrivEditor
	}
	reg := command.NewRegistry(log.Named("command"))
	deps := &handler.Deps{
		Session:   sess,
		Out:       os.Stdout,
		Log:       log,
		Privilege: priv,
	}
	handler.RegisterAll(reg, deps)

	// Narration reaches the terminal through the bus at the end of a turn.
	event.Subscribe(sess.Bus(), func(ev event.ActionApplied) {
		if m, ok := ev.Action.(world.AddMessage); ok {
			fmt.Fprintf(os.Stdout, "> %s\n", m.Text)
		}
	})

	return repl(ctx, os.Stdin, reg, priv, sess, log)
}

func repl(ctx context.Context, in io.Reader, reg *command.Registry, priv command.Privilege, sess *session.Session, log *zap.Logger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	turn := func(line string) error {
		err := reg.Dispatch(ctx, priv, line)
		sess.EndTurn()
		return err
	}
	if err := turn("look"); err != nil {
		return err
	}

	for {
		fmt.Print("\n» ")
		select {
		case <-ctx.Done():
			fmt.Println()
			log.Info("interrupted, saving and leaving")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			err := turn(line)
			switch {
			case err == nil:
			case errors.Is(err, command.ErrQuit):
				fmt.Println("Farewell.")
				return nil
			case errors.Is(err, command.ErrUnknownVerb):
				fmt.Println("I don't understand that. Type 'help' for a list of verbs.")
			default:
				log.Error("command failed", zap.String("line", line), zap.Error(err))
			}
		}
	}
}
