package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diegesis/engine/internal/config"
)

const defaultConfigPath = "config/diegesis.toml"

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "diegesis",
		Short:         "Room-based interactive fiction engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $DIEGESIS_CONFIG or "+defaultConfigPath+")")
	root.AddCommand(playCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(slotsCmd())
	root.AddCommand(journalCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config or DIEGESIS_CONFIG. When
// neither is set and the default file is absent, built-in defaults apply.
func loadConfig() (*config.Config, error) {
	path, explicit := configPath, configPath != ""
	if !explicit {
		if p := os.Getenv("DIEGESIS_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = defaultConfigPath
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(title, author, ver string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               D I E G E S I S             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m%s\033[0m \033[90m(v%s, by %s)\033[0m\n\n", title, ver, author)
}

func printSection(title string) {
	lineLen := 46 - len([]rune(title)) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len([]rune(label)) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}
