// Command tidalbridge relays Tidal code from a terminal into a managed
// GHCi session. Paragraphs (blank-line separated blocks) are sent as
// single fragments, the way an editor integration would send selections.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wavemill/tidalbridge"
	"github.com/wavemill/tidalbridge/internal/config"
)

var (
	cfgPath  string
	ghciPath string
	bootFile string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:           "tidalbridge",
	Short:         "Relay Tidal code into a managed GHCi session",
	Long:          "tidalbridge starts a TidalCycles interpreter, primes it with a boot file,\nand relays paragraphs from stdin into it. Press Ctrl-C once to hush,\ntwice to stop the session and exit.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "tidalbridge.yml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&ghciPath, "ghci", "", "explicit path to the ghci binary")
	rootCmd.Flags().StringVar(&bootFile, "boot", "", "path to the boot file (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	file, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}

	fileOpts := file.Options()
	if ghciPath != "" {
		fileOpts.GhciPath = ghciPath
	}

	if bootFile != "" {
		fileOpts.BootFile = bootFile
	}

	logger := tidalbridge.NopLogger()
	if debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	registry := tidalbridge.NewRegistry(
		tidalbridge.WithLogger(logger),
		tidalbridge.WithGhciPath(fileOpts.GhciPath),
		tidalbridge.WithBootFile(fileOpts.BootFile),
		tidalbridge.WithPollInterval(fileOpts.PollInterval),
		tidalbridge.WithPromptToken(fileOpts.PromptToken),
		tidalbridge.WithCwd(fileOpts.Cwd),
		tidalbridge.WithEnv(fileOpts.Env),
		tidalbridge.WithNotifier(terminalNotifier{}),
	)

	ctx := cmd.Context()

	if _, err := registry.Toggle(ctx); err != nil {
		return err
	}

	// First interrupt hushes, second stops and exits.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	go func() {
		<-sig
		registry.Hush()
		<-sig

		_, _ = registry.Toggle(ctx)
		os.Exit(0)
	}()

	relay(registry)

	if registry.Current() != nil {
		_, _ = registry.Toggle(ctx)
	}

	return nil
}

// relay reads stdin and sends each blank-line separated paragraph as one
// fragment. Blank input between paragraphs never reaches the session.
func relay(registry *tidalbridge.Registry) {
	scanner := bufio.NewScanner(os.Stdin)

	var paragraph []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}

		registry.SendText(strings.Join(paragraph, "\n"))
		paragraph = paragraph[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()

			continue
		}

		paragraph = append(paragraph, line)
	}

	flush()
}

// terminalNotifier prints interpreter output to the terminal.
type terminalNotifier struct{}

func (terminalNotifier) OnInfo(text string) {
	fmt.Println(text)
}

func (terminalNotifier) OnWarning(text string) {
	fmt.Fprintln(os.Stderr, text)
}

func (terminalNotifier) OnError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
