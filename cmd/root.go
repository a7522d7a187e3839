package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/selimozcann/oglink/internal/banner"
	"github.com/selimozcann/oglink/internal/config"
	"github.com/selimozcann/oglink/internal/output"
	"github.com/selimozcann/oglink/internal/resolver"
	"github.com/selimozcann/oglink/internal/statuscolor"
)

// Prompt is shown when no link is passed on the command line.
const Prompt = "Enter EarnKaro link: "

type options struct {
	timeout      time.Duration
	maxRedirects int
	verbose      bool
	jsonOut      bool
}

func (o options) validate() error {
	if o.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0 (got %s)", o.timeout)
	}
	if o.maxRedirects <= 0 {
		return fmt.Errorf("--max-redirects must be > 0 (got %d)", o.maxRedirects)
	}
	return nil
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := options{timeout: cfg.Timeout, maxRedirects: cfg.MaxRedirects}
	rootCmd := &cobra.Command{
		Use:           "oglink [url]",
		Short:         "Resolve the final destination of an affiliate redirect link",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, args, opts, newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.verbose))
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.DurationVar(&opts.timeout, "timeout", opts.timeout, "Request timeout, redirects included")
	pf.IntVar(&opts.maxRedirects, "max-redirects", opts.maxRedirects, "Maximum redirects to follow")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Print the redirect chain and debug logs to stderr")
	rootCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print a JSON record instead of the OG Link line")

	rootCmd.AddCommand(newServeCmd(cfg, &opts))
	return rootCmd
}

func run(ctx context.Context, cmd *cobra.Command, args []string, opts options, log *logrus.Logger) error {
	in, out, errw := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()

	var target string
	if len(args) == 1 {
		target = args[0]
	} else {
		if isTerminal(in) {
			banner.PrintBanner(errw)
		}
		fmt.Fprint(out, Prompt)
		line, err := readLine(in)
		if err != nil {
			return fmt.Errorf("read link: %w", err)
		}
		target = line
	}

	r := resolver.New(resolver.Config{
		Timeout:      opts.timeout,
		MaxRedirects: opts.maxRedirects,
		Logger:       log,
	})
	defer r.Close()

	res := r.Resolve(ctx, target)
	if opts.verbose {
		statuscolor.PrintChain(errw, res)
	}
	if opts.jsonOut {
		return output.WriteJSON(out, output.BuildRecord(res))
	}
	_, err := fmt.Fprintln(out, output.FormatLine(res))
	return err
}

// readLine returns one line without its line terminator. EOF after a
// partial or empty line is not an error.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger(w io.Writer, level logrus.Level, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(level)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Execute runs the root command with settings from .env and the environment.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}
