package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maciusman/seo-aiditor/internal/app"
	"github.com/maciusman/seo-aiditor/internal/audit"
	"github.com/maciusman/seo-aiditor/internal/export"
	"github.com/maciusman/seo-aiditor/internal/platform/config"
	"github.com/maciusman/seo-aiditor/internal/platform/logger"
)

var version = "dev"

type auditOptions struct {
	multiPage bool
	jsonOut   string
	csvOut    string
	logLevel  string
	noBanner  bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seoaudit",
		Short:        "Audit a website for SEO issues",
		SilenceUsage: true,
	}
	root.AddCommand(newAuditCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seoaudit %s\n", version)
		},
	}
}

func newAuditCmd() *cobra.Command {
	var opts auditOptions

	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Run an audit against a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.multiPage, "multi-page", "m", false, "Analyze additional pages selected from the homepage links")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "Write the full report as JSON to this file")
	cmd.Flags().StringVar(&opts.csvOut, "csv", "", "Write the homepage report as CSV to this file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL (DEBUG, INFO, WARN, ERROR)")
	cmd.Flags().BoolVar(&opts.noBanner, "no-banner", false, "Do not print the banner")
	return cmd
}

func runAudit(cmd *cobra.Command, target string, opts auditOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log := logger.NewWithWriter(errOut, cfg.LogLevel)

	if !opts.noBanner {
		printBanner(out)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := audit.NewChannelSink(32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sink.Events() {
			printProgress(errOut, ev)
		}
	}()

	result, err := app.NewOrchestrator(cfg, log, nil).Run(ctx, audit.Request{
		URL:       target,
		MultiPage: opts.multiPage,
	}, sink)
	sink.Close()
	<-done
	if err != nil {
		return err
	}

	printSummary(out, result)

	if opts.jsonOut != "" {
		if err := writeFile(opts.jsonOut, func(w io.Writer) error {
			return export.WriteJSON(w, result.Value())
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "JSON report written to %s\n", opts.jsonOut)
	}
	if opts.csvOut != "" {
		if err := writeFile(opts.csvOut, func(w io.Writer) error {
			return export.WriteCSV(w, result.Homepage())
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "CSV report written to %s\n", opts.csvOut)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
