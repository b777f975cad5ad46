package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-tldr/internal/document"
	"document-tldr/internal/helper"
	"document-tldr/internal/llmservice"
	"document-tldr/internal/lock"
	"document-tldr/internal/parser"
	"document-tldr/internal/summarizer"
	"document-tldr/internal/tldr"
)

var (
	dryRun      bool
	renderHTML  bool
	strict      bool
	lockTimeout time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate a TLDR for a document and write it into the file",
	Long: `Generate sends the whole document, prefixed by the configured prompt, to the
configured endpoint and writes the reply under a "###### TLDR:" heading.

A line starting with "TLDR:" is replaced. Otherwise the block is inserted before
the first heading or blank line, or at the top of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runGenerate(ctx, args[0])
	},
}

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the result instead of writing the file")
	generateCmd.Flags().BoolVar(&renderHTML, "html", false, "with --dry-run, render the result as HTML")
	generateCmd.Flags().BoolVar(&strict, "strict", false, "fail instead of writing placeholder text when the model call fails")
	generateCmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 5*time.Second, "how long to wait for another run on the same file")
}

func runGenerate(ctx context.Context, path string) error {
	logger := log.With().Str("invocation_id", helper.NewInvocationID()).Str("file", path).Logger()

	if err := parser.CheckFormat(path); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := llmservice.NewClient(cfg)
	if err != nil {
		return err
	}

	fl, err := lock.AcquireFile(ctx, path, lockTimeout)
	if err != nil {
		return err
	}
	defer fl.Release()

	doc, err := document.Open(path)
	if err != nil {
		return err
	}

	gen := tldr.NewGenerator(summarizer.New(client, cfg.Prompt), tldr.WithStrict(strict))
	out, err := gen.Generate(ctx, doc)
	if err != nil {
		return err
	}
	if !out.Applied {
		logger.Debug().Msg("Nothing to do")
		return nil
	}
	logger.Info().
		Int("line", out.Plan.Target.Index).
		Bool("replace", out.Plan.Target.Replace).
		Str("status", out.Result.Status.String()).
		Msg("Generated TLDR")

	if dryRun {
		return printDocument(doc.Text())
	}
	return doc.Save()
}

func printDocument(text string) error {
	if renderHTML {
		html, err := parser.RenderHTML(text)
		if err != nil {
			return err
		}
		text = html
	}
	_, err := fmt.Fprintln(os.Stdout, text)
	return err
}
