package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"document-tldr/internal/lsp"
)

var lspVerbosity int

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run as a language server on stdin/stdout",
	Long: `Run as a language server on stdin/stdout. Editors call the "tldr.generate"
command with a document URI, or pick "Generate TLDR" from the code actions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		commonlog.Configure(lspVerbosity, nil)

		store, err := openStore()
		if err != nil {
			return err
		}
		log.Info().Str("version", Version).Str("config", store.Path).Msg("Starting tldr language server")

		srv := lsp.New(store, nil, Version)
		defer srv.Wait()
		return srv.RunStdio()
	},
}

func init() {
	lspCmd.Flags().IntVar(&lspVerbosity, "protocol-verbosity", 0, "verbosity of the protocol library's own logging")
}
