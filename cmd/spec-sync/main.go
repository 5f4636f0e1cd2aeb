package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	cli "github.com/blimu-dev/spec-sync/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "spec-sync",
		Short: "Keep generated TypeScript artifacts in sync with OpenAPI specs",
	}

	root.AddCommand(newSyncCmd())
	root.AddCommand(newClientCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newSyncCmd() *cobra.Command {
	var configPath string
	var intervalMS int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync generated artifacts with the configured specs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				intervalMS = -1
			}
			return cli.RunSync(cli.RunSyncParams{
				ConfigPath: configPath,
				IntervalMS: intervalMS,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spec-sync.yaml", "Path to spec-sync.yaml config")
	cmd.Flags().IntVar(&intervalMS, "interval", 0, "Refetch interval in milliseconds (0 runs once)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func newClientCmd() *cobra.Command {
	var configPath string
	var api string
	var typ string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Generate a client wrapper for one API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunClient(cli.RunClientParams{
				ConfigPath: configPath,
				API:        api,
				Type:       typ,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spec-sync.yaml", "Path to spec-sync.yaml config")
	cmd.Flags().StringVar(&api, "api", "", "API name from the config")
	cmd.Flags().StringVar(&typ, "type", "", "Client type (fetch, axios, react-query, swr, rtk-query)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("api")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file or URL")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
