package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/lendrag/internal/cli"
	"github.com/cloo-solutions/lendrag/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lendragd",
		Short: "Lendrag daemon and CLI",
		Long:  "Lendrag daemon for running the lending document API server and inspecting pipelines",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.PipelineCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
