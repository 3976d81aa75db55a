package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploykit/stackhook/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "stackhook",
		Short: "CloudFormation custom-resource dispatcher for CodeBuild",
		Long: `Stackhook maps stack lifecycle events (Create/Update/Delete) to CodeBuild
invocations and reports status back to CloudFormation. The CLI sends
synthetic lifecycle events through the same dispatcher for local testing
and watches builds it has started.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInvokeCmd(),
		commands.NewWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
