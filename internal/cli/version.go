package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build variables, set with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintf(out, "v%s\n", Version)
				return
			}

			fmt.Fprintf(out, "podcastbot v%s\n", Version)
			fmt.Fprintf(out, "  commit:     %s\n", GitCommit)
			fmt.Fprintf(out, "  built:      %s\n", BuildTime)
			fmt.Fprintf(out, "  go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print just the version number")
	return cmd
}
