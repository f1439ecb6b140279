package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/census/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and the survey database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				result := map[string]string{
					"config":   paths.ConfigFile(a.configDir),
					"data_dir": s.dataDir,
				}
				return a.emit(cmd, result, func(w io.Writer) {
					fmt.Fprintln(w, "census initialized")
					fmt.Fprintf(w, "config:\t%s\n", result["config"])
					fmt.Fprintf(w, "data dir:\t%s\n", result["data_dir"])
				})
			})
		},
	}
}
