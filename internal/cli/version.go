package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/ecosort/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{annotationSkipValidation: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("ecosort %s\n", ver)
			cmd.Printf("commit: %s\n", version.GetGitCommit())
			cmd.Printf("built:  %s\n", version.GetBuildDate())
		},
	}
}
