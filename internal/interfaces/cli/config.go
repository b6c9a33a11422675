package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command.  Secrets are masked.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cliCtx.Config.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			source := cliCtx.ConfigPath
			if source == "" {
				source = "defaults and environment"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: configuration from %s is valid\n", source)
			return nil
		},
	})
	return cmd
}

// VersionInfo is the output of `molgraph version`.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("molgraph %s (commit: %s, built: %s)", v.Version, v.Commit, v.BuildDate)
}

// NewVersionCmd creates the version command.  It needs no configuration.
func NewVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
			if asJSON {
				return printJSON(cmd, info)
			}
			return printText(cmd, info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

//Personal.AI order the ending
