package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// BuildResult is the output of `molgraph build`.
type BuildResult struct {
	Size   int                 `json:"size"`
	Report *qm9.AssemblyReport `json:"report"`
	Splits qm9.SplitSizes      `json:"splits"`
}

func (r *BuildResult) TableHeaders() []string {
	return []string{"TOTAL", "ACCEPTED", "EXCLUDED", "UNPARSABLE", "CORPUS", "FROM_CACHE", "DURATION"}
}

func (r *BuildResult) TableRows() [][]string {
	return [][]string{{
		strconv.Itoa(r.Report.Total),
		strconv.Itoa(r.Report.Accepted),
		strconv.Itoa(r.Report.Excluded),
		strconv.Itoa(r.Report.Unparsable),
		strconv.Itoa(r.Size),
		strconv.FormatBool(r.Report.FromCache),
		r.Report.Duration.String(),
	}}
}

// NewBuildCmd creates the build command.  It assembles the corpus, reusing
// the configured snapshot cache, and prints the assembly report.
func NewBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Assemble the corpus and populate the snapshot cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := cliCtx.NewService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			corpus, report, err := svc.Corpus(cmd.Context())
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("build finished",
				logging.Int("size", corpus.Len()),
				logging.Bool("from_cache", report.FromCache))
			return PrintResult(cmd, &BuildResult{Size: corpus.Len(), Report: report, Splits: svc.Sizes()})
		},
	}
}

//Personal.AI order the ending
