package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molgraph/internal/application/pipeline"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
)

// SplitResult lists the subset summaries.
type SplitResult struct {
	Subsets []*pipeline.SubsetSummary `json:"subsets"`
}

func (r *SplitResult) TableHeaders() []string {
	return []string{"SPLIT", "SIZE", "TARGET", "MEAN", "MAD", "MAX_NODES", "MAX_EDGES"}
}

func (r *SplitResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Subsets))
	for _, s := range r.Subsets {
		rows = append(rows, []string{
			s.Split,
			strconv.Itoa(s.Size),
			s.Target,
			formatOptional(s.TargetMean),
			formatOptional(s.TargetMAD),
			strconv.Itoa(s.MaxNodes),
			strconv.Itoa(s.MaxEdges),
		})
	}
	return rows
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}

// IndicesResult holds the corpus indices of one subset.
type IndicesResult struct {
	Split   string `json:"split"`
	Indices []int  `json:"indices"`
}

func (r *IndicesResult) String() string {
	parts := make([]string, len(r.Indices))
	for i, v := range r.Indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "\n")
}

// IndicesResults holds the indices of several subsets.
type IndicesResults []*IndicesResult

func (r IndicesResults) String() string {
	var sb strings.Builder
	for i, res := range r {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("# " + res.Split + "\n")
		sb.WriteString(res.String())
	}
	return sb.String()
}

// NewSplitCmd creates the split command.
func NewSplitCmd() *cobra.Command {
	var (
		splitName   string
		showIndices bool
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Partition the corpus and summarise the subsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			splits := qm9.Splits
			if splitName != "" {
				s, err := qm9.ParseSplit(splitName)
				if err != nil {
					return err
				}
				splits = []qm9.Split{s}
			}

			svc, err := cliCtx.NewService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if showIndices {
				idx, err := svc.Partition(cmd.Context())
				if err != nil {
					return err
				}
				out := make(IndicesResults, 0, len(splits))
				for _, s := range splits {
					out = append(out, &IndicesResult{Split: s.String(), Indices: idx.Of(s)})
				}
				if len(out) == 1 {
					return PrintResult(cmd, out[0])
				}
				return PrintResult(cmd, out)
			}

			res := &SplitResult{}
			for _, s := range splits {
				sum, err := svc.Describe(cmd.Context(), s)
				if err != nil {
					return err
				}
				res.Subsets = append(res.Subsets, sum)
			}
			return PrintResult(cmd, res)
		},
	}
	cmd.Flags().StringVar(&splitName, "split", "", "restrict output to one subset (train, val, test)")
	cmd.Flags().BoolVar(&showIndices, "indices", false, "print the corpus indices instead of summaries")
	return cmd
}

//Personal.AI order the ending
