package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/molgraph/internal/application/pipeline"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
)

// BatchRow summarises one loader step.
type BatchRow struct {
	Index        int `json:"index"`
	Graphs       int `json:"graphs"`
	Nodes        int `json:"nodes"`
	Edges        int `json:"edges"`
	NodeCapacity int `json:"node_capacity,omitempty"`
	EdgeCapacity int `json:"edge_capacity,omitempty"`
}

// BatchesResult is the output of `molgraph batches`.
type BatchesResult struct {
	Split      string                 `json:"split"`
	Epoch      int                    `json:"epoch"`
	NumBatches int                    `json:"num_batches"`
	Options    pipeline.LoaderOptions `json:"options"`
	Batches    []BatchRow             `json:"batches"`
}

func (r *BatchesResult) TableHeaders() []string {
	return []string{"BATCH", "GRAPHS", "NODES", "EDGES", "NODE_CAP", "EDGE_CAP"}
}

func (r *BatchesResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Batches))
	for _, b := range r.Batches {
		nodeCap, edgeCap := "-", "-"
		if r.Options.Pad {
			nodeCap, edgeCap = strconv.Itoa(b.NodeCapacity), strconv.Itoa(b.EdgeCapacity)
		}
		rows = append(rows, []string{
			strconv.Itoa(b.Index),
			strconv.Itoa(b.Graphs),
			strconv.Itoa(b.Nodes),
			strconv.Itoa(b.Edges),
			nodeCap,
			edgeCap,
		})
	}
	return rows
}

// NewBatchesCmd creates the batches command.  It walks one epoch of a loader
// and prints the shape of every batch.
func NewBatchesCmd() *cobra.Command {
	var (
		splitName string
		batchSize int
		shuffle   bool
		pad       bool
		dropLast  bool
		epoch     int
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Iterate collated batches of a subset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			split, err := qm9.ParseSplit(splitName)
			if err != nil {
				return err
			}

			svc, err := cliCtx.NewService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			opts := svc.LoaderOptions()
			flags := cmd.Flags()
			if flags.Changed("batch-size") {
				opts.BatchSize = batchSize
			}
			if flags.Changed("shuffle") {
				opts.Shuffle = shuffle
			}
			if flags.Changed("pad") {
				opts.Pad = pad
			}
			if flags.Changed("drop-last") {
				opts.DropLast = dropLast
			}

			loader, err := svc.Loader(cmd.Context(), split, opts)
			if err != nil {
				return err
			}
			loader.Reset(epoch)

			res := &BatchesResult{Split: split.String(), Epoch: epoch, NumBatches: loader.NumBatches(), Options: opts}
			for i := 0; limit <= 0 || i < limit; i++ {
				b, err := loader.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				row := BatchRow{
					Index:  i,
					Graphs: b.Collated.NumGraphs(),
					Nodes:  b.Collated.NumNodes(),
					Edges:  b.Collated.NumEdges(),
				}
				if b.Padded != nil {
					row.NodeCapacity = b.Padded.NodeCapacity
					row.EdgeCapacity = b.Padded.EdgeCapacity
				}
				res.Batches = append(res.Batches, row)
			}
			return PrintResult(cmd, res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&splitName, "split", "train", "subset to iterate (train, val, test)")
	f.IntVar(&batchSize, "batch-size", 0, "graphs per batch (default: batch.size)")
	f.BoolVar(&shuffle, "shuffle", false, "shuffle indices every epoch (default: batch.shuffle)")
	f.BoolVar(&pad, "pad", false, "pad batches to a static shape (default: batch.pad)")
	f.BoolVar(&dropLast, "drop-last", false, "drop a trailing partial batch (default: batch.drop_last)")
	f.IntVar(&epoch, "epoch", 0, "epoch number mixed into the shuffle seed")
	f.IntVar(&limit, "limit", 0, "stop after this many batches (0 = whole epoch)")
	return cmd
}

//Personal.AI order the ending
