package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/molgraph/internal/application/pipeline"
	"github.com/turtacn/molgraph/internal/dataset/batching"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// SubsetService is the part of pipeline.Service the handlers read from.
type SubsetService interface {
	Corpus(ctx context.Context) (molecule.Corpus, *qm9.AssemblyReport, error)
	Describe(ctx context.Context, split qm9.Split) (*pipeline.SubsetSummary, error)
	Dataset(ctx context.Context, split qm9.Split) (*qm9.Dataset, error)
	Loader(ctx context.Context, split qm9.Split, opts pipeline.LoaderOptions) (*batching.Loader, error)
	LoaderOptions() pipeline.LoaderOptions
}

var _ SubsetService = (*pipeline.Service)(nil)

// SubsetHandler serves corpus, subset, item and batch views.
type SubsetHandler struct {
	svc SubsetService
}

// NewSubsetHandler creates a new SubsetHandler.
func NewSubsetHandler(svc SubsetService) *SubsetHandler {
	return &SubsetHandler{svc: svc}
}

// CorpusResponse summarises the assembled corpus.
type CorpusResponse struct {
	Size   int                 `json:"size"`
	Report *qm9.AssemblyReport `json:"report"`
}

// BatchShape holds the real sizes of a collated batch.
type BatchShape struct {
	NumGraphs   int `json:"num_graphs"`
	NumNodes    int `json:"num_nodes"`
	NumEdges    int `json:"num_edges"`
	TargetWidth int `json:"target_width"`
}

// PaddedShape holds the static sizes of a padded batch.
type PaddedShape struct {
	NodeCapacity int     `json:"node_capacity"`
	EdgeCapacity int     `json:"edge_capacity"`
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	Targets      int     `json:"targets"`
	MaskSum      float32 `json:"mask_sum"`
}

// BatchResponse describes one loader step.
type BatchResponse struct {
	Split      string                 `json:"split"`
	Epoch      int                    `json:"epoch"`
	Index      int                    `json:"index"`
	NumBatches int                    `json:"num_batches"`
	Indices    []int                  `json:"indices"`
	Shape      BatchShape             `json:"shape"`
	Padded     *PaddedShape           `json:"padded,omitempty"`
	Collated   *batching.BatchedGraph `json:"collated,omitempty"`
	Tensors    *batching.PaddedGraph  `json:"tensors,omitempty"`
}

func splitParam(r *http.Request) (qm9.Split, error) {
	return qm9.ParseSplit(chi.URLParam(r, "split"))
}

// Corpus handles GET /api/v1/corpus.
func (h *SubsetHandler) Corpus(w http.ResponseWriter, r *http.Request) {
	corpus, report, err := h.svc.Corpus(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CorpusResponse{Size: corpus.Len(), Report: report})
}

// List handles GET /api/v1/subsets.
func (h *SubsetHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]*pipeline.SubsetSummary, 0, len(qm9.Splits))
	for _, s := range qm9.Splits {
		sum, err := h.svc.Describe(r.Context(), s)
		if err != nil {
			writeAppError(w, err)
			return
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/subsets/{split}.
func (h *SubsetHandler) Get(w http.ResponseWriter, r *http.Request) {
	split, err := splitParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	sum, err := h.svc.Describe(r.Context(), split)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Item handles GET /api/v1/subsets/{split}/items/{index}.
func (h *SubsetHandler) Item(w http.ResponseWriter, r *http.Request) {
	split, err := splitParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	index, err := intParam("index", chi.URLParam(r, "index"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	ds, err := h.svc.Dataset(r.Context(), split)
	if err != nil {
		writeAppError(w, err)
		return
	}
	g, err := ds.Get(index)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Batch handles GET /api/v1/subsets/{split}/batches/{n}.  Query parameters
// batch_size, shuffle, pad and epoch override the configured loader options;
// tensors=true includes the batch arrays.
func (h *SubsetHandler) Batch(w http.ResponseWriter, r *http.Request) {
	split, err := splitParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	n, err := intParam("n", chi.URLParam(r, "n"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	opts, epoch, tensors, err := h.batchQuery(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	loader, err := h.svc.Loader(r.Context(), split, opts)
	if err != nil {
		writeAppError(w, err)
		return
	}
	loader.Reset(epoch)
	if n >= loader.NumBatches() {
		writeAppError(w, errors.New(errors.ErrCodeIndexOutOfRange, "batch index out of range").
			WithDetail(fmt.Sprintf("n=%d num_batches=%d", n, loader.NumBatches())))
		return
	}

	var b *batching.Batch
	for i := 0; i <= n; i++ {
		if b, err = loader.Next(); err != nil {
			writeAppError(w, err)
			return
		}
	}

	resp := BatchResponse{
		Split:      split.String(),
		Epoch:      epoch,
		Index:      n,
		NumBatches: loader.NumBatches(),
		Indices:    b.Indices,
		Shape: BatchShape{
			NumGraphs:   b.Collated.NumGraphs(),
			NumNodes:    b.Collated.NumNodes(),
			NumEdges:    b.Collated.NumEdges(),
			TargetWidth: b.Collated.TargetWidth(),
		},
	}
	if p := b.Padded; p != nil {
		var mask float32
		for _, m := range p.LossMask {
			mask += m
		}
		resp.Padded = &PaddedShape{
			NodeCapacity: p.NodeCapacity,
			EdgeCapacity: p.EdgeCapacity,
			Nodes:        len(p.Positions),
			Edges:        len(p.Edges),
			Targets:      len(p.Targets),
			MaskSum:      mask,
		}
	}
	if tensors {
		if b.Padded != nil {
			resp.Tensors = b.Padded
		} else {
			resp.Collated = b.Collated
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubsetHandler) batchQuery(r *http.Request) (opts pipeline.LoaderOptions, epoch int, tensors bool, err error) {
	opts = h.svc.LoaderOptions()
	q := r.URL.Query()
	if raw := q.Get("batch_size"); raw != "" {
		if opts.BatchSize, err = intParam("batch_size", raw); err != nil {
			return
		}
	}
	if raw := q.Get("epoch"); raw != "" {
		if epoch, err = intParam("epoch", raw); err != nil {
			return
		}
	}
	if opts.Shuffle, err = boolQuery(r, "shuffle", opts.Shuffle); err != nil {
		return
	}
	if opts.Pad, err = boolQuery(r, "pad", opts.Pad); err != nil {
		return
	}
	tensors, err = boolQuery(r, "tensors", false)
	return
}

//Personal.AI order the ending
