// Package snapshot serialises assembled corpora into compressed, checksummed
// snapshots and caches them in a BlobStore keyed by the input fingerprint.
//
// Layout of a snapshot (the whole stream is zstd-compressed):
//
//	{"format":"molgraph.corpus.v1","count":N,"checksum":"<blake3 hex>",...}\n
//	{graph 0 as JSON}\n
//	...
//	{graph N-1 as JSON}\n
//
// The checksum covers the graph lines only.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// FormatV1 identifies the current snapshot layout.
const FormatV1 = "molgraph.corpus.v1"

// maxPrealloc bounds the slice capacity taken from an untrusted header.
const maxPrealloc = 1 << 18

// Header is the first line of a snapshot.
type Header struct {
	Format      string    `json:"format"`
	Count       int       `json:"count"`
	Checksum    string    `json:"checksum"`
	BuildID     string    `json:"build_id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

func corrupt(msg string, cause error) *errors.AppError {
	if cause == nil {
		return errors.New(errors.ErrCodeCacheCorrupt, msg)
	}
	return errors.Wrap(cause, errors.ErrCodeCacheCorrupt, msg)
}

// Encode writes corpus to w as a snapshot tagged with fingerprint.
func Encode(w io.Writer, corpus molecule.Corpus, fingerprint string) (*Header, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for i := range corpus {
		if err := enc.Encode(&corpus[i]); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, fmt.Sprintf("encode graph %d", i))
		}
	}
	sum := blake3.Sum256(body.Bytes())
	h := &Header{
		Format:      FormatV1,
		Count:       corpus.Len(),
		Checksum:    hex.EncodeToString(sum[:]),
		BuildID:     uuid.NewString(),
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "open zstd writer")
	}
	if err := json.NewEncoder(zw).Encode(h); err != nil {
		zw.Close()
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "write snapshot header")
	}
	if _, err := zw.Write(body.Bytes()); err != nil {
		zw.Close()
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "write snapshot body")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheIO, "flush snapshot")
	}
	return h, nil
}

// Decode reads a snapshot.  Any structural problem, checksum or count
// mismatch, or invalid graph yields an ErrCodeCacheCorrupt error.
func Decode(r io.Reader) (molecule.Corpus, *Header, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, corrupt("open zstd reader", err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, nil, corrupt("read snapshot header", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, nil, corrupt("parse snapshot header", err)
	}
	if h.Format != FormatV1 {
		return nil, nil, corrupt(fmt.Sprintf("unsupported snapshot format %q", h.Format), nil)
	}
	if h.Count < 0 {
		return nil, nil, corrupt("negative graph count", nil)
	}

	hasher := blake3.New(32, nil)
	dec := json.NewDecoder(io.TeeReader(br, hasher))
	corpus := make(molecule.Corpus, 0, min(h.Count, maxPrealloc))
	for {
		var g molecule.MoleculeGraph
		err := dec.Decode(&g)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, corrupt(fmt.Sprintf("decode graph %d", len(corpus)), err)
		}
		corpus = append(corpus, g)
	}
	if got := hex.EncodeToString(hasher.Sum(nil)); got != h.Checksum {
		return nil, nil, corrupt("snapshot checksum mismatch", nil).
			WithDetail(fmt.Sprintf("header=%s body=%s", h.Checksum, got))
	}
	if corpus.Len() != h.Count {
		return nil, nil, corrupt("snapshot graph count mismatch", nil).
			WithDetail(fmt.Sprintf("header=%d body=%d", h.Count, corpus.Len()))
	}
	if err := corpus.Validate(); err != nil {
		return nil, nil, corrupt("snapshot holds an invalid graph", err)
	}
	return corpus, &h, nil
}

// Fingerprint hashes the concatenated inputs with BLAKE3.  Each input is
// followed by its length so that moving bytes between inputs changes the
// result.
func Fingerprint(inputs ...io.Reader) (string, error) {
	h := blake3.New(32, nil)
	for i, r := range inputs {
		n, err := io.Copy(h, r)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeCacheIO, fmt.Sprintf("fingerprint input %d", i))
		}
		fmt.Fprintf(h, "\x00%d\x00", n)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

//Personal.AI order the ending
