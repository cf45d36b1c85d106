package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/arloliu/ttfs/blob"
	"github.com/arloliu/ttfs/format"
	"github.com/arloliu/ttfs/spike"
)

// Output formats of the encode command.
const (
	outputJSONL = "jsonl"
	outputBlob  = "blob"
)

const stdStream = "-"

// trainWriter consumes encoded trains; Close flushes buffered output.
type trainWriter interface {
	Write(record int, train spike.Train) error
	Close() error
}

type jsonlLine struct {
	Record int         `json:"record"`
	Spikes spike.Train `json:"spikes"`
}

type jsonlWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	bw := bufio.NewWriter(w)

	return &jsonlWriter{w: bw, enc: json.NewEncoder(bw)}
}

func (w *jsonlWriter) Write(record int, train spike.Train) error {
	if train == nil {
		train = spike.Train{}
	}

	return w.enc.Encode(jsonlLine{Record: record, Spikes: train})
}

func (w *jsonlWriter) Close() error {
	return w.w.Flush()
}

// blobWriter packs all trains into one spike blob written on Close.
type blobWriter struct {
	w   io.Writer
	enc *blob.SpikeEncoder
}

func newBlobWriter(w io.Writer, numNeurons int, opts ...blob.SpikeEncoderOption) (*blobWriter, error) {
	enc, err := blob.NewSpikeEncoder(numNeurons, opts...)
	if err != nil {
		return nil, err
	}

	return &blobWriter{w: w, enc: enc}, nil
}

func (w *blobWriter) Write(_ int, train spike.Train) error {
	return w.enc.AddTrain(train)
}

func (w *blobWriter) Close() error {
	b, err := w.enc.Finish()
	if err != nil {
		return errors.Wrap(err, "finish spike blob")
	}
	if _, err := w.w.Write(b.Bytes()); err != nil {
		return errors.Wrap(err, "write spike blob")
	}

	return nil
}

// blobOptions maps the --compression and --delay-encoding flag values.
func blobOptions(compression, delayEncoding string, bigEndian bool) ([]blob.SpikeEncoderOption, error) {
	comp, ok := format.ParseCompression(compression)
	if !ok {
		return nil, errors.WithHint(errors.Newf("unknown compression %q", compression),
			"use none, zstd, s2 or lz4")
	}

	var enc format.DelayEncoding
	switch strings.ToLower(delayEncoding) {
	case "f32", "float32":
		enc = format.DelayFloat32
	case "f64", "float64":
		enc = format.DelayFloat64
	default:
		return nil, errors.WithHint(errors.Newf("unknown delay encoding %q", delayEncoding),
			"use f32 or f64")
	}

	opts := []blob.SpikeEncoderOption{
		blob.WithCompression(comp),
		blob.WithDelayEncoding(enc),
		blob.WithLittleEndian(),
	}
	if bigEndian {
		opts = append(opts, blob.WithBigEndian())
	}

	return opts, nil
}

// openInput opens path for reading; "-" or "" is the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "" || path == stdStream {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}

	return f, f.Close, nil
}

// openOutput creates path for writing; "-" or "" is the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == stdStream {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output")
	}

	return f, f.Close, nil
}
