package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/ttfs/blob"
)

func (a *app) newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode BLOB...",
		Short: "Print the trains stored in spike blobs as JSONL",
		Long: `Decode reads one or more spike blobs written by "encode --format blob" and
prints their trains in order as JSONL, numbering records across all blobs.
With --info only the blob headers are printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHint(a.runDecode(cmd, args))
		},
	}

	cmd.Flags().StringP("output", "o", stdStream, "output file, - for stdout")
	cmd.Flags().Bool("info", false, "print blob header statistics instead of trains")

	return cmd
}

type blobInfo struct {
	File          string `json:"file"`
	Records       int    `json:"records"`
	Spikes        int    `json:"spikes"`
	Neurons       int    `json:"neurons"`
	DelayEncoding string `json:"delay_encoding"`
	Compression   string `json:"compression"`
	BigEndian     bool   `json:"big_endian"`
	Bytes         int    `json:"bytes"`
	Checksum      uint64 `json:"checksum"`
}

func (a *app) runDecode(cmd *cobra.Command, files []string) error {
	blobs := make([]blob.SpikeBlob, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "read spike blob")
		}

		b, err := blob.DecodeSpikeBlob(data)
		if err != nil {
			return errors.Wrapf(err, "decode %s", file)
		}
		a.logger.Debug("blob decoded", zap.String("file", file), zap.Int("records", b.Len()))
		blobs = append(blobs, b)
	}

	out, closeOut, err := openOutput(cmd, a.v.GetString("output"))
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	if a.v.GetBool("info") {
		enc := json.NewEncoder(out)
		for i, b := range blobs {
			info := blobInfo{
				File:          files[i],
				Records:       b.Len(),
				Spikes:        b.SpikeCount(),
				Neurons:       b.NumNeurons(),
				DelayEncoding: b.DelayEncoding().String(),
				Compression:   b.Compression().String(),
				BigEndian:     b.IsBigEndian(),
				Bytes:         len(b.Bytes()),
				Checksum:      b.Checksum(),
			}
			if err := enc.Encode(info); err != nil {
				return errors.Wrap(err, "write blob info")
			}
		}

		return closeOut()
	}

	set, err := blob.NewSpikeBlobSet(blobs...)
	if err != nil {
		return errors.WithHint(err, "all blobs passed to one decode call must share a neuron count")
	}

	w := newJSONLWriter(out)
	for i, train := range set.All() {
		if err := w.Write(i, train); err != nil {
			return errors.Wrap(err, "write train")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "flush output")
	}

	return closeOut()
}
