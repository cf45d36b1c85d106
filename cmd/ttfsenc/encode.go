package main

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/ttfs/encoder"
	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/ranges"
)

func (a *app) newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode JSONL or CSV records into spike trains",
		Long: `Encode reads flow records and writes one spike train per record.

Input is JSONL (one object per line) or CSV with a header row; only fields
naming a feature in the range source are read. Output is JSONL, one
{"record": N, "spikes": [[channel, delay_ms], ...]} line per record, or a single
compressed spike blob with --format blob.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHint(a.runEncode(cmd))
		},
	}

	f := cmd.Flags()
	f.String("ranges", "", "range source: JSON or YAML file, or sqlite://PATH")
	f.StringP("input", "i", stdStream, "input file, - for stdin")
	f.String("input-format", inputAuto, "input format: auto, jsonl or csv")
	f.StringP("output", "o", stdStream, "output file, - for stdout")
	f.String("format", outputJSONL, "output format: jsonl or blob")
	f.Float64("max-delay", encoder.DefaultMaxDelayMS, "time budget per record in milliseconds")
	f.Int("rings", encoder.DefaultNumRings, "delay rings per feature")
	f.Float64("gamma", encoder.DefaultGamma, "exponent of the value to delay curve")
	f.Float64("jitter", encoder.DefaultJitterFrac, "jitter half-width as a fraction of the ring width")
	f.Int64("seed", encoder.DefaultSeed, "jitter seed")
	f.Bool("skip-zeros", false, "emit no spikes for features whose normalized value is zero")
	f.Bool("skip-invalid", false, "skip records missing a feature instead of failing")
	f.String("compression", "zstd", "blob compression: none, zstd, s2 or lz4")
	f.String("delay-encoding", "f32", "blob delay encoding: f32 or f64")
	f.Bool("big-endian", false, "write blob payloads big-endian")

	return cmd
}

// loadRanges resolves --ranges (or TTFS_RANGES) into a registry.
func (a *app) loadRanges(cmd *cobra.Command) (*ranges.Registry, error) {
	source := a.v.GetString("ranges")
	if source == "" {
		return nil, errors.WithHint(errors.New("no range source given"),
			"pass --ranges FILE, --ranges sqlite://PATH, or set TTFS_RANGES")
	}

	reg, err := ranges.LoadSource(cmd.Context(), source)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("ranges loaded",
		zap.String("source", source),
		zap.Int("features", reg.Len()),
		zap.Uint64("fingerprint", reg.Fingerprint()),
	)

	return reg, nil
}

func (a *app) encoderOptions() []encoder.Option {
	return []encoder.Option{
		encoder.WithMaxDelay(a.v.GetFloat64("max-delay")),
		encoder.WithRings(a.v.GetInt("rings")),
		encoder.WithGamma(a.v.GetFloat64("gamma")),
		encoder.WithJitterFrac(a.v.GetFloat64("jitter")),
		encoder.WithSeed(a.v.GetInt64("seed")),
		encoder.WithSkipZeros(a.v.GetBool("skip-zeros")),
		encoder.WithLogger(a.logger),
	}
}

func (a *app) runEncode(cmd *cobra.Command) error {
	start := time.Now()

	reg, err := a.loadRanges(cmd)
	if err != nil {
		return err
	}

	enc, err := encoder.New(reg, a.encoderOptions()...)
	if err != nil {
		return err
	}

	inPath := a.v.GetString("input")
	inFormat, err := resolveInputFormat(a.v.GetString("input-format"), inPath)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, inPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeIn() }()

	records, err := newRecordReader(in, inFormat, reg)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, a.v.GetString("output"))
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	var trains trainWriter
	switch outFormat := a.v.GetString("format"); outFormat {
	case outputJSONL:
		trains = newJSONLWriter(out)
	case outputBlob:
		opts, err := blobOptions(a.v.GetString("compression"), a.v.GetString("delay-encoding"), a.v.GetBool("big-endian"))
		if err != nil {
			return err
		}
		if trains, err = newBlobWriter(out, enc.NumNeurons(), opts...); err != nil {
			return err
		}
	default:
		return errors.WithHint(errors.Newf("unknown output format %q", outFormat), "use jsonl or blob")
	}

	skipInvalid := a.v.GetBool("skip-invalid")
	var encoded, skipped, spikes int

	for i := 0; ; i++ {
		if err := cmd.Context().Err(); err != nil {
			return errors.Wrap(err, "encoding interrupted")
		}

		rec, err := records.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		train, err := enc.Encode(rec)
		if err != nil {
			if skipInvalid && errors.Is(err, errs.ErrMissingFeature) {
				a.logger.Warn("skipping record", zap.Int("record", i), zap.Error(err))
				skipped++

				continue
			}

			return errors.Wrapf(err, "record %d", i)
		}

		if err := trains.Write(i, train); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		encoded++
		spikes += len(train)
	}

	if err := trains.Close(); err != nil {
		return err
	}
	if err := closeOut(); err != nil {
		return errors.Wrap(err, "close output")
	}

	a.logger.Info("encoding finished",
		zap.Int("records", encoded),
		zap.Int("skipped", skipped),
		zap.Int("spikes", spikes),
		zap.Int("neurons", enc.NumNeurons()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return nil
}
