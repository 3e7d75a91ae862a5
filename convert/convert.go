// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/padkit"
	"github.com/ik5/padkit/audio"
	"github.com/ik5/padkit/formats/aiff"
	"github.com/ik5/padkit/formats/wav"
	"github.com/ik5/padkit/models"
)

const (
	// TargetSampleRate and TargetBitDepth are what the sampler plays back.
	TargetSampleRate = 48000
	TargetBitDepth   = 16
)

// Result describes one conversion attempt. Failures are reported here, not
// as Go errors.
type Result struct {
	Success                 bool    `json:"success"`
	OutputPath              string  `json:"output_path"`
	OriginalFormat          string  `json:"original_format"`
	OriginalSampleRate      int     `json:"original_sample_rate"`
	OriginalDurationSeconds float64 `json:"original_duration_seconds"`
	ConvertedSampleRate     int     `json:"converted_sample_rate"`
	Channels                int     `json:"channels"`
	// Copied is set when the input was already in the target layout and
	// was copied byte for byte.
	Copied bool   `json:"copied,omitempty"`
	Error  string `json:"error_message,omitempty"`
}

type Converter struct {
	reg       *audio.Registry
	resampler *audio.Resampler
	quantizer audio.Quantizer
	byteCopy  bool
	log       *slog.Logger
}

type Option func(*Converter)

// WithResampler replaces the default 16 zero-crossing Kaiser sinc.
func WithResampler(r *audio.Resampler) Option {
	return func(c *Converter) { c.resampler = r }
}

// WithDither turns TPDF dither on or off and sets its seed.
func WithDither(enabled bool, seed uint64) Option {
	return func(c *Converter) { c.quantizer = audio.Quantizer{Dither: enabled, Seed: seed} }
}

// WithoutByteCopy forces a full decode and re-encode even for input that
// is already 48 kHz / 16-bit WAV.
func WithoutByteCopy() Option {
	return func(c *Converter) { c.byteCopy = false }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

func New(reg *audio.Registry, opts ...Option) *Converter {
	c := &Converter{
		reg:       reg,
		resampler: audio.NewResampler(audio.DefaultHalfWidth, audio.DefaultKaiserBeta),
		quantizer: audio.Quantizer{Dither: true, Seed: 1},
		byteCopy:  true,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert decodes in, resamples it to 48 kHz, quantizes to 16 bits with the
// original channel count and writes it to out as format. Output is written
// to a temporary file in the destination directory and renamed into
// place, so a failed conversion leaves nothing behind.
//
// ctx is checked between stages; a stage already running is not
// interrupted.
func (c *Converter) Convert(ctx context.Context, in, out string, format models.Format) Result {
	res := Result{OutputPath: out}

	fail := func(msg string, args ...any) Result {
		res.Error = fmt.Sprintf(msg, args...)
		c.log.Debug("conversion failed", "input", in, "error", res.Error)
		return res
	}

	if !format.IsValid() {
		return fail("Unsupported target format: %s", format)
	}

	key := padkit.FormatKey(in)
	codec, ok := c.reg.Get(key)
	if key == "" || !ok {
		return fail("Unsupported input format: %s", strings.ToLower(filepath.Ext(in)))
	}
	res.OriginalFormat = key

	f, err := os.Open(in)
	if err != nil {
		return fail("Could not open input: %v", err)
	}
	defer f.Close()

	info, err := codec.Probe(f)
	if err != nil {
		return fail("Could not decode audio: %v", err)
	}
	res.OriginalSampleRate = info.SampleRate
	res.OriginalDurationSeconds = info.Duration().Seconds()
	res.Channels = info.Channels

	if err := ctx.Err(); err != nil {
		return fail("Conversion cancelled: %v", err)
	}

	if c.byteCopy && format == models.FormatWAV && key == "wav" && info.PCM &&
		info.BitDepth == TargetBitDepth && info.SampleRate == TargetSampleRate {
		if err := copyInto(f, out); err != nil {
			return fail("Could not write output: %v", err)
		}
		res.Copied = true
		res.ConvertedSampleRate = TargetSampleRate
		res.Success = true
		return res
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail("Could not read input: %v", err)
	}

	buf, err := c.decode(codec, f)
	if err != nil {
		return fail("Could not decode audio: %v", err)
	}
	if buf.Frames() == 0 {
		return fail("Could not decode audio: no samples")
	}
	res.Channels = buf.Channels()

	if err := ctx.Err(); err != nil {
		return fail("Conversion cancelled: %v", err)
	}

	if buf.SampleRate != TargetSampleRate {
		buf, err = c.resampler.Resample(buf, TargetSampleRate)
		if err != nil {
			return fail("Resampling failed: %v", err)
		}
	}

	samples, err := c.quantizer.Quantize16(buf)
	if err != nil {
		return fail("Quantization failed: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return fail("Conversion cancelled: %v", err)
	}

	channels := buf.Channels()
	err = writeAtomic(out, func(tmp *os.File) error {
		switch format {
		case models.FormatAIFF:
			return aiff.WriteAIFF16(tmp, TargetSampleRate, channels, samples)
		default:
			w := bufio.NewWriter(tmp)
			if err := wav.WriteWAV16(w, TargetSampleRate, channels, samples); err != nil {
				return err
			}
			return w.Flush()
		}
	})
	if err != nil {
		return fail("Could not write output: %v", err)
	}

	res.ConvertedSampleRate = TargetSampleRate
	res.Success = true

	return res
}

func (c *Converter) decode(codec audio.Codec, r io.Reader) (*audio.Buffer, error) {
	src, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.ReadAll(src)
}

// copyInto streams r to out through the same temp-and-rename path.
func copyInto(r io.ReadSeeker, out string) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}

	return writeAtomic(out, func(tmp *os.File) error {
		_, err := io.Copy(tmp, r)
		return err
	})
}

// writeAtomic creates out's directory, lets write fill a temporary file
// next to out and renames it over out on success.
func writeAtomic(out string, write func(*os.File) error) (err error) {
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".padkit-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), out)
}
