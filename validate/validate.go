// SPDX-License-Identifier: EPL-2.0

package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/padkit"
	"github.com/ik5/padkit/audio"
)

// MinDuration is the shortest sample the hardware can trigger.
const MinDuration = 100 * time.Millisecond

// Result is the outcome of validating one file. All checks run; Errors
// lists every failed check in check order.
type Result struct {
	Valid                    bool     `json:"valid"`
	Errors                   []string `json:"errors"`
	MeetsDurationRequirement bool     `json:"meets_duration_requirement"`
	FormatSupported          bool     `json:"format_supported"`
	FileReadable             bool     `json:"file_readable"`

	// Info is the probed stream description; zero unless the header could
	// be read.
	Info audio.Info `json:"-"`
}

// Message joins the errors into one line.
func (r Result) Message() string {
	return strings.Join(r.Errors, "; ")
}

type Validator struct {
	reg         *audio.Registry
	minDuration time.Duration
}

type Option func(*Validator)

// WithMinDuration overrides MinDuration.
func WithMinDuration(d time.Duration) Option {
	return func(v *Validator) { v.minDuration = d }
}

func New(reg *audio.Registry, opts ...Option) *Validator {
	v := &Validator{reg: reg, minDuration: MinDuration}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks that path is readable, has a supported extension and is
// at least the minimum duration long. Only container headers are read.
func (v *Validator) Validate(path string) Result {
	var r Result

	r.FileReadable, r.Errors = v.checkReadable(path, r.Errors)

	ext := strings.ToLower(filepath.Ext(path))
	var codec audio.Codec
	if key := padkit.FormatKey(path); key != "" {
		codec, r.FormatSupported = v.reg.Get(key)
	}
	if !r.FormatSupported {
		if ext == "" {
			ext = "(none)"
		}
		r.Errors = append(r.Errors, "Unsupported format: "+ext)
	}

	if r.FileReadable && r.FormatSupported {
		r.Info, r.MeetsDurationRequirement, r.Errors = v.checkDuration(path, codec, r.Errors)
	}

	r.Valid = r.FileReadable && r.FormatSupported && r.MeetsDurationRequirement

	return r
}

func (v *Validator) checkReadable(path string, errs []string) (bool, []string) {
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, append(errs, "File not found")
	}
	if err != nil || !st.Mode().IsRegular() {
		return false, append(errs, "File not readable")
	}

	f, err := os.Open(path)
	if err != nil {
		return false, append(errs, "File not readable")
	}
	f.Close()

	return true, errs
}

func (v *Validator) checkDuration(path string, codec audio.Codec, errs []string) (audio.Info, bool, []string) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Info{}, false, append(errs, "File not readable")
	}
	defer f.Close()

	info, err := codec.Probe(f)
	if err != nil {
		return audio.Info{}, false, append(errs, fmt.Sprintf("Could not read audio duration: %v", err))
	}
	if info.SampleRate <= 0 {
		return info, false, append(errs, "Could not read audio duration: invalid sample rate")
	}

	// Duration is floor(frames/rate) in nanoseconds, so this is exact.
	if info.Duration() >= v.minDuration {
		return info, true, errs
	}

	ms := min(int64(math.Round(float64(info.Frames)*1000/float64(info.SampleRate))), v.minDuration.Milliseconds()-1)

	return info, false, append(errs, fmt.Sprintf("Duration too short: %dms (minimum: %dms)", ms, v.minDuration.Milliseconds()))
}
