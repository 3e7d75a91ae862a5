// SPDX-License-Identifier: EPL-2.0

package padkit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/padkit/audio"
	"github.com/ik5/padkit/formats/aiff"
	"github.com/ik5/padkit/formats/flac"
	"github.com/ik5/padkit/formats/m4a"
	"github.com/ik5/padkit/formats/mp3"
	"github.com/ik5/padkit/formats/vorbis"
	"github.com/ik5/padkit/formats/wav"
)

// ErrUnsupportedFormat is returned for extensions no codec is registered for.
var ErrUnsupportedFormat = errors.New("unsupported format")

// extensions maps lower-case file extensions to registry keys.
var extensions = map[string]string{
	".wav":  "wav",
	".aiff": "aiff",
	".aif":  "aiff",
	".mp3":  "mp3",
	".flac": "flac",
	".ogg":  "ogg",
	".m4a":  "m4a",
}

// NewRegistry returns a registry holding every built-in codec.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("flac", flac.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("m4a", m4a.Decoder{})

	return reg
}

// FormatKey returns the registry key for path's extension, or "" when the
// extension is unknown. Matching is case-insensitive.
func FormatKey(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions lists the extensions, with leading dot, whose codec is
// present in reg.
func SupportedExtensions(reg *audio.Registry) []string {
	var out []string
	for ext, key := range extensions {
		if _, ok := reg.Get(key); ok {
			out = append(out, ext)
		}
	}
	slices.Sort(out)

	return out
}

func codecFor(reg *audio.Registry, path string) (audio.Codec, error) {
	key := FormatKey(path)
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	c, ok := reg.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	return c, nil
}

// ProbeFile reads the container headers of path.
func ProbeFile(reg *audio.Registry, path string) (audio.Info, error) {
	c, err := codecFor(reg, path)
	if err != nil {
		return audio.Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}
	defer f.Close()

	return c.Probe(f)
}

// DecodeFile loads path into memory and returns a decoded source. Samples
// are short, so holding the encoded bytes is cheaper than keeping a file
// descriptor open for the source's lifetime.
func DecodeFile(reg *audio.Registry, path string) (audio.Source, error) {
	c, err := codecFor(reg, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return c.Decode(bytes.NewReader(data))
}
