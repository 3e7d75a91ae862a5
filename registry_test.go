// SPDX-License-Identifier: EPL-2.0

package padkit

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/padkit/internal/audiotest"
)

func TestFormatKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"kick.wav", "wav"},
		{"KICK.WAV", "wav"},
		{"pad.aif", "aiff"},
		{"pad.AIFF", "aiff"},
		{"loop.mp3", "mp3"},
		{"snare.flac", "flac"},
		{"hat.ogg", "ogg"},
		{"vox.m4a", "m4a"},
		{"notes.txt", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		if got := FormatKey(tt.path); got != tt.want {
			t.Errorf("FormatKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSupportedExtensions(t *testing.T) {
	t.Parallel()

	want := []string{".aif", ".aiff", ".flac", ".m4a", ".mp3", ".ogg", ".wav"}
	if got := SupportedExtensions(NewRegistry()); !slices.Equal(got, want) {
		t.Errorf("SupportedExtensions() = %v, want %v", got, want)
	}
}

func TestProbeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := audiotest.WriteSineWAV(path, 44100, 2, 250); err != nil {
		t.Fatal(err)
	}

	info, err := ProbeFile(NewRegistry(), path)
	if err != nil {
		t.Fatalf("ProbeFile() error = %v", err)
	}
	if info.SampleRate != 44100 || info.Channels != 2 || info.Frames != 11025 {
		t.Errorf("ProbeFile() = %+v", info)
	}
}

func TestMonoMP3Info(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mono.mp3")
	if err := audiotest.WriteMP3(path, 20, true); err != nil {
		t.Fatal(err)
	}

	info, err := ProbeFile(NewRegistry(), path)
	if err != nil {
		t.Fatalf("ProbeFile() error = %v", err)
	}
	if info.Format != "mp3" || info.Channels != 1 || info.Frames != 20*audiotest.MP3FrameSamples {
		t.Errorf("ProbeFile() = %+v, want mono mp3 of %d frames", info, 20*audiotest.MP3FrameSamples)
	}
}

func TestProbeFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reg := NewRegistry()

	txt := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeFile(reg, txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ProbeFile(txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := ProbeFile(reg, filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ProbeFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := audiotest.WriteSineWAV(path, 8000, 1, 100); err != nil {
		t.Fatal(err)
	}

	src, err := DecodeFile(NewRegistry(), path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	defer src.Close()

	total := 0
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 800 {
		t.Errorf("decoded %d samples, want 800", total)
	}
}
