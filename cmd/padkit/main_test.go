// SPDX-License-Identifier: EPL-2.0

package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/padkit/internal/audiotest"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	if code, _, stderr := runCLI(t); code != 2 || !strings.Contains(stderr, "usage: padkit") {
		t.Errorf("no args: code=%d stderr=%q", code, stderr)
	}
	if code, _, stderr := runCLI(t, "dance"); code != 2 || !strings.Contains(stderr, `unknown command "dance"`) {
		t.Errorf("unknown command: code=%d stderr=%q", code, stderr)
	}
	if code, _, _ := runCLI(t, "convert", "only-one"); code != 2 {
		t.Errorf("convert with one arg: code=%d", code)
	}
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	short := filepath.Join(dir, "short.wav")
	if err := audiotest.WriteSineWAV(good, 44100, 2, 500); err != nil {
		t.Fatal(err)
	}
	if err := audiotest.WriteSineWAV(short, 44100, 1, 40); err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runCLI(t, "validate", good)
	if code != 0 || !strings.Contains(stdout, "ok    "+good+": wav 44100 Hz 2 ch 500ms") {
		t.Errorf("valid file: code=%d stdout=%q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "validate", good, short)
	if code != 1 || !strings.Contains(stdout, "fail  "+short+": Duration too short") {
		t.Errorf("short file: code=%d stdout=%q", code, stdout)
	}
}

func TestRun_ExportAndArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kick := filepath.Join(dir, "Big Kick.wav")
	if err := audiotest.WriteSineWAV(kick, 44100, 1, 300); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	zipPath := filepath.Join(dir, "export.zip")

	code, stdout, stderr := runCLI(t, "export", "-format", "aiff", "-out", out, "-zip", zipPath, kick)
	if code != 0 {
		t.Fatalf("export: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, "big_kick.aiff") || !strings.Contains(stdout, "1 of 1 exported") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(out, "big_kick.aiff")); err != nil {
		t.Error(err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != "big_kick.aiff" {
		t.Errorf("zip entries = %v", zr.File)
	}

	code, stdout, _ = runCLI(t, "archive", out, filepath.Join(dir, "again.zip"))
	if code != 0 || !strings.Contains(stdout, "again.zip") {
		t.Errorf("archive: code=%d stdout=%q", code, stdout)
	}
}

func TestRun_KitWithHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kick := filepath.Join(dir, "kick.wav")
	if err := audiotest.WriteSineWAV(kick, 48000, 1, 200); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "padkit.yaml")
	cfg := "output_root: " + filepath.Join(dir, "exports") + "\nhistory_db: " + filepath.Join(dir, "history.db") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "kit")
	code, stdout, stderr := runCLI(t, "-config", cfgPath, "kit", "-name", "drums", "-out", out, "A1="+kick, "B5="+kick)
	if code != 0 {
		t.Fatalf("kit: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, "B5 ") || !strings.Contains(stdout, "2 of 2 exported") {
		t.Errorf("stdout = %q", stdout)
	}
	for _, f := range []string{"A/A01_kick.wav", "B/B05_kick.wav"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(f))); err != nil {
			t.Error(err)
		}
	}

	code, stdout, _ = runCLI(t, "-config", cfgPath, "history")
	if code != 0 || !strings.Contains(stdout, "kit") || !strings.Contains(stdout, "2/2 ok") || !strings.Contains(stdout, "drums") {
		t.Errorf("history: code=%d stdout=%q", code, stdout)
	}

	code, _, stderr = runCLI(t, "-config", cfgPath, "kit", "Z99="+kick)
	if code != 1 || !strings.Contains(stderr, "invalid kit slot") {
		t.Errorf("bad slot: code=%d stderr=%q", code, stderr)
	}
}

func TestRun_ExportByID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := audiotest.WriteSineWAV(filepath.Join(dir, "samples", "kick.wav"), 44100, 1, 300); err != nil {
		t.Fatal(err)
	}

	manifest := "samples:\n  - id: kick-01\n    source_file_path: samples/kick.wav\n    title: Deep Kick\n    genre: House\n"
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "padkit.yaml")
	cfg := "output_root: " + filepath.Join(dir, "exports") + "\ncatalog: " + filepath.Join(dir, "catalog.yaml") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	code, stdout, stderr := runCLI(t, "-config", cfgPath, "export", "-ids", "-organize-by", "genre", "-out", out, "kick-01")
	if code != 0 {
		t.Fatalf("export: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, "ok    kick-01") || !strings.Contains(stdout, "1 of 1 exported") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(out, "house", "deep_kick.wav")); err != nil {
		t.Error(err)
	}
	if !strings.Contains(stderr, "name=padkit.export.samples value=1") {
		t.Errorf("export metrics not logged: stderr=%q", stderr)
	}

	code, _, stderr = runCLI(t, "-config", cfgPath, "export", "-ids", "-out", out, "ghost")
	if code != 1 || !strings.Contains(stderr, `unknown sample "ghost"`) {
		t.Errorf("unknown id: code=%d stderr=%q", code, stderr)
	}

	if code, _, _ := runCLI(t, "export", "-ids", "kick-01"); code != 2 {
		t.Errorf("-ids without a catalog: code=%d, want 2", code)
	}
}
