// SPDX-License-Identifier: EPL-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Build returns root packed as a zip archive.
func Build(root string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, root); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Write streams root to w as a zip archive. Regular files are added in
// sorted path order under their slash-separated path relative to root.
// A symlinked root is resolved first and walked at its target.
// Symlinks are followed only when they resolve to a file inside root;
// directories are recreated from file paths and never stored on their own.
func Write(w io.Writer, root string) error {
	resolved, err := resolveRoot(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	zw := zip.NewWriter(w)

	walkErr := filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, ok, err := entryInfo(path, d, resolved)
		if err != nil || !ok {
			return err
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}

		return addFile(zw, path, filepath.ToSlash(rel), info)
	})
	if walkErr != nil {
		zw.Close()
		return fmt.Errorf("%w: %w", ErrArchive, walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	return nil
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}

	st, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}

	return resolved, nil
}

// entryInfo reports whether path belongs in the archive and the info of
// the file it stands for.
func entryInfo(path string, d fs.DirEntry, resolved string) (fs.FileInfo, bool, error) {
	switch {
	case d.Type().IsRegular():
		info, err := d.Info()
		return info, err == nil, err

	case d.Type()&fs.ModeSymlink != 0:
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			// dangling
			return nil, false, nil
		}
		if !within(resolved, target) {
			return nil, false, nil
		}
		info, err := os.Stat(target)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false, nil
		}
		return info, true, nil
	}

	return nil, false, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func addFile(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
