// SPDX-License-Identifier: EPL-2.0

// Package archive packs an export output tree into a single zip file.
//
// Entries appear in sorted path order, so the same tree always yields the
// same entry list:
//
//	data, err := archive.Build(batch.OutputBasePath)
//
// Write streams the archive instead of buffering it:
//
//	err := archive.Write(w, kit.OutputBasePath)
package archive
