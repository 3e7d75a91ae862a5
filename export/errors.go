// SPDX-License-Identifier: EPL-2.0

package export

import "errors"

var (
	// ErrKitLayout is returned when a batch or single export asks for the
	// kit layout; kits go through ExportKit.
	ErrKitLayout = errors.New("organize_by kit requires ExportKit")

	ErrNoProvider     = errors.New("no sample provider configured")
	ErrUnknownSample  = errors.New("unknown sample")
	ErrInvalidLayout  = errors.New("invalid kit layout")
	ErrInvalidSlot    = errors.New("invalid kit slot")
	ErrSlotOccupied   = errors.New("kit slot already assigned")
	ErrNoOutputTarget = errors.New("no output_base_path and no output root")
)

// Messages stored in failed results.
const (
	msgCancelled  = "export cancelled"
	msgUnexpected = "unexpected error during export"
)
