// SPDX-License-Identifier: EPL-2.0

// Package models holds the values exchanged by the export pipeline:
// sample descriptors, the export configuration with its closed enums, and
// per-sample and aggregate results.
package models
