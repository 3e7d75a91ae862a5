// SPDX-License-Identifier: EPL-2.0

// Package validate runs the pre-flight checks every sample must pass
// before conversion: the file is readable, its container is supported, and
// it is at least 100ms long. Duration comes from a header probe, never a
// full decode.
package validate
