// SPDX-License-Identifier: EPL-2.0

package archive

import "errors"

// ErrArchive wraps every failure while building an archive. There is no
// partial archive: callers get the error and nothing else.
var ErrArchive = errors.New("archive failed")
