// SPDX-License-Identifier: EPL-2.0

// Package convert transcodes sample files into the sampler's playback
// format: 48 kHz, 16-bit signed PCM, WAV or AIFF, with the channel count
// of the input.
//
// The pipeline is decode (any registered codec), per-channel windowed sinc
// resampling, TPDF-dithered quantization, then encoding into a temporary
// file that is renamed into place. Inputs that already are 48 kHz / 16-bit
// PCM WAV are copied unchanged when the target is WAV.
package convert
