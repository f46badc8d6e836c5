// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit PCM is supported")
	ErrInvalidSeek         = errors.New("seek position outside the PCM data or not frame aligned")
	ErrWriterClosed        = errors.New("wav writer is closed")
)
