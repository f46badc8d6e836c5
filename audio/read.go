// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// ReadFull reads from src until dst is full or the source ends.
// It returns the number of samples written. err is io.EOF only when the
// source ended, which may happen together with n > 0; any other error is
// returned as-is.
func ReadFull(src Source, dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		n, err := src.ReadSamples(dst[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			// A source with nothing to give and no error is treated as finished.
			return written, io.EOF
		}
	}
	return written, nil
}
