// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package tiles

import (
	"strings"
	"sync"
)

// tailBuffer is an io.Writer that keeps only the last limit bytes written.
// tippecanoe reports progress on stderr, which can be large for big inputs;
// only the end of it is useful in an error message.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
	cut   bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.cut = true
	}
	return len(p), nil
}

// String returns the retained output with progress carriage returns folded
// into newlines and surrounding whitespace trimmed.
func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := strings.TrimSpace(strings.ReplaceAll(string(t.buf), "\r", "\n"))
	if t.cut && s != "" {
		s = "..." + s
	}
	return s
}
