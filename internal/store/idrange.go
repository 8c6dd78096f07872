package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveIDRange expands a job-id range string (§6 "Job-id range syntax"):
// a bare non-negative integer, or an inclusive, order-insensitive "A-B"
// range. Any other form, or a negative id in any position, is an error.
// Ported from pyjip's resolve_job_range (original_source/jip/cli/__init__.py).
func ResolveIDRange(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty id range")
	}

	if !strings.Contains(s, "-") || strings.HasPrefix(s, "-") {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid job id %q: %w", s, err)
		}
		if id < 0 {
			return nil, fmt.Errorf("negative job id %q", s)
		}
		return []int64{id}, nil
	}

	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid id range %q", s)
	}

	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id range %q: %w", s, err)
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id range %q: %w", s, err)
	}
	if a < 0 || b < 0 {
		return nil, fmt.Errorf("negative job id in range %q", s)
	}

	if a > b {
		a, b = b, a
	}

	ids := make([]int64, 0, b-a+1)
	for i := a; i <= b; i++ {
		ids = append(ids, i)
	}
	return ids, nil
}
