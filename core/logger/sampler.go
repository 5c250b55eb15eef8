package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler lets through num out of every den events; a zero ratio lets everything through.
type ratioSampler struct {
	mu       sync.Mutex
	num, den int
	seen     int
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the window.
func (s *ratioSampler) Set(num, den int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = 0
	if num <= 0 || den <= 0 {
		s.num, s.den = 0, 0
		return
	}
	s.num, s.den = min(num, den), den
}

// Allow reports whether the next event falls inside the sampled share.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.den == 0 {
		return true
	}
	s.seen = s.seen%s.den + 1
	return s.seen <= s.num
}

// parseRatioSpec accepts "n/d" or a bare "d" meaning 1/d. Unparsable input yields 0/0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if a, b, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(a))
		den, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
