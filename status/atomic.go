package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge stored as IEEE-754 bits; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *AtomicFloat) Get() float64  { return math.Float64frombits(f.bits.Load()) }

// AtomicString holds a short label such as a state name; the zero value reads ""
type AtomicString struct {
	p atomic.Pointer[string]
}

func (s *AtomicString) Store(v string) { s.p.Store(&v) }

func (s *AtomicString) Load() string {
	if v := s.p.Load(); v != nil {
		return *v
	}
	return ""
}
