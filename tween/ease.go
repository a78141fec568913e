package tween

import (
	"fmt"
	"math"
	"strings"
)

// EaseFunc maps linear progress t in [0,1] to eased progress
type EaseFunc func(t float64) float64

// Linear is the identity ease
func Linear(t float64) float64 { return t }

func powerIn(p float64) EaseFunc {
	return func(t float64) float64 { return math.Pow(t, p) }
}

func powerOut(p float64) EaseFunc {
	return func(t float64) float64 { return 1 - math.Pow(1-t, p) }
}

func powerInOut(p float64) EaseFunc {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, p) / 2
		}
		return 1 - math.Pow(2*(1-t), p)/2
	}
}

// Power eases follow the tween-library convention: powerN is an (N+1)-degree curve
var eases = map[string]EaseFunc{
	"linear":       Linear,
	"none":         Linear,
	"power1.in":    powerIn(2),
	"power1.out":   powerOut(2),
	"power1.inout": powerInOut(2),
	"power2.in":    powerIn(3),
	"power2.out":   powerOut(3),
	"power2.inout": powerInOut(3),
	"power3.in":    powerIn(4),
	"power3.out":   powerOut(4),
	"power3.inout": powerInOut(4),
}

// ParseEase resolves an ease name, case-insensitive; empty means linear
// A bare "powerN" defaults to its out variant
func ParseEase(name string) (EaseFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Linear, nil
	}
	if fn, ok := eases[key]; ok {
		return fn, nil
	}
	if fn, ok := eases[key+".out"]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown ease %q", name)
}

// EaseNames returns the canonical registered names
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for k := range eases {
		names = append(names, k)
	}
	return names
}
