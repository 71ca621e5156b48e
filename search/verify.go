package search

import (
	"fmt"
	"sort"
)

// Achieved returns the current live slot count.
func (s *Search) Achieved() int { return s.achieved }

// MinMuls returns the lowest live slot count seen so far.
func (s *Search) MinMuls() int { return s.minmuls }

// Flips returns the flip-budget units consumed.
func (s *Search) Flips() uint64 { return s.flips }

// PlusMoves returns the plus-move units performed.
func (s *Search) PlusMoves() uint64 { return s.plusMoves }

// Code returns the termination code: CodeRunning while the walk has not
// ended, and also after a walk that reached its target rank.
func (s *Search) Code() int { return s.rcode }

// Verify recomputes every redundant structure from the component array and
// returns the first inconsistency. It exists for tests and debugging at
// step boundaries; the engines never call it.
func (s *Search) Verify() error {
	byValue := make(map[uint64][]int32)
	live := 0
	for i, m := range s.muls {
		if m == 0 {
			continue
		}
		byValue[m] = append(byValue[m], int32(i))
		live++
	}

	if live != s.achieved {
		return fmt.Errorf("achieved is %d, component array has %d live slots", s.achieved, live)
	}

	if got := s.mm.Keys(); got != len(byValue) {
		return fmt.Errorf("multimap indexes %d values, component array has %d", got, len(byValue))
	}
	for v, want := range byValue {
		if !s.mm.Contains(v) {
			return fmt.Errorf("value %d missing from multimap", v)
		}
		got := append([]int32(nil), s.mm.Slots(v)...)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		if len(got) != len(want) {
			return fmt.Errorf("value %d: multimap lists %d slots, want %d", v, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				return fmt.Errorf("value %d: multimap slots %v, want %v", v, got, want)
			}
		}
	}

	seen := make(map[uint64]bool, s.mm.Collisions())
	for _, v := range s.mm.Colliding() {
		if seen[v] {
			return fmt.Errorf("value %d listed twice among collisions", v)
		}
		seen[v] = true
		if len(byValue[v]) < 2 {
			return fmt.Errorf("value %d listed as colliding with multiplicity %d", v, len(byValue[v]))
		}
	}
	colliding := 0
	for _, slots := range byValue {
		if len(slots) >= 2 {
			colliding++
		}
	}
	if colliding != s.mm.Collisions() {
		return fmt.Errorf("collision list has %d values, want %d", s.mm.Collisions(), colliding)
	}

	// Terms collapse whole: every sub-triple is all dead or all live.
	for t := 0; t < s.nomuls; t += 3 {
		z := 0
		for i := t; i < t+3; i++ {
			if s.muls[i] == 0 {
				z++
			}
		}
		if z != 0 && z != 3 {
			return fmt.Errorf("triple at slot %d is partially live: %v", t, s.muls[t:t+3])
		}
	}

	for i := 0; i < s.nomuls; i++ {
		for j := 0; j < s.nomuls; j++ {
			want := s.part.Orbit(i) != s.part.Orbit(j)
			if s.part.Permitted(i, j) != want {
				return fmt.Errorf("permit[%d][%d] = %v, want %v", i, j, !want, want)
			}
		}
	}
	return nil
}
