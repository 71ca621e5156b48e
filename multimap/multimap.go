// Package multimap implements the value-to-slots index at the heart of the
// flip search.
//
// A Multimap tracks, for every nonzero component value in a decomposition,
// the multiset of slot indices currently holding that value. Alongside the
// plain mapping it maintains the list of colliding values (multiplicity two
// or more), which is what the flip sampler draws from. Both the mapping and
// the colliding list support O(1) mutation with no allocation after New,
// so the structures can sit on the hot path of the search loop.
//
// The engines guarantee every precondition (keys present on Remove, absent
// slot duplicates on Add), so the operations have no error paths.
package multimap

// Multimap maps 64-bit component values to the slots that hold them.
//
// Slot rows live in one preallocated arena of capacity*(capacity+1) entries:
// each row is [length, slot, slot, ...] with room for capacity slots, so a
// single value held by every slot still fits. Row bases are recycled through
// a free list as values appear and vanish.
type Multimap struct {
	uniques *table // value -> row base in rows

	rows   []int32 // row arena: [len, slots...] per row
	stride int32   // row stride = capacity + 1
	avail  []int32 // recycled row bases

	collide []uint64 // values with multiplicity >= 2
	collIdx *table   // value -> position in collide
}

// New returns a Multimap able to index a decomposition of capacity slots.
// All memory is allocated here; no later operation allocates.
func New(capacity int) *Multimap {
	stride := int32(capacity + 1)
	m := &Multimap{
		uniques: newTable(),
		rows:    make([]int32, int32(capacity)*stride),
		stride:  stride,
		avail:   make([]int32, 0, capacity),
		collide: make([]uint64, 0, capacity),
		collIdx: newTable(),
	}
	for i := capacity - 1; i >= 0; i-- {
		m.avail = append(m.avail, int32(i)*stride)
	}
	return m
}

// Contains reports whether v is held by at least one slot.
func (m *Multimap) Contains(v uint64) bool {
	_, ok := m.uniques.lookup(v)
	return ok
}

// Add records that slot now holds v. If v's multiplicity transitions from
// one to two, v joins the colliding list.
func (m *Multimap) Add(v uint64, slot int) {
	if pos, ok := m.uniques.lookup(v); ok {
		base := m.uniques.vals[pos]
		n := m.rows[base]
		m.rows[base+1+n] = int32(slot)
		m.rows[base] = n + 1
		if n == 1 {
			m.collIdx.put(v, int32(len(m.collide)))
			m.collide = append(m.collide, v)
		}
		return
	}
	base := m.avail[len(m.avail)-1]
	m.avail = m.avail[:len(m.avail)-1]
	m.uniques.put(v, base)
	m.rows[base] = 1
	m.rows[base+1] = int32(slot)
}

// Remove drops one occurrence of slot from v's row. Dropping to
// multiplicity one evicts v from the colliding list (swap with last);
// dropping to zero forgets v entirely and recycles its row.
// The caller guarantees v currently lists slot.
func (m *Multimap) Remove(v uint64, slot int) {
	base := m.uniques.get(v)
	n := m.rows[base]
	if n == 1 {
		m.avail = append(m.avail, base)
		m.uniques.del(v)
		return
	}
	if n == 2 {
		idx := m.collIdx.get(v)
		m.collIdx.del(v)
		last := m.collide[len(m.collide)-1]
		m.collide = m.collide[:len(m.collide)-1]
		if int(idx) < len(m.collide) {
			m.collide[idx] = last
			m.collIdx.set(last, idx)
		}
	}
	s := int32(slot)
	for i := base + 1; i <= base+n; i++ {
		if m.rows[i] == s {
			m.rows[i] = m.rows[base+n]
			break
		}
	}
	m.rows[base] = n - 1
}

// Slots returns the slots currently holding v as a view into the arena.
// The slice is valid until the next Add or Remove. The caller guarantees
// v is present.
func (m *Multimap) Slots(v uint64) []int32 {
	base := m.uniques.get(v)
	n := m.rows[base]
	return m.rows[base+1 : base+1+n]
}

// Colliding returns the values with multiplicity two or more, as a view
// that is valid until the next Add or Remove. Order is arbitrary but stable
// between mutations, which is what uniform index sampling needs.
func (m *Multimap) Colliding() []uint64 {
	return m.collide
}

// Collisions returns the number of colliding values.
func (m *Multimap) Collisions() int {
	return len(m.collide)
}

// Keys returns the number of distinct values currently indexed.
func (m *Multimap) Keys() int {
	return m.uniques.size()
}
