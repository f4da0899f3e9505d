// Package spritecache implements the per-face sprite position cache: a
// hash-with-chaining map from (glyph, extra glyphs, second-half flag) to an
// atlas position, backed by a fixed 1024-slot head array so the common case
// never allocates. Entries are append-only and never evicted — a position,
// once assigned, stays valid for the lifetime of the current atlas layout.
package spritecache

import "github.com/gputerm/fontcore/atlas"

const headSlots = 1024

// Key identifies a sprite cache entry: the primary glyph id, an opaque
// packing of any combining-mark glyphs shaped onto the same cell, and
// whether this is the second (continuation) half of a double-wide glyph.
type Key struct {
	Glyph  uint32
	Extra  uint64
	Second bool
}

// Entry is one sprite position cache record. Once Filled, its Key and
// Position are immutable until the owning Cache is cleared.
type Entry struct {
	key      Key
	pos      atlas.Position
	filled   bool
	rendered bool
	next     *Entry
}

// Position returns the atlas slot assigned to this entry.
func (e *Entry) Position() atlas.Position { return e.pos }

// Rendered reports whether the upload sink has already received this
// entry's pixels.
func (e *Entry) Rendered() bool { return e.rendered }

// MarkRendered sets the rendered bit after the caller has handed this
// entry's pixels to the upload sink.
func (e *Entry) MarkRendered() { e.rendered = true }

// Stats holds cumulative cache counters, purely for observability; they do
// not affect lookup semantics.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Inserts uint64
}

// Cache is a per-face sprite position cache: a fixed 1024-slot head array
// with singly-linked overflow chains, fed by a shared atlas.Tracker for
// position assignment.
type Cache struct {
	heads   [headSlots]Entry
	tracker *atlas.Tracker
	stats   Stats
}

// New returns an empty cache that assigns positions from tracker.
func New(tracker *atlas.Tracker) *Cache {
	return &Cache{tracker: tracker}
}

// Stats returns a snapshot of the cache's cumulative counters.
func (c *Cache) Stats() Stats { return c.stats }

// Lookup returns the entry for key, allocating and assigning a new atlas
// position on a miss. isNew reports whether the entry was just allocated
// (its Rendered bit is always false in that case). err is non-nil only if
// a new position was needed and the tracker reported atlas exhaustion; in
// that case no entry is returned and the cache is left unchanged.
func (c *Cache) Lookup(key Key) (entry *Entry, isNew bool, err error) {
	idx := key.Glyph & (headSlots - 1)
	head := &c.heads[idx]

	if !head.filled {
		pos, err := c.tracker.Increment()
		if err != nil {
			c.stats.Misses++
			return nil, false, err
		}
		head.key = key
		head.pos = pos
		head.filled = true
		head.rendered = false
		head.next = nil
		c.stats.Inserts++
		return head, true, nil
	}

	if head.key == key {
		c.stats.Hits++
		return head, false, nil
	}

	e := head
	for e.next != nil {
		e = e.next
		if e.key == key {
			c.stats.Hits++
			return e, false, nil
		}
	}

	pos, err := c.tracker.Increment()
	if err != nil {
		c.stats.Misses++
		return nil, false, err
	}
	tail := &Entry{key: key, pos: pos, filled: true}
	e.next = tail
	c.stats.Inserts++
	return tail, true, nil
}

// Clear resets every head slot's fields to empty. Chain nodes past the
// head are not freed; they remain unreferenced and are reclaimed by the
// garbage collector rather than kept as an explicit free pool.
func (c *Cache) Clear() {
	for i := range c.heads {
		c.heads[i] = Entry{}
	}
}

// Free detaches every chain's non-head nodes; in Go this simply drops
// references for the collector rather than returning memory to a pool.
func (c *Cache) Free() {
	for i := range c.heads {
		c.heads[i].next = nil
	}
}
