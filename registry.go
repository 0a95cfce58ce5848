package gfxcmd

// handle identifies an entry of a pool. Generations start at 1, so the
// zero handle is never valid. Removing an entry bumps its generation, which
// makes every outstanding handle to it stale.
type handle struct {
	index uint32
	gen   uint32
}

func (h handle) valid() bool { return h.gen != 0 }

type poolEntry[T any] struct {
	gen  uint32
	live bool
	val  T
}

// pool is an arena of resource records addressed by generation-checked
// handles. Freed entries are reused.
type pool[T any] struct {
	entries []poolEntry[T]
	free    []uint32
	count   int
}

func (p *pool[T]) insert(v T) handle {
	p.count++
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		e := &p.entries[idx]
		e.live = true
		e.val = v
		return handle{index: idx, gen: e.gen}
	}
	p.entries = append(p.entries, poolEntry[T]{gen: 1, live: true, val: v})
	return handle{index: uint32(len(p.entries) - 1), gen: 1} //nolint:gosec // pool sizes stay far below 2^32
}

// get returns the record for h, or false when h is zero, foreign or stale.
func (p *pool[T]) get(h handle) (*T, bool) {
	if !h.valid() || int(h.index) >= len(p.entries) {
		return nil, false
	}
	e := &p.entries[h.index]
	if !e.live || e.gen != h.gen {
		return nil, false
	}
	return &e.val, true
}

// remove deletes the record for h and returns it.
func (p *pool[T]) remove(h handle) (T, bool) {
	var zero T
	if _, ok := p.get(h); !ok {
		return zero, false
	}
	e := &p.entries[h.index]
	v := e.val
	e.val = zero
	e.live = false
	e.gen++
	if e.gen == 0 {
		e.gen = 1
	}
	p.free = append(p.free, h.index)
	p.count--
	return v, true
}

func (p *pool[T]) len() int { return p.count }

// each calls fn for every live record in index order.
func (p *pool[T]) each(fn func(h handle, v *T)) {
	for i := range p.entries {
		e := &p.entries[i]
		if e.live {
			fn(handle{index: uint32(i), gen: e.gen}, &e.val) //nolint:gosec // bounded by pool size
		}
	}
}
