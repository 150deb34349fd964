package sweep

// pool is a reusable slice with a used-length cursor.
//
// Items are appended during a fill phase and consumed in order by next.
// reset truncates the slice but keeps its capacity.
type pool[T any] struct {
	items []T
	used  int
}

func (p *pool[T]) reset() {
	clear(p.items)
	p.items = p.items[:0]
	p.used = 0
}

func (p *pool[T]) push(v T) {
	p.items = append(p.items, v)
}

func (p *pool[T]) len() int {
	return len(p.items)
}

// peek returns the next unconsumed item.
func (p *pool[T]) peek() (T, bool) {
	if p.used >= len(p.items) {
		var zero T
		return zero, false
	}
	return p.items[p.used], true
}

// next consumes and returns the next item.
func (p *pool[T]) next() (T, bool) {
	v, ok := p.peek()
	if ok {
		p.used++
	}
	return v, ok
}

// rewind marks every item unconsumed again.
func (p *pool[T]) rewind() {
	p.used = 0
}

func (p *pool[T]) drained() bool {
	return p.used == len(p.items)
}

// PoolStats reports the length and used cursor of one working array.
type PoolStats struct {
	Len  int
	Used int
}
