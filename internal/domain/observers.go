package domain

type subscription[T any] struct {
	id int
	fn func(T)
}

// observers is an ordered listener list. Callers guard it with their own lock.
type observers[T any] struct {
	next int
	list []subscription[T]
}

func (o *observers[T]) add(fn func(T)) int {
	o.next++
	o.list = append(o.list, subscription[T]{id: o.next, fn: fn})
	return o.next
}

func (o *observers[T]) remove(id int) {
	for i, s := range o.list {
		if s.id == id {
			o.list = append(o.list[:i], o.list[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) emit(v T) {
	for _, s := range o.list {
		s.fn(v)
	}
}

func (o *observers[T]) clear() {
	o.list = nil
}
