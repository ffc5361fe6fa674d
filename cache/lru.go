package cache

// lruNode is a node in a doubly-linked LRU list.
type lruNode[T any] struct {
	value T
	prev  *lruNode[T]
	next  *lruNode[T]
}

// lruList is a doubly-linked list ordered by recency. Head is the most
// recently used node. Not safe for concurrent use.
type lruList[T any] struct {
	head *lruNode[T]
	tail *lruNode[T]
	len  int
}

// Len returns the number of nodes in the list.
func (l *lruList[T]) Len() int {
	return l.len
}

// PushFront inserts value as the most recently used node.
func (l *lruList[T]) PushFront(value T) *lruNode[T] {
	node := &lruNode[T]{value: value}
	l.linkFront(node)
	return node
}

// MoveToFront marks node as most recently used.
func (l *lruList[T]) MoveToFront(node *lruNode[T]) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

// Remove unlinks node.
func (l *lruList[T]) Remove(node *lruNode[T]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// Back returns the least recently used node, or nil.
func (l *lruList[T]) Back() *lruNode[T] {
	return l.tail
}

// Clear drops all nodes.
func (l *lruList[T]) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *lruList[T]) linkFront(node *lruNode[T]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[T]) unlink(node *lruNode[T]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
