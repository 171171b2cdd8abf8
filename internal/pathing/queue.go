package pathing

import (
	"fmt"
	"math"
)

// MaxCost is the "infinite" cost sentinel. Every finite cost is below it.
const MaxCost = math.MaxInt16

// nodeCapacity is how many coordinates one arena node holds.
const nodeCapacity = 10

type bucketNode struct {
	first int // next slot to pop
	last  int // last filled slot, -1 when empty
	tiles [nodeCapacity]Tile
	next  int32
}

type bucketRef struct {
	head int32
	tail int32
}

// BucketQueue is a priority queue keyed by small integer costs in
// [0, MaxCost). Each cost owns a FIFO chain of fixed-size nodes drawn from
// an arena that is recycled by Reset rather than freed.
type BucketQueue struct {
	buckets []bucketRef
	arena   []bucketNode
	used    int // arena nodes handed out since the last Reset
	lowest  int
	highest int
	size    int
}

// NewBucketQueue returns an empty queue with all buckets cleared.
func NewBucketQueue() *BucketQueue {
	q := &BucketQueue{buckets: make([]bucketRef, MaxCost)}
	for i := range q.buckets {
		q.buckets[i] = bucketRef{head: -1, tail: -1}
	}
	return q
}

// Reset empties every bucket. Arena nodes are kept for reuse.
func (q *BucketQueue) Reset() {
	for i := 0; i <= q.highest && i < len(q.buckets); i++ {
		q.buckets[i] = bucketRef{head: -1, tail: -1}
	}
	q.used = 0
	q.lowest = 0
	q.highest = 0
	q.size = 0
}

// Len returns the number of pending entries, stale ones included.
func (q *BucketQueue) Len() int {
	return q.size
}

// Arena returns how many nodes have ever been allocated.
func (q *BucketQueue) Arena() int {
	return len(q.arena)
}

func (q *BucketQueue) newNode() int32 {
	if q.used == len(q.arena) {
		q.arena = append(q.arena, bucketNode{})
	}
	h := int32(q.used)
	q.used++
	n := &q.arena[h]
	n.first = 0
	n.last = -1
	n.next = -1
	return h
}

// Push appends t to the bucket for cost. cost must lie in [0, MaxCost).
func (q *BucketQueue) Push(cost int, t Tile) {
	if cost < 0 || cost >= MaxCost {
		panic(fmt.Sprintf("pathing: bucket queue cost %d outside [0,%d)", cost, MaxCost))
	}

	ref := &q.buckets[cost]
	if ref.tail < 0 {
		h := q.newNode()
		ref.head, ref.tail = h, h
	} else if q.arena[ref.tail].last == nodeCapacity-1 {
		h := q.newNode()
		q.arena[ref.tail].next = h
		ref.tail = h
	}

	n := &q.arena[ref.tail]
	n.last++
	n.tiles[n.last] = t
	if cost > q.highest {
		q.highest = cost
	}
	if cost < q.lowest {
		q.lowest = cost
	}
	q.size++
}

// Pop removes and returns the oldest entry at the lowest non-empty cost.
func (q *BucketQueue) Pop() (Tile, bool) {
	for q.lowest < MaxCost {
		if q.lowest > q.highest {
			return Tile{}, false
		}
		ref := &q.buckets[q.lowest]
		if ref.head < 0 {
			q.lowest++
			continue
		}
		n := &q.arena[ref.head]
		if n.last < n.first {
			if n.next >= 0 {
				// Stay on this cost: the chain continues.
				ref.head = n.next
				continue
			}
			ref.head, ref.tail = -1, -1
			q.lowest++
			continue
		}
		t := n.tiles[n.first]
		n.first++
		q.size--
		return t, true
	}
	return Tile{}, false
}
