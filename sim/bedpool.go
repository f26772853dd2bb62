package sim

import (
	"container/heap"
	"fmt"
)

// Tier is the admission class of a bed request. Lower tiers are served first.
type Tier int

const (
	TierNormal   Tier = iota // a normal bed is free
	TierBoarding             // normal beds are full, a boarding bed is free
	TierWait                 // no bed is free; the request waits in the queue
)

func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierBoarding:
		return "boarding"
	case TierWait:
		return "wait"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// TierFor maps the current pool state to the tier a request made now would get.
// Pure function of its inputs; it is re-evaluated on every request and promotion,
// never cached on the request.
func TierFor(occupied, baseCapacity, extraCapacity int, boardingEnabled bool) Tier {
	if occupied < baseCapacity {
		return TierNormal
	}
	if boardingEnabled && occupied < baseCapacity+extraCapacity {
		return TierBoarding
	}
	return TierWait
}

// BedRequest is one patient's claim on a bed.
type BedRequest struct {
	Patient  *Patient
	Priority Tier    // tier evaluated when the request was made
	Bed      Tier    // kind of bed granted (TierNormal or TierBoarding); set on admission
	QueuedAt float64 // simulated time the request entered the wait queue
	seqID    int64
}

// waitHeap orders waiting requests by (Priority, seqID).
type waitHeap []*BedRequest

func (h waitHeap) Len() int { return len(h) }

func (h waitHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seqID < h[j].seqID
}

func (h waitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *waitHeap) Push(x any) {
	*h = append(*h, x.(*BedRequest))
}

func (h *waitHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// BedPool tracks occupied normal and boarding beds and the queue of patients
// waiting for one. Invariant: 0 <= occupied <= base + extra, and the wait queue is
// non-empty only while no bed is grantable.
//
// Thread-safety: NOT thread-safe. All calls come from the scheduler's run loop.
type BedPool struct {
	occupied        int
	baseCapacity    int
	extraCapacity   int
	boardingEnabled bool
	waitQ           waitHeap
	nextSeq         int64
	onChange        []func(occupied int)
}

// NewBedPool creates a pool of baseCapacity normal beds and
// baseCapacity/extraBedRatio boarding beds.
func NewBedPool(baseCapacity, extraBedRatio int, boardingEnabled bool) *BedPool {
	if baseCapacity <= 0 || extraBedRatio <= 0 {
		panic(fmt.Sprintf("NewBedPool: capacity %d and ratio %d must be positive", baseCapacity, extraBedRatio))
	}
	return &BedPool{
		baseCapacity:    baseCapacity,
		extraCapacity:   baseCapacity / extraBedRatio,
		boardingEnabled: boardingEnabled,
		waitQ:           make(waitHeap, 0),
	}
}

// OnChange registers fn to be called synchronously after every admission and release
// with the new occupied count.
func (bp *BedPool) OnChange(fn func(occupied int)) {
	bp.onChange = append(bp.onChange, fn)
}

func (bp *BedPool) notify() {
	for _, fn := range bp.onChange {
		fn(bp.occupied)
	}
}

// Occupied returns the number of beds currently held.
func (bp *BedPool) Occupied() int { return bp.occupied }

// BaseCapacity returns the number of normal beds.
func (bp *BedPool) BaseCapacity() int { return bp.baseCapacity }

// ExtraCapacity returns the number of boarding beds, whether or not boarding is enabled.
func (bp *BedPool) ExtraCapacity() int { return bp.extraCapacity }

// Limit returns the most beds that can be occupied at once under the boarding policy.
func (bp *BedPool) Limit() int {
	if bp.boardingEnabled {
		return bp.baseCapacity + bp.extraCapacity
	}
	return bp.baseCapacity
}

// WaitQueueLen returns the number of queued requests.
func (bp *BedPool) WaitQueueLen() int { return len(bp.waitQ) }

// Tier evaluates TierFor on the current state.
func (bp *BedPool) Tier() Tier {
	return TierFor(bp.occupied, bp.baseCapacity, bp.extraCapacity, bp.boardingEnabled)
}

// Request tries to admit req immediately. The request's Priority is the tier at the
// time of the call. Returns true if a bed was granted (req.Bed is set); otherwise the
// request is appended to the wait queue and will be admitted by a later Release.
func (bp *BedPool) Request(req *BedRequest, now float64) bool {
	if req == nil {
		panic("Request: req must not be nil")
	}
	req.seqID = bp.nextSeq
	bp.nextSeq++
	req.Priority = bp.Tier()
	if req.Priority != TierWait {
		bp.grant(req)
		return true
	}
	req.QueuedAt = now
	heap.Push(&bp.waitQ, req)
	return false
}

// Release frees one bed and, if the wait queue is non-empty, admits the
// highest-priority (then earliest) waiting request. Returns the promoted request or nil.
func (bp *BedPool) Release() *BedRequest {
	if bp.occupied == 0 {
		panic("Release: no bed is occupied")
	}
	bp.occupied--
	bp.notify()

	if len(bp.waitQ) == 0 || bp.Tier() == TierWait {
		return nil
	}
	next := heap.Pop(&bp.waitQ).(*BedRequest)
	bp.grant(next)
	return next
}

func (bp *BedPool) grant(req *BedRequest) {
	req.Bed = bp.Tier()
	bp.occupied++
	bp.notify()
}
