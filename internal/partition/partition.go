// Package partition computes the static round-robin assignment of scenarios
// to workers. Scenario i belongs to worker i mod workerCount; the union of
// all workers' assignments is the whole manifest and no scenario is assigned
// twice. This arithmetic is the only coordination between sibling workers.
package partition

// Worker identifies one dispatcher instance among Count siblings. Identity
// is supplied by the external job launcher; the dispatcher never derives it.
type Worker struct {
	Index int
	Count int
}

// Indices returns the global scenario indices assigned to this worker for a
// manifest of n scenarios.
func (w Worker) Indices(n int) []int {
	return Indices(n, w.Index, w.Count)
}

// Indices returns the global scenario indices assigned to the given worker,
// in increasing order, for a manifest of n scenarios.
//
// workerCount must be at least 1 and workerIndex must not be negative; both
// are programmer errors here because the caller validates configuration
// before dispatching. A workerIndex at or beyond workerCount is permitted
// and yields the empty assignment: no index satisfies
// i mod workerCount == workerIndex.
func Indices(n, workerIndex, workerCount int) []int {
	if workerCount < 1 {
		panic("worker count must be at least 1")
	}
	if workerIndex < 0 {
		panic("worker index must not be negative")
	}
	if workerIndex >= workerCount {
		return nil
	}

	var indices []int
	for i := workerIndex; i < n; i += workerCount {
		indices = append(indices, i)
	}
	return indices
}
