package search

import (
	"github.com/poiesic/folio/core"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query *Query)
	Scored(set *core.VectorSet, score float32)
	AfterScan(candidates, filtered int)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *Query)                     {}
func (n *noopMonitor) Scored(_ *core.VectorSet, _ float32) {}
func (n *noopMonitor) AfterScan(_, _ int)                 {}
func (n *noopMonitor) Finish(_ []*Result)                 {}
