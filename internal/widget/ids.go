package widget

import "sync/atomic"

// IDGenerator hands out instance numbers used to build accessible ids
type IDGenerator interface {
	Next() int
}

// Counter is a deterministic IDGenerator
type Counter struct {
	n atomic.Int64
}

// Next returns 1, 2, 3, ...
func (c *Counter) Next() int {
	return int(c.n.Add(1))
}

var defaultIDs = &Counter{}
