package uow

import "sync/atomic"

// OrderGenerator hands out a strictly increasing sequence of event orders.
// The zero value is ready to use and its first order is 1.
type OrderGenerator struct {
	last atomic.Int64
}

// NewOrderGenerator returns a generator with its own sequence, useful to
// isolate tests from the process-wide default.
func NewOrderGenerator() *OrderGenerator {
	return &OrderGenerator{}
}

// Next returns the next order. Safe for concurrent use.
func (g *OrderGenerator) Next() int64 {
	return g.last.Add(1)
}

var defaultOrders OrderGenerator

// NextEventOrder returns the next order from the process-wide generator.
func NextEventOrder() int64 {
	return defaultOrders.Next()
}
