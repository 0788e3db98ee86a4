package server

import (
	"context"
	"sort"
	"sync"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// CompositeHealthChecker is healthy when every registered dependency is.
type CompositeHealthChecker struct {
	mu     sync.RWMutex
	checks map[string]HealthChecker
}

func NewCompositeHealthChecker() *CompositeHealthChecker {
	return &CompositeHealthChecker{checks: make(map[string]HealthChecker)}
}

func (c *CompositeHealthChecker) Add(name string, hc HealthChecker) *CompositeHealthChecker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = hc
	return c
}

func (c *CompositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, ok := range c.Report(ctx) {
		if !ok {
			return false
		}
	}
	return true
}

// Report runs every check and returns the result per dependency name.
func (c *CompositeHealthChecker) Report(ctx context.Context) map[string]bool {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	report := make(map[string]bool, len(names))
	for _, name := range names {
		c.mu.RLock()
		hc := c.checks[name]
		c.mu.RUnlock()
		report[name] = hc.Healthy(ctx)
	}
	return report
}
