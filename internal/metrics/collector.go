package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	compilerMetrics   *CompilerMetrics
	operationCounters map[string]*int64
	mu                sync.RWMutex
	startTime         time.Time
}

// CompilerMetrics tracks compiler-level activity
type CompilerMetrics struct {
	// Render requests
	RendersStarted   int64 `json:"renders_started"`
	RendersCompleted int64 `json:"renders_completed"`
	RendersFailed    int64 `json:"renders_failed"`
	MaxLiteralLength int64 `json:"max_literal_length"`

	// Constant folding
	InterpolationsFolded   int64 `json:"interpolations_folded"`
	InterpolationsUnfolded int64 `json:"interpolations_unfolded"`

	// Diagnostics
	Warnings int64 `json:"warnings"`
	Errors   int64 `json:"errors"`

	// Representation
	ChunksEmitted int64 `json:"chunks_emitted"`
	BytesEncoded  int64 `json:"bytes_encoded"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		compilerMetrics: &CompilerMetrics{
			StartTime: time.Now(),
		},
		operationCounters: make(map[string]*int64),
		startTime:         time.Now(),
	}
}

// IncrementRenderStarted records a new render request
func (c *Collector) IncrementRenderStarted() {
	atomic.AddInt64(&c.compilerMetrics.RendersStarted, 1)
}

// IncrementRenderCompleted records a successful render and its literal length
func (c *Collector) IncrementRenderCompleted(literalLength int) {
	atomic.AddInt64(&c.compilerMetrics.RendersCompleted, 1)

	length := int64(literalLength)
	for {
		max := atomic.LoadInt64(&c.compilerMetrics.MaxLiteralLength)
		if length <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.compilerMetrics.MaxLiteralLength, max, length) {
			break
		}
	}
}

// IncrementRenderFailed records a render aborted by a fatal diagnostic
func (c *Collector) IncrementRenderFailed() {
	atomic.AddInt64(&c.compilerMetrics.RendersFailed, 1)
}

// RecordFolding records the outcome of constant folding for one request
func (c *Collector) RecordFolding(folded, unfolded int) {
	atomic.AddInt64(&c.compilerMetrics.InterpolationsFolded, int64(folded))
	atomic.AddInt64(&c.compilerMetrics.InterpolationsUnfolded, int64(unfolded))
}

// IncrementWarning records a warning diagnostic
func (c *Collector) IncrementWarning() {
	atomic.AddInt64(&c.compilerMetrics.Warnings, 1)
}

// IncrementError records an error diagnostic
func (c *Collector) IncrementError() {
	atomic.AddInt64(&c.compilerMetrics.Errors, 1)
}

// RecordEncoding records the shape of an encoded artifact
func (c *Collector) RecordEncoding(chunks, bytes int) {
	atomic.AddInt64(&c.compilerMetrics.ChunksEmitted, int64(chunks))
	atomic.AddInt64(&c.compilerMetrics.BytesEncoded, int64(bytes))
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.operationCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.operationCounters[name] = &newCounter
	}
}

// GetMetrics returns current compiler metrics
func (c *Collector) GetMetrics() CompilerMetrics {
	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	return CompilerMetrics{
		RendersStarted:         atomic.LoadInt64(&c.compilerMetrics.RendersStarted),
		RendersCompleted:       atomic.LoadInt64(&c.compilerMetrics.RendersCompleted),
		RendersFailed:          atomic.LoadInt64(&c.compilerMetrics.RendersFailed),
		MaxLiteralLength:       atomic.LoadInt64(&c.compilerMetrics.MaxLiteralLength),
		InterpolationsFolded:   atomic.LoadInt64(&c.compilerMetrics.InterpolationsFolded),
		InterpolationsUnfolded: atomic.LoadInt64(&c.compilerMetrics.InterpolationsUnfolded),
		Warnings:               atomic.LoadInt64(&c.compilerMetrics.Warnings),
		Errors:                 atomic.LoadInt64(&c.compilerMetrics.Errors),
		ChunksEmitted:          atomic.LoadInt64(&c.compilerMetrics.ChunksEmitted),
		BytesEncoded:           atomic.LoadInt64(&c.compilerMetrics.BytesEncoded),
		StartTime:              startTime,
		Uptime:                 time.Since(startTime),
	}
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range c.operationCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.compilerMetrics.RendersStarted, 0)
	atomic.StoreInt64(&c.compilerMetrics.RendersCompleted, 0)
	atomic.StoreInt64(&c.compilerMetrics.RendersFailed, 0)
	atomic.StoreInt64(&c.compilerMetrics.MaxLiteralLength, 0)
	atomic.StoreInt64(&c.compilerMetrics.InterpolationsFolded, 0)
	atomic.StoreInt64(&c.compilerMetrics.InterpolationsUnfolded, 0)
	atomic.StoreInt64(&c.compilerMetrics.Warnings, 0)
	atomic.StoreInt64(&c.compilerMetrics.Errors, 0)
	atomic.StoreInt64(&c.compilerMetrics.ChunksEmitted, 0)
	atomic.StoreInt64(&c.compilerMetrics.BytesEncoded, 0)

	c.operationCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.compilerMetrics.StartTime = c.startTime
}

// GetFoldingRate returns the percentage of interpolations proven constant
func (c *Collector) GetFoldingRate() float64 {
	folded := atomic.LoadInt64(&c.compilerMetrics.InterpolationsFolded)
	unfolded := atomic.LoadInt64(&c.compilerMetrics.InterpolationsUnfolded)

	total := folded + unfolded
	if total == 0 {
		return 100.0 // Nothing to fold means nothing left unsafe
	}

	return float64(folded) / float64(total) * 100.0
}

// GetFailureRate returns the percentage of render requests that failed
func (c *Collector) GetFailureRate() float64 {
	completed := atomic.LoadInt64(&c.compilerMetrics.RendersCompleted)
	failed := atomic.LoadInt64(&c.compilerMetrics.RendersFailed)

	if completed+failed == 0 {
		return 0.0
	}

	return float64(failed) / float64(completed+failed) * 100.0
}
