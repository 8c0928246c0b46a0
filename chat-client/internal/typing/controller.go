// Package typing owns the "someone is typing" indicator and its expiry.
package typing

import "time"

// DefaultTimeout is how long a peer's typing notice stays visible.
const DefaultTimeout = 3 * time.Second

// Controller shows at most one typing notice at a time. Every Show arms a
// single owned timer, stopping the previous one. When a timer fires it
// calls onExpire with the generation it was armed for; the owner then
// calls Expire with that generation from its own goroutine. A stale
// generation is ignored, so a notice replaced after its timer already
// fired is never cleared early.
//
// Controller is not safe for concurrent use.
type Controller struct {
	timeout  time.Duration
	onExpire func(gen uint64)

	status string
	gen    uint64
	timer  *time.Timer
}

// NewController returns an idle controller. onExpire is called on the
// timer's goroutine.
func NewController(timeout time.Duration, onExpire func(gen uint64)) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{timeout: timeout, onExpire: onExpire}
}

// Show displays text and (re)arms the expiry.
func (c *Controller) Show(text string) {
	c.stopTimer()

	c.gen++
	gen := c.gen
	c.status = text
	c.timer = time.AfterFunc(c.timeout, func() { c.onExpire(gen) })
}

// Expire clears the notice if gen is the current arm. It reports whether
// the notice was cleared.
func (c *Controller) Expire(gen uint64) bool {
	if gen != c.gen || c.status == "" {
		return false
	}
	c.status = ""
	c.timer = nil
	return true
}

// Status returns the text to display, or "" when idle.
func (c *Controller) Status() string { return c.status }

// Showing reports whether a notice is visible.
func (c *Controller) Showing() bool { return c.status != "" }

// Stop cancels any pending expiry without clearing the notice.
func (c *Controller) Stop() {
	c.stopTimer()
	// Invalidate a callback that may already be in flight.
	c.gen++
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
