// Package onboarding is the first-launch carousel.
package onboarding

import (
	"sync"
	"time"

	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
)

// AutoAdvance is how often the carousel moves on by itself.
const AutoAdvance = 5 * time.Second

// Slide is one carousel page.
type Slide struct {
	Title        string
	Subtitle     string
	Illustration string
}

// Slides are shown in order.
var Slides = []Slide{
	{
		Title:        "Bank with confidence",
		Subtitle:     "Secure transactions, instant transfers, and complete control over your finances with premium banking",
		Illustration: "security",
	},
	{
		Title:        "Smart investments",
		Subtitle:     "Grow your wealth with AI-powered investment recommendations and real-time market insights",
		Illustration: "investment",
	},
	{
		Title:        "Digital payments",
		Subtitle:     "Send money instantly, pay bills seamlessly, and manage all your payments in one secure app",
		Illustration: "payments",
	},
}

// Carousel tracks the current slide.
type Carousel struct {
	mu      sync.Mutex
	current int
}

// Current returns the index and content of the visible slide.
func (c *Carousel) Current() (int, Slide) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, Slides[c.current]
}

// Next advances one slide. On the last slide it returns the login route
// and stays put.
func (c *Carousel) Next() *nav.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == len(Slides)-1 {
		return nav.To(nav.Login, identity.Params{})
	}
	c.current++
	return nil
}

// Tick is the auto-advance step. It wraps to the first slide.
func (c *Carousel) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = (c.current + 1) % len(Slides)
	return c.current
}

// Select jumps to a slide after a swipe. Out-of-range indexes are ignored.
func (c *Carousel) Select(i int) bool {
	if i < 0 || i >= len(Slides) {
		return false
	}
	c.mu.Lock()
	c.current = i
	c.mu.Unlock()
	return true
}
