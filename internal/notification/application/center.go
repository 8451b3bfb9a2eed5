// Package application holds the per-session notification list and its
// unread counter.
package application

import (
	"sync"

	"github.com/fooddel/client-gateway/internal/notification/domain"
)

// Listener receives every notification added to the center.
type Listener func(domain.Notification)

// Center caches the user's notifications, newest first, and tracks the
// unread count. Like the other state containers it never fails; a
// fetch replaces everything it holds.
type Center struct {
	mu     sync.Mutex
	list   []domain.Notification
	unread int

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener
}

func NewCenter() *Center {
	return &Center{subs: make(map[int]Listener)}
}

// SetAll replaces the list from a fetch response. The unread count is
// set separately because the server reports it alongside the page.
func (c *Center) SetAll(list []domain.Notification, unread int) {
	cp := make([]domain.Notification, len(list))
	copy(cp, list)

	c.mu.Lock()
	c.list = cp
	c.unread = unread
	c.mu.Unlock()
}

// Add prepends a pushed notification and bumps the unread count when
// it arrives unread.
func (c *Center) Add(n domain.Notification) {
	c.mu.Lock()
	c.list = append([]domain.Notification{n}, c.list...)
	if !n.IsRead {
		c.unread++
	}
	c.mu.Unlock()

	c.notify(n)
}

// MarkRead flags one notification as read. Already-read or unknown ids
// are no-ops. The unread count never goes below zero.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.list {
		if c.list[i].ID == id {
			if !c.list[i].IsRead {
				c.list[i].IsRead = true
				if c.unread > 0 {
					c.unread--
				}
			}
			return
		}
	}
}

// MarkAllRead flags everything as read and zeroes the counter.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.list {
		c.list[i].IsRead = true
	}
	c.unread = 0
}

// List returns a copy of the held notifications, newest first.
func (c *Center) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]domain.Notification, len(c.list))
	copy(cp, c.list)
	return cp
}

// Unread returns the current unread count.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// Subscribe registers a listener for added notifications and returns
// its unsubscribe func.
func (c *Center) Subscribe(fn Listener) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Center) notify(n domain.Notification) {
	c.subMu.Lock()
	listeners := make([]Listener, 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.subMu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
}
