package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fooddel/client-gateway/internal/notification/domain"
)

func TestAddPrependsAndCountsUnread(t *testing.T) {
	c := NewCenter()
	c.Add(domain.Notification{ID: "n1", Title: "first"})
	c.Add(domain.Notification{ID: "n2", Title: "second"})
	c.Add(domain.Notification{ID: "n3", Title: "already read", IsRead: true})

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "n3", list[0].ID, "newest first")
	assert.Equal(t, 2, c.Unread())
}

func TestMarkRead(t *testing.T) {
	c := NewCenter()
	c.Add(domain.Notification{ID: "n1"})
	c.Add(domain.Notification{ID: "n2"})

	c.MarkRead("n1")
	assert.Equal(t, 1, c.Unread())

	// Marking again, or marking an unknown id, changes nothing.
	c.MarkRead("n1")
	c.MarkRead("ghost")
	assert.Equal(t, 1, c.Unread())

	c.MarkRead("n2")
	assert.Equal(t, 0, c.Unread())
	c.MarkRead("n2")
	assert.Equal(t, 0, c.Unread(), "count never goes negative")
}

func TestMarkAllRead(t *testing.T) {
	c := NewCenter()
	c.SetAll([]domain.Notification{{ID: "n1"}, {ID: "n2"}}, 2)

	c.MarkAllRead()
	assert.Equal(t, 0, c.Unread())
	for _, n := range c.List() {
		assert.True(t, n.IsRead)
	}
}

func TestSubscribeSeesAdds(t *testing.T) {
	c := NewCenter()
	var got []string
	unsub := c.Subscribe(func(n domain.Notification) { got = append(got, n.ID) })

	c.Add(domain.Notification{ID: "n1"})
	unsub()
	c.Add(domain.Notification{ID: "n2"})

	assert.Equal(t, []string{"n1"}, got)
}
