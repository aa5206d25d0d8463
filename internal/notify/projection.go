// Package notify holds the client-side projection of server notification
// state. Each surface (dropdown, list page, detail page) owns its own
// Projection; consistency across surfaces is a protocol concern handled by
// the application's stale-and-refetch broadcast, not by shared memory.
package notify

import (
	"time"

	"github.com/nhle/activity-hub/internal/model"
)

// Projection is a view-local cached copy of server notification state: an
// ordered page of records plus an independently cached unread counter.
type Projection struct {
	records       []model.Notification
	unread        int
	page          int
	totalPages    int
	totalElements int64
}

// SetPage replaces the cached records with a freshly fetched page.
func (p *Projection) SetPage(page *model.NotificationPage) {
	p.records = append(p.records[:0:0], page.Items...)
	p.page = page.Number
	p.totalPages = page.TotalPages
	p.totalElements = page.TotalElements
}

// SetUnread replaces the cached unread counter, floored at zero.
func (p *Projection) SetUnread(count int) {
	if count < 0 {
		count = 0
	}
	p.unread = count
}

// Clear resets the projection to its empty state, used when a fetch fails
// and the view falls back to an empty list and zero counter.
func (p *Projection) Clear() {
	p.records = nil
	p.unread = 0
	p.page = 0
	p.totalPages = 0
	p.totalElements = 0
}

// Records returns the cached records in server order.
func (p *Projection) Records() []model.Notification {
	return p.records
}

// Record returns the cached record with the given ID.
func (p *Projection) Record(id int64) (model.Notification, bool) {
	for _, record := range p.records {
		if record.ID == id {
			return record, true
		}
	}
	return model.Notification{}, false
}

// Unread returns the cached unread counter. It is never negative.
func (p *Projection) Unread() int {
	return p.unread
}

// Page returns the current zero-based page index.
func (p *Projection) Page() int { return p.page }

// TotalPages returns the number of pages reported by the server.
func (p *Projection) TotalPages() int { return p.totalPages }

// TotalElements returns the total record count reported by the server.
func (p *Projection) TotalElements() int64 { return p.totalElements }

// Rollback restores the projection to the state before an optimistic
// mutation. It is applied when the server rejects the mutation so the
// projection cannot drift from server truth indefinitely. Mutations on
// different records are not serialized, so a rollback must not assume
// the slice still looks the way it did when the mutation ran: records
// are located by ID at rollback time and the counter is compensated by
// the mutation's own delta, never replayed from a snapshot.
type Rollback func()

// nopRollback is returned for mutations that changed nothing.
func nopRollback() {}

// restore writes the saved copy back over the cached record with the
// same ID, skipping records that are no longer cached.
func (p *Projection) restore(saved model.Notification) {
	for i := range p.records {
		if p.records[i].ID == saved.ID {
			p.records[i] = saved
			return
		}
	}
}

// MarkRead optimistically flips the record to READ and decrements the
// unread counter before the server call resolves. Marking an already-read
// record changes nothing, so the counter stays consistent under repeated
// calls. The returned Rollback undoes the mutation.
func (p *Projection) MarkRead(id int64, now time.Time) Rollback {
	for i := range p.records {
		if p.records[i].ID != id {
			continue
		}
		if !p.records[i].Unread() {
			return nopRollback
		}

		previous := p.records[i]

		readAt := now
		p.records[i].Status = model.NotificationStatusRead
		p.records[i].ReadAt = &readAt
		decremented := p.unread > 0
		if decremented {
			p.unread--
		}

		return func() {
			p.restore(previous)
			if decremented {
				p.unread++
			}
		}
	}

	// The record is not cached here (e.g. marked from the detail surface
	// while this projection holds another page). Only the counter moves.
	if p.unread == 0 {
		return nopRollback
	}
	p.unread--
	return func() {
		p.unread++
	}
}

// MarkAllRead optimistically flips every cached record to READ and zeroes
// the unread counter. The returned Rollback restores the flipped records
// and adds the counter delta back.
func (p *Projection) MarkAllRead(now time.Time) Rollback {
	var flipped []model.Notification
	previousUnread := p.unread

	readAt := now
	for i := range p.records {
		if p.records[i].Unread() {
			flipped = append(flipped, p.records[i])
			p.records[i].Status = model.NotificationStatusRead
			p.records[i].ReadAt = &readAt
		}
	}
	p.unread = 0

	if len(flipped) == 0 && previousUnread == 0 {
		return nopRollback
	}
	return func() {
		for _, saved := range flipped {
			p.restore(saved)
		}
		p.unread += previousUnread
	}
}

// Remove optimistically drops the record from the cache, decrementing the
// unread counter when the record was unread. The returned Rollback
// re-inserts the record near its original position.
func (p *Projection) Remove(id int64) Rollback {
	for i := range p.records {
		if p.records[i].ID != id {
			continue
		}

		previous := p.records[i]

		p.records = append(p.records[:i], p.records[i+1:]...)
		decremented := previous.Unread() && p.unread > 0
		if decremented {
			p.unread--
		}

		index := i
		return func() {
			if _, cached := p.Record(previous.ID); !cached {
				at := index
				if at > len(p.records) {
					at = len(p.records)
				}
				p.records = append(p.records[:at],
					append([]model.Notification{previous}, p.records[at:]...)...)
			}
			if decremented {
				p.unread++
			}
		}
	}
	return nopRollback
}
