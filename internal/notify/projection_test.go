package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-hub/internal/model"
)

var markTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func record(id int64, status model.NotificationStatus) model.Notification {
	return model.Notification{
		ID:     id,
		Title:  "notification",
		Status: status,
	}
}

func seeded(unread int, records ...model.Notification) *Projection {
	p := &Projection{}
	p.SetPage(&model.NotificationPage{
		Items:         records,
		TotalPages:    1,
		TotalElements: int64(len(records)),
	})
	p.SetUnread(unread)
	return p
}

func TestSetUnread_FlooredAtZero(t *testing.T) {
	p := &Projection{}
	p.SetUnread(-5)
	assert.Equal(t, 0, p.Unread())

	p.SetUnread(3)
	assert.Equal(t, 3, p.Unread())
}

func TestMarkRead_FlipsRecordAndDecrementsCounter(t *testing.T) {
	p := seeded(2,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusUnread),
	)

	p.MarkRead(1, markTime)

	got, ok := p.Record(1)
	require.True(t, ok)
	assert.Equal(t, model.NotificationStatusRead, got.Status)
	require.NotNil(t, got.ReadAt)
	assert.True(t, got.ReadAt.Equal(markTime))
	assert.Equal(t, 1, p.Unread())
}

func TestMarkRead_AlreadyReadChangesNothing(t *testing.T) {
	p := seeded(1,
		record(1, model.NotificationStatusRead),
		record(2, model.NotificationStatusUnread),
	)

	rollback := p.MarkRead(1, markTime)
	assert.Equal(t, 1, p.Unread())

	// Rolling back a no-op must also change nothing.
	rollback()
	assert.Equal(t, 1, p.Unread())
}

func TestMarkRead_RepeatedCallsNeverUndercount(t *testing.T) {
	p := seeded(1, record(1, model.NotificationStatusUnread))

	p.MarkRead(1, markTime)
	p.MarkRead(1, markTime)
	p.MarkRead(1, markTime)

	assert.Equal(t, 0, p.Unread())
}

func TestMarkRead_UncachedRecordMovesCounterOnly(t *testing.T) {
	p := seeded(2, record(1, model.NotificationStatusUnread))

	rollback := p.MarkRead(99, markTime)
	assert.Equal(t, 1, p.Unread())
	assert.Len(t, p.Records(), 1)

	rollback()
	assert.Equal(t, 2, p.Unread())
}

func TestMarkRead_UncachedRecordAtZeroCounterStaysZero(t *testing.T) {
	p := seeded(0, record(1, model.NotificationStatusRead))

	p.MarkRead(99, markTime)
	assert.Equal(t, 0, p.Unread())
}

func TestMarkRead_RollbackRestoresRecordAndCounter(t *testing.T) {
	p := seeded(1, record(1, model.NotificationStatusUnread))

	rollback := p.MarkRead(1, markTime)
	rollback()

	got, ok := p.Record(1)
	require.True(t, ok)
	assert.Equal(t, model.NotificationStatusUnread, got.Status)
	assert.Nil(t, got.ReadAt)
	assert.Equal(t, 1, p.Unread())
}

func TestMarkAllRead_FlipsEverythingAndZeroesCounter(t *testing.T) {
	p := seeded(2,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusRead),
		record(3, model.NotificationStatusUnread),
	)

	rollback := p.MarkAllRead(markTime)

	for _, r := range p.Records() {
		assert.Equal(t, model.NotificationStatusRead, r.Status)
	}
	assert.Equal(t, 0, p.Unread())

	rollback()
	got, ok := p.Record(1)
	require.True(t, ok)
	assert.Equal(t, model.NotificationStatusUnread, got.Status)
	got, ok = p.Record(2)
	require.True(t, ok)
	assert.Equal(t, model.NotificationStatusRead, got.Status)
	assert.Equal(t, 2, p.Unread())
}

func TestRemove_DropsRecordAndAdjustsCounter(t *testing.T) {
	p := seeded(1,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusRead),
	)

	p.Remove(1)

	_, ok := p.Record(1)
	assert.False(t, ok)
	assert.Len(t, p.Records(), 1)
	assert.Equal(t, 0, p.Unread())
}

func TestRemove_ReadRecordKeepsCounter(t *testing.T) {
	p := seeded(1,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusRead),
	)

	p.Remove(2)
	assert.Equal(t, 1, p.Unread())
}

func TestRemove_RollbackRestoresPosition(t *testing.T) {
	p := seeded(1,
		record(1, model.NotificationStatusRead),
		record(2, model.NotificationStatusUnread),
		record(3, model.NotificationStatusRead),
	)

	rollback := p.Remove(2)
	rollback()

	records := p.Records()
	require.Len(t, records, 3)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(3), records[2].ID)
	assert.Equal(t, 1, p.Unread())
}

func TestRemove_RollbackAfterLaterRemove(t *testing.T) {
	p := seeded(2,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusUnread),
	)

	restore := p.Remove(2)
	p.Remove(1)

	restore()

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, model.NotificationStatusUnread, records[0].Status)
	assert.Equal(t, 1, p.Unread())
}

func TestRemove_RollbackAfterRefetchKeepsSingleCopy(t *testing.T) {
	p := seeded(1, record(1, model.NotificationStatusUnread))

	restore := p.Remove(1)
	p.SetPage(&model.NotificationPage{
		Items:         []model.Notification{record(1, model.NotificationStatusUnread)},
		TotalPages:    1,
		TotalElements: 1,
	})

	restore()

	assert.Len(t, p.Records(), 1)
}

func TestMarkRead_RollbackAfterRemovalsOnlyMovesCounter(t *testing.T) {
	p := seeded(2,
		record(1, model.NotificationStatusUnread),
		record(2, model.NotificationStatusUnread),
	)

	restore := p.MarkRead(2, markTime)
	p.Remove(1)
	p.Remove(2)

	restore()

	assert.Empty(t, p.Records())
	assert.Equal(t, 1, p.Unread())
}

func TestRemove_UnknownRecordIsNoOp(t *testing.T) {
	p := seeded(1, record(1, model.NotificationStatusUnread))

	rollback := p.Remove(42)
	rollback()

	assert.Len(t, p.Records(), 1)
	assert.Equal(t, 1, p.Unread())
}

func TestClear_ResetsEverything(t *testing.T) {
	p := seeded(2, record(1, model.NotificationStatusUnread))

	p.Clear()

	assert.Empty(t, p.Records())
	assert.Equal(t, 0, p.Unread())
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, int64(0), p.TotalElements())
}

func TestInflight(t *testing.T) {
	f := NewInflight()

	assert.True(t, f.Begin(1))
	assert.True(t, f.Active(1))
	assert.False(t, f.Begin(1), "second claim for the same ID must fail")

	// Different records proceed independently.
	assert.True(t, f.Begin(2))

	f.End(1)
	assert.False(t, f.Active(1))
	assert.True(t, f.Begin(1))

	// Releasing an unknown ID is harmless.
	f.End(99)
}
