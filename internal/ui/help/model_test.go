package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/activity-hub/internal/keys"
	"github.com/nhle/activity-hub/internal/model"
)

func TestView_GroupsBindingsBySection(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	out := m.View()
	assert.Contains(t, out, "Navigate")
	assert.Contains(t, out, "Notifications")
	assert.Contains(t, out, "Read state")
	assert.Contains(t, out, "Filters and paging")
	assert.Contains(t, out, "Session")
}

func TestView_ManagementEntryFollowsRole(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	m.SetRole(model.RoleStudent)
	assert.NotContains(t, m.View(), "management")

	m.SetRole(model.RoleManager)
	assert.Contains(t, m.View(), "management")

	m.SetRole(model.RoleAdmin)
	assert.Contains(t, m.View(), "management")
}
