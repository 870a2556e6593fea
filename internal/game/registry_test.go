// internal/game/registry_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/quizwire/internal/models"
)

func TestRegistryCreateGetDelete(t *testing.T) {
	r := NewRegistry()
	host := &models.Player{ID: uuid.New(), Name: "ana"}

	l := r.Create("ana's game", host, testConn(), DefaultSettings(""))
	require.NotNil(t, l)

	got, ok := r.Get(l.ID)
	require.True(t, ok)
	assert.Same(t, l, got)

	r.Delete(l.ID)
	_, ok = r.Get(l.ID)
	assert.False(t, ok)

	// deleting twice is harmless
	r.Delete(l.ID)
}

func TestRegistryDeletesWhenLastPlayerLeaves(t *testing.T) {
	r := NewRegistry()
	host := &models.Player{ID: uuid.New(), Name: "ana"}
	l := r.Create("ana's game", host, testConn(), DefaultSettings(""))

	require.True(t, l.RemovePlayer(host.ID))

	_, ok := r.Get(l.ID)
	assert.False(t, ok)
}

func TestListPublicFiltersNonWaiting(t *testing.T) {
	r := NewRegistry()
	waiting := r.Create("open", &models.Player{ID: uuid.New(), Name: "ana"}, testConn(), DefaultSettings(""))
	started := r.Create("busy", &models.Player{ID: uuid.New(), Name: "bea"}, testConn(), DefaultSettings(""))

	started.Mu.Lock()
	started.Status = StatusPlaying
	started.Mu.Unlock()

	list := r.ListPublic()
	require.Len(t, list, 1)
	assert.Equal(t, waiting.ID, list[0].ID)
	assert.Equal(t, "open", list[0].Name)
	assert.Equal(t, "ana", list[0].HostName)
}
