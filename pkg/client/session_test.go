package client_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhudevswayam/service-app/pkg/client"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails Save or Clear on demand.
type flakyStore struct {
	client.MemoryStore
	failSave  bool
	failClear bool
}

func (f *flakyStore) Save(s client.Snapshot) error {
	if f.failSave {
		return errDiskFull
	}
	return f.MemoryStore.Save(s)
}

func (f *flakyStore) Clear() error {
	if f.failClear {
		return errDiskFull
	}
	return f.MemoryStore.Clear()
}

func TestEstablishFailsWhenStoreFails(t *testing.T) {
	store := &flakyStore{failSave: true}
	sess, err := client.NewSession(store)
	require.NoError(t, err)
	var states []client.State
	sess.OnChange(func(s client.State) { states = append(states, s) })

	err = sess.Establish("tok", "acme", client.User{ID: "u-1", Email: "alice@x.com"})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, client.StateAnonymous, sess.State())
	assert.Empty(t, states)

	h := http.Header{}
	sess.AttachAuthHeaders(h)
	assert.Empty(t, h.Get("Authorization"))
	assert.Empty(t, h.Get(client.TenantHeader))
}

func TestFailedSaveKeepsPreviousSession(t *testing.T) {
	store := &flakyStore{}
	sess, err := client.NewSession(store)
	require.NoError(t, err)
	require.NoError(t, sess.Establish("first", "acme", client.User{ID: "u-1"}))

	store.failSave = true
	assert.ErrorIs(t, sess.Establish("second", "other", client.User{ID: "u-2"}), errDiskFull)
	assert.Equal(t, "first", sess.Token())
	assert.Equal(t, "acme", sess.TenantID())

	assert.ErrorIs(t, sess.SetUser(client.User{ID: "u-1", Name: "Renamed"}), errDiskFull)
	u, ok := sess.CurrentUser()
	require.True(t, ok)
	assert.Empty(t, u.Name)
}

func TestClearDropsMemoryEvenWhenStoreFails(t *testing.T) {
	store := &flakyStore{}
	sess, err := client.NewSession(store)
	require.NoError(t, err)
	require.NoError(t, sess.Establish("tok", "acme", client.User{ID: "u-1"}))
	var states []client.State
	sess.OnChange(func(s client.State) { states = append(states, s) })

	store.failClear = true
	assert.ErrorIs(t, sess.Clear(), errDiskFull)
	assert.Equal(t, client.StateAnonymous, sess.State())
	assert.Equal(t, []client.State{client.StateAnonymous}, states)

	h := http.Header{}
	sess.AttachAuthHeaders(h)
	assert.Empty(t, h.Get("Authorization"))
}
