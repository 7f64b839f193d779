/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethesis/edge-downloader/models"
)

func TestCreateAndGet(t *testing.T) {
	st := NewSessionStore()

	session := st.Create("alice")
	require.NotEmpty(t, session.ID)
	assert.True(t, session.Authenticated())
	assert.Same(t, session, st.Get(session.ID))
	assert.Nil(t, st.Get("missing"))
}

func TestSessionsAreIsolated(t *testing.T) {
	st := NewSessionStore()

	first := st.Create("alice")
	second := st.Create("alice")
	assert.NotEqual(t, first.ID, second.ID)

	first.SetExport(&models.Export{Filename: "a.csv"})
	assert.Nil(t, second.Export())

	st.Logout(first.ID)
	assert.True(t, second.Authenticated())
}

func TestLogoutResetsSession(t *testing.T) {
	st := NewSessionStore()

	session := st.Create("alice")
	session.SetExport(&models.Export{Filename: "a.csv"})

	st.Logout(session.ID)

	assert.False(t, session.Authenticated())
	assert.Nil(t, session.Export())
	assert.Nil(t, st.Get(session.ID))
	assert.Equal(t, 0, st.Len())

	// unknown ids are ignored
	st.Logout(session.ID)
}

func TestSetExportReplaces(t *testing.T) {
	session := NewSessionStore().Create("alice")

	session.SetExport(&models.Export{Filename: "first.csv"})
	session.SetExport(&models.Export{Filename: "second.csv"})
	assert.Equal(t, "second.csv", session.Export().Filename)

	session.SetExport(nil)
	assert.Nil(t, session.Export())
}

func TestPurgeExpired(t *testing.T) {
	st := NewSessionStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	st.now = func() time.Time { return now.Add(-2 * time.Hour) }
	old := st.Create("alice")
	st.now = func() time.Time { return now }
	fresh := st.Create("bob")

	assert.Equal(t, 1, st.PurgeExpired(time.Hour))
	assert.Nil(t, st.Get(old.ID))
	assert.False(t, old.Authenticated())
	assert.Same(t, fresh, st.Get(fresh.ID))
}

func TestConcurrentAccess(t *testing.T) {
	st := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := st.Create("user")
			s.SetExport(&models.Export{})
			st.Get(s.ID)
			st.Logout(s.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, st.Len())
}
