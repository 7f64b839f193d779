/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nethesis/edge-downloader/logs"
	"github.com/nethesis/edge-downloader/models"
)

// Session is the state of one interactive login.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time

	mutex         sync.Mutex
	authenticated bool
	export        *models.Export
}

func (s *Session) Authenticated() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.authenticated
}

// Logout resets the login flag and drops any held export.
func (s *Session) Logout() {
	s.mutex.Lock()
	s.authenticated = false
	s.export = nil
	s.mutex.Unlock()
}

// SetExport replaces the export offered for download; nil clears it.
func (s *Session) SetExport(export *models.Export) {
	s.mutex.Lock()
	s.export = export
	s.mutex.Unlock()
}

func (s *Session) Export() *models.Export {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.export
}

// SessionStore maps session ids to sessions.
type SessionStore struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// ContextKey is the gin context key holding the current *Session.
const ContextKey = "session"

var Sessions *SessionStore

func SessionsInit() *SessionStore {
	Sessions = NewSessionStore()
	return Sessions
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create opens an authenticated session for username.
func (st *SessionStore) Create(username string) *Session {
	session := &Session{
		ID:            uuid.NewString(),
		Username:      username,
		CreatedAt:     st.now(),
		authenticated: true,
	}

	st.mutex.Lock()
	st.sessions[session.ID] = session
	st.mutex.Unlock()

	return session
}

func (st *SessionStore) Get(id string) *Session {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return st.sessions[id]
}

// Logout resets the session flag and forgets the session.
func (st *SessionStore) Logout(id string) {
	st.mutex.Lock()
	session := st.sessions[id]
	delete(st.sessions, id)
	st.mutex.Unlock()

	if session != nil {
		session.Logout()
	}
}

func (st *SessionStore) Len() int {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return len(st.sessions)
}

// PurgeExpired removes sessions older than maxAge and returns how many were dropped.
func (st *SessionStore) PurgeExpired(maxAge time.Duration) int {
	cutoff := st.now().Add(-maxAge)

	st.mutex.Lock()
	var expired []*Session
	for id, session := range st.sessions {
		if session.CreatedAt.Before(cutoff) {
			expired = append(expired, session)
			delete(st.sessions, id)
		}
	}
	st.mutex.Unlock()

	for _, session := range expired {
		session.Logout()
	}

	if len(expired) > 0 {
		logs.Log(fmt.Sprintf("[INFO][SESSIONS] Purged %d expired session(s)", len(expired)))
	}
	return len(expired)
}
