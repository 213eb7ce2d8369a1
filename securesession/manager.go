// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package securesession

import (
	"fmt"
	"sync"
	"time"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
)

// LifecycleConfig bounds how long a Manager keeps an established Context
// alive once no caller explicitly closes it.
type LifecycleConfig struct {
	MaxAge      time.Duration // absolute expiration from creation, 0 disables
	IdleTimeout time.Duration // expiration from last Wrap/Unwrap, 0 disables
	MaxMessages int           // combined wrap+unwrap count limit, 0 disables
}

// DefaultLifecycleConfig mirrors sensible defaults for a long-lived peer
// connection: an hour absolute, ten minutes idle, a generous message cap.
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		MaxAge:      time.Hour,
		IdleTimeout: 10 * time.Minute,
		MaxMessages: 10000,
	}
}

type managedSession struct {
	ctx          *Context
	config       LifecycleConfig
	createdAt    time.Time
	lastUsedAt   time.Time
	messageCount int
}

func (m *managedSession) isExpired(now time.Time) bool {
	if m.ctx.State == StateTerminated {
		return true
	}
	if m.config.MaxAge > 0 && now.After(m.createdAt.Add(m.config.MaxAge)) {
		return true
	}
	if m.config.IdleTimeout > 0 && now.After(m.lastUsedAt.Add(m.config.IdleTimeout)) {
		return true
	}
	if m.config.MaxMessages > 0 && m.messageCount >= m.config.MaxMessages {
		return true
	}
	return false
}

// Manager tracks a set of established Contexts keyed by session id, expiring
// and closing them once they go stale so a long-running process does not
// accumulate one Context per peer forever.
type Manager struct {
	mu            sync.RWMutex
	sessions      map[uint32]*managedSession
	defaultConfig LifecycleConfig
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewManager creates a Manager that sweeps for expired sessions every
// interval, closing and evicting them. Callers that do not want a
// background sweep can pass interval <= 0; expired sessions are then only
// reaped lazily, on the next Get/Wrap/Unwrap call that touches them.
func NewManager(defaultConfig LifecycleConfig, interval time.Duration) *Manager {
	m := &Manager{
		sessions:      make(map[uint32]*managedSession),
		defaultConfig: defaultConfig,
		stopCleanup:   make(chan struct{}),
	}
	if interval > 0 {
		m.cleanupTicker = time.NewTicker(interval)
		go m.runCleanup()
	}
	return m
}

// Track registers an already-established Context under its SessionID, using
// the Manager's default lifecycle config.
func (m *Manager) Track(ctx *Context) error {
	return m.TrackWithConfig(ctx, m.defaultConfig)
}

// TrackWithConfig is Track with a per-session lifecycle override.
func (m *Manager) TrackWithConfig(ctx *Context, config LifecycleConfig) error {
	if ctx.State != StateEstablished {
		return ecrypterr.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[ctx.SessionID]; exists {
		return fmt.Errorf("securesession: session %d already tracked", ctx.SessionID)
	}
	now := time.Now()
	m.sessions[ctx.SessionID] = &managedSession{
		ctx:        ctx,
		config:     config,
		createdAt:  now,
		lastUsedAt: now,
	}
	return nil
}

// Get returns the live Context for sessionID, or false if it is unknown or
// has expired (in which case it is also evicted and closed).
func (m *Manager) Get(sessionID uint32) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}
	if ms.isExpired(time.Now()) {
		ms.ctx.Close()
		delete(m.sessions, sessionID)
		return nil, false
	}
	return ms.ctx, true
}

// Wrap looks up sessionID and calls Context.Wrap on it, bumping its
// lifecycle bookkeeping on success.
func (m *Manager) Wrap(sessionID uint32, plaintext []byte) ([]byte, error) {
	ctx, ok := m.Get(sessionID)
	if !ok {
		return nil, ecrypterr.ErrInvalidParameter
	}
	frame, err := ctx.Wrap(plaintext)
	if err != nil {
		return nil, err
	}
	m.touch(sessionID)
	return frame, nil
}

// Unwrap looks up sessionID and calls Context.Unwrap on it, bumping its
// lifecycle bookkeeping on success.
func (m *Manager) Unwrap(sessionID uint32, frame []byte) ([]byte, error) {
	ctx, ok := m.Get(sessionID)
	if !ok {
		return nil, ecrypterr.ErrInvalidParameter
	}
	plaintext, err := ctx.Unwrap(frame)
	if err != nil {
		return nil, err
	}
	m.touch(sessionID)
	return plaintext, nil
}

func (m *Manager) touch(sessionID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms, exists := m.sessions[sessionID]; exists {
		ms.lastUsedAt = time.Now()
		ms.messageCount++
	}
}

// Evict closes and removes sessionID regardless of expiry.
func (m *Manager) Evict(sessionID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms, exists := m.sessions[sessionID]; exists {
		ms.ctx.Close()
		delete(m.sessions, sessionID)
	}
}

// Count returns the number of tracked sessions, expired or not.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the background sweep and closes every tracked session.
func (m *Manager) Close() {
	close(m.stopCleanup)
	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ms := range m.sessions {
		ms.ctx.Close()
		delete(m.sessions, id)
	}
}

func (m *Manager) runCleanup() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.sweepExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) sweepExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ms := range m.sessions {
		if ms.isExpired(now) {
			ms.ctx.Close()
			delete(m.sessions, id)
		}
	}
}
