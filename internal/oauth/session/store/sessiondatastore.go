/*
 * Copyright (c) 2025, Meridian Identity Project.
 *
 * The Meridian Identity Project licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package store provides functionality for managing auth session data storage.
package store

import (
	"sync"
	"time"

	"github.com/meridianid/meridian/internal/oauth/session/model"
)

// defaultSessionValidity bounds how long a stored request survives the
// interactive login/consent round trip.
const defaultSessionValidity = 10 * time.Minute

// SessionDataStoreInterface defines the interface for session data storage.
type SessionDataStoreInterface interface {
	AddSession(key string, value model.SessionData)
	GetSession(key string) (model.SessionData, bool)
	ConsumeSession(key string) (model.SessionData, bool)
	ClearSession(key string)
	ClearSessionStore()
}

// sessionEntry holds a stored session with its absolute expiry.
type sessionEntry struct {
	data      model.SessionData
	expiresAt time.Time
}

func (e sessionEntry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// SessionDataStore provides the session data store functionality.
type SessionDataStore struct {
	mu             sync.Mutex
	entries        map[string]sessionEntry
	validityPeriod time.Duration
}

var (
	instance *SessionDataStore
	once     sync.Once
)

// GetSessionDataStore returns a singleton instance of SessionDataStore.
func GetSessionDataStore() SessionDataStoreInterface {
	once.Do(func() {
		instance = &SessionDataStore{
			entries:        make(map[string]sessionEntry),
			validityPeriod: defaultSessionValidity,
		}
	})

	return instance
}

// AddSession adds a session data entry to the session store. Expired entries
// are swept out on each insert so abandoned round trips do not accumulate.
func (sds *SessionDataStore) AddSession(key string, value model.SessionData) {
	if key == "" {
		return
	}
	now := time.Now()

	sds.mu.Lock()
	defer sds.mu.Unlock()

	sds.evictExpired(now)
	sds.entries[key] = sessionEntry{
		data:      value,
		expiresAt: now.Add(sds.validityPeriod),
	}
}

// GetSession retrieves a session data entry without removing it.
func (sds *SessionDataStore) GetSession(key string) (model.SessionData, bool) {
	return sds.lookup(key, false)
}

// ConsumeSession retrieves a session data entry and removes it in the same
// step, so a session data key resolves at most once.
func (sds *SessionDataStore) ConsumeSession(key string) (model.SessionData, bool) {
	return sds.lookup(key, true)
}

func (sds *SessionDataStore) lookup(key string, consume bool) (model.SessionData, bool) {
	if key == "" {
		return model.SessionData{}, false
	}

	sds.mu.Lock()
	defer sds.mu.Unlock()

	entry, exists := sds.entries[key]
	if !exists {
		return model.SessionData{}, false
	}
	if entry.expired(time.Now()) {
		delete(sds.entries, key)
		return model.SessionData{}, false
	}
	if consume {
		delete(sds.entries, key)
	}
	return entry.data, true
}

// ClearSession removes a specific session data entry from the session store.
func (sds *SessionDataStore) ClearSession(key string) {
	if key == "" {
		return
	}

	sds.mu.Lock()
	defer sds.mu.Unlock()
	delete(sds.entries, key)
}

// ClearSessionStore removes all session data entries from the session store.
func (sds *SessionDataStore) ClearSessionStore() {
	sds.mu.Lock()
	defer sds.mu.Unlock()

	sds.entries = make(map[string]sessionEntry)
}

// evictExpired drops every expired entry. Callers must hold the lock.
func (sds *SessionDataStore) evictExpired(now time.Time) {
	for key, entry := range sds.entries {
		if entry.expired(now) {
			delete(sds.entries, key)
		}
	}
}
