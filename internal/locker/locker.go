/*
 * Copyright 2021 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package locker provides a key-scoped lock manager. The client uses one
// instance to serialize update/sync/applyChangePack calls per document
// and the activate/deactivate transition at the client level, so that no
// two critical sections for the same key run concurrently.
package locker

import "sync"

// Locker manages a set of named RWMutexes, created lazily and reference
// counted so idle keys don't leak memory.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*refCountedMutex
}

type refCountedMutex struct {
	mu  sync.RWMutex
	ref int
}

// New creates a new instance of Locker.
func New() *Locker {
	return &Locker{
		locks: make(map[string]*refCountedMutex),
	}
}

// Lock acquires the write lock for the given key, blocking until available.
func (l *Locker) Lock(key string) {
	l.acquire(key).mu.Lock()
}

// TryLock attempts to acquire the write lock for the given key without
// blocking. It reports whether the lock was acquired.
func (l *Locker) TryLock(key string) bool {
	m := l.acquire(key)
	if m.mu.TryLock() {
		return true
	}
	l.release(key)
	return false
}

// Unlock releases the write lock for the given key.
func (l *Locker) Unlock(key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return ErrNotLocked
	}
	m.mu.Unlock()
	l.release(key)
	return nil
}

// RLock acquires a read lock for the given key, blocking until available.
func (l *Locker) RLock(key string) {
	l.acquire(key).mu.RLock()
}

// RUnlock releases a read lock for the given key.
func (l *Locker) RUnlock(key string) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return ErrNotLocked
	}
	m.mu.RUnlock()
	l.release(key)
	return nil
}

func (l *Locker) acquire(key string) *refCountedMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &refCountedMutex{}
		l.locks[key] = m
	}
	m.ref++
	return m
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		return
	}
	m.ref--
	if m.ref <= 0 {
		delete(l.locks, key)
	}
}
