/*
Copyright 2025 Identio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package storage

import (
	"fmt"
	"sync"
)

// SecretStore is the contract for the injected platform secure storage
// (keychain-like). The SDK only ever needs get/set/delete of string values.
type SecretStore interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore is a mutex-guarded in-memory SecretStore, used in tests and as
// a default when the host application provides no secure storage.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// ProcessIDStore persists the active onboarding process identifier for one
// credential instance. Absence of a stored value is the canonical "no active
// process" signal, so the flow survives process restarts.
type ProcessIDStore struct {
	store SecretStore
	key   string
}

func NewProcessIDStore(store SecretStore, instanceID string) *ProcessIDStore {
	return &ProcessIDStore{store: store, key: fmt.Sprintf("processId_%s", instanceID)}
}

func (s *ProcessIDStore) Get() (string, bool, error) {
	return s.store.Get(s.key)
}

func (s *ProcessIDStore) Set(processID string) error {
	return s.store.Set(s.key, processID)
}

func (s *ProcessIDStore) Clear() error {
	return s.store.Delete(s.key)
}

// ScanCacheStore persists the compact scan process serialization for one
// credential instance.
type ScanCacheStore struct {
	store SecretStore
	key   string
}

func NewScanCacheStore(store SecretStore, instanceID string) *ScanCacheStore {
	return &ScanCacheStore{store: store, key: fmt.Sprintf("scanProcessCache_%s", instanceID)}
}

func (s *ScanCacheStore) Get() (string, bool, error) {
	return s.store.Get(s.key)
}

func (s *ScanCacheStore) Set(data string) error {
	return s.store.Set(s.key, data)
}

func (s *ScanCacheStore) Clear() error {
	return s.store.Delete(s.key)
}
