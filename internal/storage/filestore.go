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
	"crypto/rand"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// FileStore is a SecretStore backed by a single secretbox-sealed JSON file.
// It is the fallback for hosts without a platform keychain. A missing or
// unreadable file behaves as an empty store; corruption is logged and treated
// as data loss, never as a hard failure.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  [32]byte
}

func NewFileStore(path string, key [32]byte) *FileStore {
	return &FileStore{path: path, key: key}
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	return s.persist(values)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.persist(values)
}

func (s *FileStore) load() map[string]string {
	values := make(map[string]string)
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("secret store %s unreadable, starting empty: %v", s.path, err)
		}
		return values
	}
	if len(sealed) < nonceSize {
		logrus.Warnf("secret store %s truncated, starting empty", s.path)
		return values
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		logrus.Warnf("secret store %s failed authentication, starting empty", s.path)
		return values
	}
	if err := json.Unmarshal(plain, &values); err != nil {
		logrus.Warnf("secret store %s holds malformed data, starting empty: %v", s.path, err)
		return map[string]string{}
	}
	return values
}

func (s *FileStore) persist(values map[string]string) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encoding secret store")
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrap(err, "generating nonce")
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return errors.Wrap(err, "writing secret store")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replacing secret store")
	}
	return nil
}
