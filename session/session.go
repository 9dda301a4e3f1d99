// Copyright 2025 The DCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session wraps an external session store (Redis, memcached, an
// in-process map — anything keyed by string fields) behind the Context's
// SessionID, giving a handler get/set access to per-caller state that
// outlives one request.
//
// The field-access split below — Get/Set versus PeekGet/SilentSet — and
// the AutoRenew combinator in autorenew.go are both carried over from a
// reference session implementation's Session trait and AutoRenew wrapper:
// touching access bumps the TTL on every use, silent access (used
// internally by renewal bookkeeping, and by callers who want to read
// without resetting the clock) does not.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"
)

// DefaultIDName is the field-name prefix a Store key is built from.
const DefaultIDName = "dcesid"

// DefaultTTLMinutes is applied when New is called without an explicit TTL.
const DefaultTTLMinutes uint16 = 60

// Meta is the bookkeeping carried alongside a session's data: its id, the
// TTL it was minted with, and when it was created. Meta.SID encodes both
// TTL and create-stamp so a session can be validated and aged without a
// store round trip.
type Meta struct {
	SIDName     string
	TTLMinutes  uint16
	CreateStamp uint64
	SID         string
}

// TTLSeconds returns the session's TTL in seconds.
func (m Meta) TTLSeconds() uint32 { return uint32(m.TTLMinutes) * 60 }

const minSIDLen = 76

// GenerateSID mints a fresh session id: a SHA-256 hash of random entropy,
// followed by the TTL as four hex digits and the creation timestamp in hex,
// so ParseSID can recover them without a store lookup.
func GenerateSID(ttlMinutes uint16) (sid string, createStamp uint64, err error) {
	var entropy [32]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		return "", 0, fmt.Errorf("session: generate id: %w", err)
	}
	sum := sha256.Sum256(entropy[:])
	now := uint64(time.Now().Unix())
	sid = fmt.Sprintf("%X%04X%X", sum, ttlMinutes, now)
	return sid, now, nil
}

// ParseSID recovers the TTL and creation timestamp a GenerateSID-minted id
// encodes.
func ParseSID(sid string) (ttlMinutes uint16, createStamp uint64, err error) {
	if len(sid) < minSIDLen {
		return 0, 0, fmt.Errorf("session: invalid sid %q: shorter than %d chars", sid, minSIDLen)
	}
	ttl, err := strconv.ParseUint(sid[64:68], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("session: invalid sid ttl field: %w", err)
	}
	stamp, err := strconv.ParseUint(sid[68:], 16, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("session: invalid sid stamp field: %w", err)
	}
	return uint16(ttl), stamp, nil
}

// NewMeta mints a fresh Meta with a newly generated SID.
func NewMeta(ttlMinutes uint16) (Meta, error) {
	if ttlMinutes == 0 {
		ttlMinutes = DefaultTTLMinutes
	}
	sid, stamp, err := GenerateSID(ttlMinutes)
	if err != nil {
		return Meta{}, err
	}
	return Meta{SIDName: DefaultIDName, TTLMinutes: ttlMinutes, CreateStamp: stamp, SID: sid}, nil
}

// MetaFromSID rebuilds Meta from an existing, caller-supplied session id.
func MetaFromSID(sid string) (Meta, error) {
	ttl, stamp, err := ParseSID(sid)
	if err != nil {
		return Meta{}, err
	}
	return Meta{SIDName: DefaultIDName, TTLMinutes: ttl, CreateStamp: stamp, SID: sid}, nil
}

// Key returns the store key this session's fields are namespaced under.
func (m Meta) Key() string {
	return m.SIDName + ":" + m.SID
}

// Store is the backing key-value field store a Session reads and writes
// through. Implementations typically wrap Redis or another TTL-aware
// cache; session itself ships no concrete Store, matching the teacher's
// posture of depending on interfaces at its component boundaries rather
// than bundling a particular backend.
type Store interface {
	SilentGet(key, field string) (string, bool, error)
	SilentSet(key, field, value string) error
	SilentDel(key, field string) error
	Touch(key string, ttl time.Duration) error
	Destroy(key string) error
	Raw(key string) (map[string]string, error)
	TTLPassed(key string) (time.Duration, error)
}

// Session is one caller's state, addressed by Meta.Key in store.
type Session struct {
	Meta  Meta
	store Store
}

// New mints a brand new session backed by store.
func New(store Store, ttlMinutes uint16) (*Session, error) {
	meta, err := NewMeta(ttlMinutes)
	if err != nil {
		return nil, err
	}
	return &Session{Meta: meta, store: store}, nil
}

// Load resumes an existing session by its wire SID.
func Load(store Store, sid string) (*Session, error) {
	meta, err := MetaFromSID(sid)
	if err != nil {
		return nil, err
	}
	return &Session{Meta: meta, store: store}, nil
}

// ID returns the session's wire id.
func (s *Session) ID() string { return s.Meta.SID }

// PeekGet reads field without resetting the session's TTL.
func (s *Session) PeekGet(field string) (string, bool, error) {
	return s.store.SilentGet(s.Meta.Key(), field)
}

// SilentSet writes field without resetting the session's TTL.
func (s *Session) SilentSet(field, value string) error {
	return s.store.SilentSet(s.Meta.Key(), field, value)
}

// Get reads field and touches the session, extending its TTL — the
// access pattern a handler should use by default.
func (s *Session) Get(field string) (string, bool, error) {
	v, ok, err := s.PeekGet(field)
	if err != nil {
		return "", false, err
	}
	_ = s.Touch()
	return v, ok, nil
}

// Set writes field and touches the session.
func (s *Session) Set(field, value string) error {
	if err := s.SilentSet(field, value); err != nil {
		return err
	}
	return s.Touch()
}

// Del removes field and touches the session.
func (s *Session) Del(field string) error {
	if err := s.store.SilentDel(s.Meta.Key(), field); err != nil {
		return err
	}
	return s.Touch()
}

// Touch resets the session's TTL in the backing store.
func (s *Session) Touch() error {
	return s.store.Touch(s.Meta.Key(), time.Duration(s.Meta.TTLSeconds())*time.Second)
}

// Destroy removes the session entirely.
func (s *Session) Destroy() error {
	return s.store.Destroy(s.Meta.Key())
}

// Raw returns every field currently stored for this session.
func (s *Session) Raw() (map[string]string, error) {
	return s.store.Raw(s.Meta.Key())
}

// TTLPassed reports how much of the session's TTL window has elapsed.
func (s *Session) TTLPassed() (time.Duration, error) {
	return s.store.TTLPassed(s.Meta.Key())
}

// Clone produces a new Session sharing the same store but addressed by a
// distinct, freshly minted id — used by AutoRenew to spin up a successor
// session without disturbing the one it supersedes.
func (s *Session) Clone() (*Session, error) {
	return New(s.store, s.Meta.TTLMinutes)
}

// CloneWithID produces a new Session view over an existing sid sharing the
// same store, used by AutoRenew to resume a clone a previous renewal
// already created.
func (s *Session) CloneWithID(sid string) (*Session, error) {
	return Load(s.store, sid)
}

