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

package session

import (
	"fmt"
	"time"
)

const (
	defaultNewSIDField                    = "$newid"
	defaultRenewInterval                  = 600 * time.Second
	defaultOriginalJudgment               = 120 * time.Second
	defaultClonedInactiveJudgmentInterval = 60 * time.Second
)

// AutoRenew wraps a Session with a sliding-id rotation policy: once a
// session has lived past RenewInterval, TryRenew mints a successor id,
// records it on the old session under NewSIDField, and keeps both alive
// for OriginalJudgment so in-flight callers still holding the old id don't
// get bounced mid-request. Once both windows have closed, the old session
// is destroyed and only the new id remains valid.
type AutoRenew struct {
	Session *Session

	NewSIDField                    string
	RenewInterval                  time.Duration
	OriginalJudgment               time.Duration
	ClonedInactiveJudgmentInterval time.Duration

	cloned *Session
}

// NewAutoRenew wraps session with the default rotation policy.
func NewAutoRenew(s *Session) *AutoRenew {
	return &AutoRenew{
		Session:                        s,
		NewSIDField:                    defaultNewSIDField,
		RenewInterval:                  defaultRenewInterval,
		OriginalJudgment:               defaultOriginalJudgment,
		ClonedInactiveJudgmentInterval: defaultClonedInactiveJudgmentInterval,
	}
}

// TryRenew runs one step of the rotation policy and reports whether the
// caller should switch to a.Cloned() going forward (true), or keep using
// the original Session unchanged (false). It touches the session's TTL as
// a side effect whenever it decides renewal isn't due yet.
func (a *AutoRenew) TryRenew() (bool, error) {
	createdAt := time.Unix(int64(a.Session.Meta.CreateStamp), 0)
	dueIn := a.RenewInterval - time.Since(createdAt)
	if dueIn > 0 {
		_ = a.Session.Touch()
		return false, nil
	}

	newSID, ok, err := a.Session.PeekGet(a.NewSIDField)
	if err != nil {
		return false, err
	}
	if !ok || newSID == "" {
		return true, a.cloneFresh()
	}

	overdueBy := -dueIn
	if overdueBy <= a.OriginalJudgment {
		_ = a.Session.Touch()
		return false, nil
	}

	cloned, err := a.Session.CloneWithID(newSID)
	if err != nil {
		return false, err
	}
	a.cloned = cloned

	clonedPassed, cerr := cloned.TTLPassed()
	originalPassed, operr := a.Session.TTLPassed()
	clonedActive := cerr == nil && clonedPassed < a.ClonedInactiveJudgmentInterval
	olderThanOriginal := operr != nil || clonedPassed < originalPassed

	if clonedActive && olderThanOriginal {
		if err := a.Session.Destroy(); err != nil {
			return false, err
		}
		return false, fmt.Errorf("session: %q was destroyed, unable to continue use", a.Session.ID())
	}

	if err := cloned.Destroy(); err != nil {
		return false, err
	}
	a.cloned = nil
	return true, a.cloneFresh()
}

// cloneFresh mints a new session, records its id on the old one under
// NewSIDField, and stores it as a.Cloned().
func (a *AutoRenew) cloneFresh() error {
	cloned, err := a.Session.Clone()
	if err != nil {
		return err
	}
	a.cloned = cloned
	if err := a.cloned.Touch(); err != nil {
		return err
	}
	return a.Session.SilentSet(a.NewSIDField, a.cloned.ID())
}

// Cloned returns the successor Session minted by the most recent TryRenew
// call, or nil if none has happened yet.
func (a *AutoRenew) Cloned() *Session { return a.cloned }
