package session

import "maps"

// Session is the per-request handle over the resolved record. It is owned by
// a single request and is not safe for concurrent use.
type Session struct {
	id       string
	record   *Record
	activity Activity
	policy   ExpirationPolicy
}

func newSession(id string, rec *Record, policy ExpirationPolicy) *Session {
	return &Session{id: id, record: rec, policy: policy}
}

// ID returns the backend identity, empty for cookie sessions and for
// sessions not persisted yet.
func (s *Session) ID() string {
	return s.id
}

// Data returns a copy of the current record, nil when no session exists.
func (s *Session) Data() *Record {
	return s.record.Clone()
}

// Exists reports whether a record is present.
func (s *Session) Exists() bool {
	return s.record != nil
}

// Activity returns the request activity flags.
func (s *Session) Activity() Activity {
	return s.activity
}

// Set merges the patch into the record, creating it when absent.
// Once Delete was called, Set is rejected with ErrSessionDeleted.
func (s *Session) Set(p Patch) error {
	if s.activity.Deleted {
		return ErrSessionDeleted
	}

	now := s.policy.now().UnixMilli()

	var next *Record
	if s.record == nil {
		next = &Record{
			Client: map[string]any{},
			Server: map[string]any{},
			Meta:   Meta{CreatedAt: now, UpdatedAt: now},
		}
	} else {
		next = s.record.Clone()
		next.Meta.UpdatedAt = nextUpdatedAt(now, next.Meta.UpdatedAt)
	}

	maps.Copy(next.Client, p.Client)
	maps.Copy(next.Server, p.Server)

	switch {
	case p.ExpiresAt != nil:
		next.Meta.ExpiresAt = *p.ExpiresAt
	case s.record == nil:
		next.Meta.ExpiresAt = s.policy.Next(nil)
	default:
		next.Meta.ExpiresAt = s.policy.Next(&s.record.Meta.ExpiresAt)
	}

	s.record = next
	s.activity.Updated = true
	return nil
}

// ResetExpiration pushes expiresAt to now+maxAge and bumps updatedAt. It is
// a no-op without a record or after Delete.
func (s *Session) ResetExpiration() {
	if s.record == nil || s.activity.Deleted {
		return
	}
	s.record.Meta.ExpiresAt = s.policy.Next(nil)
	s.record.Meta.UpdatedAt = nextUpdatedAt(s.policy.now().UnixMilli(), s.record.Meta.UpdatedAt)
	s.activity.Updated = true
}

// nextUpdatedAt keeps updatedAt strictly increasing even within one
// millisecond.
func nextUpdatedAt(now, prev int64) int64 {
	return max(now, prev+1)
}

// Delete marks the session for destruction at the end of the request. The
// record stays readable until then.
func (s *Session) Delete() {
	s.activity.Deleted = true
}
