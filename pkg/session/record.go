package session

import (
	"maps"
	"time"
)

// Meta holds record lifecycle timestamps in epoch milliseconds.
type Meta struct {
	CreatedAt int64 `json:"createdAt" bson:"created_at"`
	UpdatedAt int64 `json:"updatedAt" bson:"updated_at"`
	ExpiresAt int64 `json:"expiresAt" bson:"expires_at"`
}

// Record is the durable session state. Client is safe to expose to the
// browser, Server never leaves the backend.
type Record struct {
	Client map[string]any `json:"client"`
	Server map[string]any `json:"server"`
	Meta   Meta           `json:"meta"`
}

// Patch is a shallow update applied by Session.Set.
// A non-nil ExpiresAt overrides the expiration policy.
type Patch struct {
	Client    map[string]any
	Server    map[string]any
	ExpiresAt *int64
}

// Activity tracks what happened to the session during one request.
type Activity struct {
	Updated bool
	Deleted bool
}

// Exported is the client-visible projection served by the export endpoint.
type Exported struct {
	Client map[string]any `json:"client"`
	Meta   Meta           `json:"meta"`
}

// Expired reports whether the record is logically dead at now.
func (r *Record) Expired(now time.Time) bool {
	return r != nil && now.UnixMilli() >= r.Meta.ExpiresAt
}

// Clone returns a copy with its own top-level maps.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		Client: cloneMap(r.Client),
		Server: cloneMap(r.Server),
		Meta:   r.Meta,
	}
}

// Export strips the server partition.
func (r *Record) Export() *Exported {
	if r == nil {
		return nil
	}
	return &Exported{Client: cloneMap(r.Client), Meta: r.Meta}
}

// valid reports whether a decoded record carries the expected shape.
func (r *Record) valid() bool {
	return r != nil && r.Meta.CreatedAt > 0 && r.Meta.ExpiresAt > 0
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	return out
}
