package store

import (
	"encoding/json"
	"log/slog"
	"time"
)

// entry is the persisted cache wrapper. Expiry is unix milliseconds.
type entry struct {
	Value  json.RawMessage `json:"value"`
	Expiry int64           `json:"expiry"`
}

// probe distinguishes "no expiry field" from "expiry: 0" during validation.
// Payloads without a numeric expiry do not belong to this store.
type probe struct {
	Expiry *int64 `json:"expiry"`
}

// ExpiringStore wraps a KV with per-entry time-to-live. Values are stored
// as JSON {value, expiry} objects; readers lazily evict entries that are
// expired or fail shape validation.
type ExpiringStore struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

func NewExpiringStore(kv KV, logger *slog.Logger) *ExpiringStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpiringStore{kv: kv, logger: logger, now: time.Now}
}

// SetClock overrides the time source. Tests use this to advance virtual time.
func (s *ExpiringStore) SetClock(now func() time.Time) {
	s.now = now
}

// Set serializes value with an expiry of now+ttl and writes it under key.
// A ttl <= 0 is accepted and produces an already-expired entry. On a write
// failure the store sweeps all expired entries and retries exactly once;
// a second failure is logged and the write is dropped.
func (s *ExpiringStore) Set(key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache value not serializable", "key", key, "error", err)
		return
	}
	data, err := json.Marshal(entry{
		Value:  raw,
		Expiry: s.now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("cache entry not serializable", "key", key, "error", err)
		return
	}

	if err := s.kv.Set(key, data); err != nil {
		s.logger.Warn("cache write failed, sweeping expired entries", "key", key, "error", err)
		s.SweepExpired()
		if err := s.kv.Set(key, data); err != nil {
			s.logger.Warn("cache write dropped after sweep", "key", key, "error", err)
		}
	}
}

// Get reads the entry under key into dest. Absent, malformed, or expired
// entries are deleted and reported as a miss.
func (s *ExpiringStore) Get(key string, dest any) bool {
	data, ok := s.kv.Get(key)
	if !ok {
		return false
	}

	var p probe
	if err := json.Unmarshal(data, &p); err != nil || p.Expiry == nil {
		s.logger.Warn("evicting malformed cache entry", "key", key)
		s.kv.Delete(key)
		return false
	}

	if s.now().UnixMilli() >= *p.Expiry {
		s.kv.Delete(key)
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.kv.Delete(key)
		return false
	}
	if err := json.Unmarshal(e.Value, dest); err != nil {
		s.logger.Warn("evicting cache entry with unreadable value", "key", key, "error", err)
		s.kv.Delete(key)
		return false
	}
	return true
}

// Delete removes the entry under key, expired or not.
func (s *ExpiringStore) Delete(key string) {
	s.kv.Delete(key)
}

// SweepExpired scans every key in the namespace and removes entries whose
// expiry has passed. Payloads that do not parse as cache entries are left
// untouched; they may belong to someone else. Returns the number removed.
func (s *ExpiringStore) SweepExpired() int {
	nowMillis := s.now().UnixMilli()
	removed := 0
	for _, key := range s.kv.Keys() {
		data, ok := s.kv.Get(key)
		if !ok {
			continue
		}
		var p probe
		if err := json.Unmarshal(data, &p); err != nil || p.Expiry == nil {
			continue
		}
		if nowMillis >= *p.Expiry {
			s.kv.Delete(key)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired cache entries", "count", removed)
	}
	return removed
}
