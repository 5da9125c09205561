// Package clientstore is the durable key-value state of one client profile:
// the Go analogue of the browser's localStorage. Session credentials, the
// cached identity and role profile, and the cart all live here as serialized
// JSON rows, surviving process restarts.
package clientstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the session controller and the cart store. Exactly one of
// KeyMember / KeyAdmin is populated at a time.
const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyMember = "member"
	KeyAdmin  = "admin"
	KeyCart   = "cart"
)

// ErrCorrupt reports a value that was present but could not be decoded.
// Readers treat it as absent; callers decide whether to clear the row.
var ErrCorrupt = errors.New("clientstore: corrupt value")

type Store interface {
	// Get returns the raw value and whether the key was present.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(keys ...string) error
	// Reset drops every row. Used on account deletion.
	Reset() error
}

// PutJSON marshals v and stores it under key.
func PutJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("clientstore: marshal %q: %w", key, err)
	}
	return s.Put(key, data)
}

// ReadJSON decodes the value under key into v. A missing key returns
// (false, nil); a present but undecodable value returns (false, ErrCorrupt)
// so the caller can distinguish "never written" from "garbled".
func ReadJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return true, nil
}
