package security

import "crypto/subtle"

// KeySet is an immutable set of accepted bearer credentials.
// Contains always compares against every member in constant time.
type KeySet struct {
	keys [][]byte
}

// NewKeySet builds a KeySet from keys. Empty keys are ignored.
func NewKeySet(keys []string) *KeySet {
	ks := &KeySet{keys: make([][]byte, 0, len(keys))}
	for _, k := range keys {
		if k != "" {
			ks.keys = append(ks.keys, []byte(k))
		}
	}
	return ks
}

// Contains reports whether key is a member of the set.
func (ks *KeySet) Contains(key string) bool {
	if key == "" {
		return false
	}
	candidate := []byte(key)
	found := 0
	for _, k := range ks.keys {
		found |= subtle.ConstantTimeCompare(candidate, k)
	}
	return found == 1
}

// Len returns the number of keys in the set.
func (ks *KeySet) Len() int { return len(ks.keys) }

// Values returns the raw keys, for registering with a Redactor.
func (ks *KeySet) Values() []string {
	out := make([]string, len(ks.keys))
	for i, k := range ks.keys {
		out[i] = string(k)
	}
	return out
}
