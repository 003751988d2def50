package security

import "testing"

func TestKeySet_Contains(t *testing.T) {
	t.Parallel()

	ks := NewKeySet([]string{"k1", "k2", ""})

	tests := []struct {
		key  string
		want bool
	}{
		{"k1", true},
		{"k2", true},
		{"k3", false},
		{"", false},
		{"k", false},
		{"k11", false},
	}

	for _, tt := range tests {
		if got := ks.Contains(tt.key); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
	if ks.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ks.Len())
	}
}

func TestKeySet_Values(t *testing.T) {
	t.Parallel()

	ks := NewKeySet([]string{"a", "b"})
	got := ks.Values()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Values() = %v", got)
	}
}
