package manifest

import (
	"strings"
	"testing"
)

func TestParseHash(t *testing.T) {
	sha := strings.Repeat("ab", 32)

	t.Run("sha256", func(t *testing.T) {
		h, err := ParseHash("SHA256=" + sha)
		if err != nil {
			t.Fatalf("ParseHash: %v", err)
		}
		if h.Algo != "SHA256" || h.Hex != sha {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("case insensitive tag", func(t *testing.T) {
		h, err := ParseHash("sha256=" + strings.ToUpper(sha))
		if err != nil {
			t.Fatalf("ParseHash: %v", err)
		}
		if h.Algo != "SHA256" || h.Hex != sha {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("all algorithms", func(t *testing.T) {
		for algo, size := range map[string]int{
			"MD5": 16, "SHA1": 20, "SHA256": 32, "SHA512": 64,
		} {
			if _, err := ParseHash(algo + "=" + strings.Repeat("00", size)); err != nil {
				t.Errorf("%s: %v", algo, err)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{
			"",
			"deadbeef",             // no tag
			"SHA256=xyz",           // not hex
			"SHA256=" + sha[:10],   // wrong length
			"CRC32=deadbeef",       // unsupported algorithm
			"SHA256",               // no separator
		} {
			if _, err := ParseHash(s); err == nil {
				t.Errorf("ParseHash(%q) = nil error, want failure", s)
			}
		}
	})
}

func TestHasherSizes(t *testing.T) {
	for algo, size := range map[string]int{
		"MD5": 16, "SHA1": 20, "SHA256": 32, "SHA512": 64,
	} {
		h := Hash{Algo: algo}
		if got := h.Hasher().Size(); got != size {
			t.Errorf("%s hasher size = %d, want %d", algo, got, size)
		}
	}
}
