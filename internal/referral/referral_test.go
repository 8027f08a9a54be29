package referral

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	code := newCode()
	assert.True(t, strings.HasPrefix(code, CodePrefix))
	assert.Equal(t, len(CodePrefix)+8, len(code))
	assert.Equal(t, strings.ToUpper(code), code, "codes are generated upper-case")
}

func TestNewCode_Uniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := newCode()
		assert.False(t, seen[code], "generated a duplicate code within a small sample")
		seen[code] = true
	}
}

func TestExtractCode(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    string
		wantOk  bool
	}{
		{"valid code", "REF_ABC12345", "REF_ABC12345", true},
		{"missing prefix", "ABC12345", "", false},
		{"prefix but too short", "REF_AB", "", false},
		{"empty", "", "", false},
		{"lowercase prefix does not match", "ref_abc12345", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractCode(tc.payload)
			assert.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestService_DeepLink(t *testing.T) {
	t.Run("with bot username", func(t *testing.T) {
		s := &Service{botUsername: "my_concierge_bot"}
		assert.Equal(t, "https://t.me/my_concierge_bot?start=REF_ABC12345", s.DeepLink("REF_ABC12345"))
	})

	t.Run("without bot username falls back to bare code", func(t *testing.T) {
		s := &Service{}
		assert.Equal(t, "REF_ABC12345", s.DeepLink("REF_ABC12345"))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(assertErr("UNIQUE constraint failed: referrals.code")))
	assert.False(t, isUniqueViolation(assertErr("no such table: referrals")))
}

type stringErr string

func (e stringErr) Error() string { return string(e) }

func assertErr(msg string) error { return stringErr(msg) }
