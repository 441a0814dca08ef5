package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "praxis/pkg/domain-errors"
)

// TestParsePrincipalID_Invariants validates the parsing invariant:
// "IDs must be non-empty, bounded, and free of control/space characters".
func TestParsePrincipalID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePrincipalID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects embedded whitespace", func(t *testing.T) {
		_, err := ParsePrincipalID("user one")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects control characters", func(t *testing.T) {
		_, err := ParsePrincipalID("user\x00one")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized ids", func(t *testing.T) {
		_, err := ParsePrincipalID(strings.Repeat("a", maxIDLen+1))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts provider-issued ids", func(t *testing.T) {
		id, err := ParsePrincipalID("auth0|63f1c9")
		require.NoError(t, err)
		assert.Equal(t, PrincipalID("auth0|63f1c9"), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	principalID := PrincipalID("p-1")
	companyID := CompanyID("c-1")

	// These would fail to compile if types were interchangeable:
	// var _ PrincipalID = companyID   // compile error
	// var _ CompanyID = principalID   // compile error

	assert.NotEqual(t, principalID.String(), companyID.String())
}

// FuzzParseMessageID tests that parsing never panics on arbitrary input
// and always returns either a valid ID or an error.
func FuzzParseMessageID(f *testing.F) {
	f.Add("")
	f.Add("msg-42")
	f.Add("'; DROP TABLE messages;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add(strings.Repeat("x", 200))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseMessageID(input)
		if err != nil {
			return
		}
		roundTrip, err2 := ParseMessageID(id.String())
		if err2 != nil {
			t.Errorf("valid ID failed round-trip: %v", err2)
		}
		if roundTrip != id {
			t.Error("round-trip changed ID value")
		}
	})
}
