package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hashed, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hashed)
	assert.True(t, strings.HasPrefix(hashed, "$2a$"))
	assert.True(t, CheckPasswordHash("pw1", hashed))
	assert.False(t, CheckPasswordHash("pw2", hashed))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestCheckPasswordHash_EmptyOrMalformedHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("", ""))
	assert.False(t, CheckPasswordHash("pw", "not-a-bcrypt-hash"))
}

func TestHashIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.5", "440a628a0c975ea32d4db42ca94acebc975ab378b3ee2a692ccf2ecae6038bbd"},
		{"1.2.3.4", "6694f83c9f476da31f5df6bcc520034e7e57d421d247b9d34f49edbfc84a764c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := HashIdentifier(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, tt.in)
		})
	}
}
