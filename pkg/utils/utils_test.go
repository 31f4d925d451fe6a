package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("S3cret", hash))
	assert.False(t, CheckPasswordHash("s3cret", "not-a-hash"))
}

func TestJWT(t *testing.T) {
	secret := []byte("secret")

	token, issued, err := GenerateJWT(secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, TeacherRole, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)

	_, err = ValidateJWT([]byte("other"), token)
	assert.Error(t, err)

	expired, _, err := GenerateJWT(secret, -time.Second)
	require.NoError(t, err)
	_, err = ValidateJWT(secret, expired)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	def := time.Date(2024, 5, 6, 18, 30, 0, 0, time.UTC)

	d, err := ParseDate("", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate(" 2024-02-29 ", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"2023-02-29", "29/02/2024", "yesterday"} {
		_, err := ParseDate(bad, def)
		assert.Error(t, err, bad)
	}
}

func TestDayKeepsCalendarDate(t *testing.T) {
	local := time.FixedZone("UTC-5", -5*60*60)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Day(time.Date(2024, 3, 1, 23, 10, 0, 0, local)))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 66.7, Round1(200.0/3))
	assert.Equal(t, 80.0, Round1(80))
	assert.Equal(t, 0.0, Round1(0.04))
}
