package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	code, out := run(t, withTempConfig(t), "hash-password", "open-sesame")
	require.Equal(t, 0, code, out)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("open-sesame")))

	withStdin(t, "from-stdin\n")
	code, out = run(t, withTempConfig(t), "hash-password", "-")
	require.Equal(t, 0, code, out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-stdin")))
}
