package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFirebaseRequiresCredentials(t *testing.T) {
	_, err := InitFirebase(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = InitFirebase(context.Background(), "/does/not/exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIdentityFromClaims(t *testing.T) {
	id := identityFromClaims("uid-1", map[string]interface{}{"email": "ada@example.com", "name": "Ada Lovelace"})
	assert.Equal(t, &Identity{UID: "uid-1", Email: "ada@example.com", Name: "Ada Lovelace"}, id)

	bare := identityFromClaims("uid-2", map[string]interface{}{"email": 42})
	assert.Equal(t, &Identity{UID: "uid-2"}, bare)
}
