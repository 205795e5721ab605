package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendor-admin-api/pkg/password"
)

// Parámetros baratos para que los tests no tarden.
func cheapHasher() *password.Hasher {
	return password.NewHasher(password.WithTime(1), password.WithMemory(1024), password.WithThreads(1))
}

func TestHashVerify_RoundTrip(t *testing.T) {
	h := cheapHasher()

	encoded, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify("pw123456", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_ContrasenaIncorrecta_FalseSinError(t *testing.T) {
	h := cheapHasher()
	encoded, err := h.Hash("pw123456")
	require.NoError(t, err)

	ok, err := h.Verify("otra-clave", encoded)
	require.NoError(t, err, "un mismatch no es un error")
	assert.False(t, ok)
}

func TestHash_SalDistintaCadaVez(t *testing.T) {
	h := cheapHasher()
	a, err := h.Hash("pw123456")
	require.NoError(t, err)
	b, err := h.Hash("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHash_ContrasenaVacia(t *testing.T) {
	_, err := cheapHasher().Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)
}

func TestVerify_HashMalformado(t *testing.T) {
	h := cheapHasher()
	cases := map[string]string{
		"vacío":            "",
		"texto plano":      "pw123456",
		"partes faltantes": "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA",
		"versión":          "$argon2id$v=16$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"parámetros":       "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"hilos en cero":    "$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHQ$aGFzaGhhc2g",
		"sal inválida":     "$argon2id$v=19$m=1024,t=1,p=1$***$aGFzaGhhc2g",
		"algoritmo":        "$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("pw123456", encoded)
			assert.False(t, ok)
			assert.ErrorIs(t, err, password.ErrMalformedHash)
		})
	}
}

func TestVerify_HashBcryptHeredado(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	h := cheapHasher()
	ok, err := h.Verify("pw123456", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("incorrecta", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("pw123456", "$2a$10$corto")
	assert.ErrorIs(t, err, password.ErrMalformedHash)
}
