// Package password hashea y verifica contraseñas de administradores.
//
// Los hashes nuevos usan Argon2id en formato PHC
// ($argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>), con la sal embebida en la
// propia cadena. Los hashes bcrypt ($2a$, $2b$, $2y$) se siguen aceptando en
// la verificación para cuentas creadas antes de la migración a Argon2id.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Parámetros por defecto de Argon2id.
const (
	DefaultTime    = 3
	DefaultMemory  = 64 * 1024 // KiB
	DefaultThreads = 2
	DefaultSaltLen = 16
	DefaultKeyLen  = 32
)

var (
	// ErrMalformedHash el hash almacenado no se puede interpretar.
	ErrMalformedHash = errors.New("password: hash con formato inválido")
	// ErrEmptyPassword no se hashean contraseñas vacías.
	ErrEmptyPassword = errors.New("password: contraseña vacía")
)

// Hasher calcula y verifica hashes Argon2id con parámetros fijos.
// Es inmutable y seguro para uso concurrente.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// Option ajusta los parámetros del Hasher.
type Option func(*Hasher)

// WithTime fija el número de iteraciones.
func WithTime(t uint32) Option {
	return func(h *Hasher) {
		if t > 0 {
			h.time = t
		}
	}
}

// WithMemory fija la memoria en KiB.
func WithMemory(m uint32) Option {
	return func(h *Hasher) {
		if m > 0 {
			h.memory = m
		}
	}
}

// WithThreads fija el paralelismo.
func WithThreads(p uint8) Option {
	return func(h *Hasher) {
		if p > 0 {
			h.threads = p
		}
	}
}

// NewHasher construye un Hasher con los parámetros por defecto más las opciones.
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{
		time:    DefaultTime,
		memory:  DefaultMemory,
		threads: DefaultThreads,
		saltLen: DefaultSaltLen,
		keyLen:  DefaultKeyLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash devuelve el hash PHC de la contraseña. Solo falla si no hay entropía disponible.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generar sal: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify compara la contraseña con el hash almacenado.
// Una contraseña incorrecta devuelve (false, nil); un hash ilegible devuelve ErrMalformedHash.
func (h *Hasher) Verify(plain, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		return verifyBcrypt(plain, encoded)
	}
	return verifyArgon2id(plain, encoded)
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func verifyBcrypt(plain, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func verifyArgon2id(plain, encoded string) (bool, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, fmt.Errorf("%w: versión %q", ErrMalformedHash, parts[2])
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: parámetros: %v", ErrMalformedHash, err)
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return false, fmt.Errorf("%w: parámetros en cero", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, fmt.Errorf("%w: sal", ErrMalformedHash)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false, fmt.Errorf("%w: hash", ErrMalformedHash)
	}

	computed := argon2.IDKey([]byte(plain), salt, iterations, memory, threads, uint32(len(expected))) // #nosec G115
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
