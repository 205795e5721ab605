package ids_test

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendor-admin-api/pkg/ids"
)

func TestNew_ULIDValidoYCreciente(t *testing.T) {
	prev := ids.New()
	_, err := ulid.ParseStrict(prev)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		next := ids.New()
		assert.Len(t, next, 26)
		assert.Greater(t, next, prev, "monotónico dentro del mismo milisegundo")
		prev = next
	}
}
