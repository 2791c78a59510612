package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anomanderiz/wdh-character-vault/internal/uuid"
)

func TestGoogleUUIDGenerator(t *testing.T) {
	gen := uuid.NewGoogleUUIDGenerator()

	t.Run("new ids are random", func(t *testing.T) {
		a, b := gen.New(), gen.New()
		assert.NotEqual(t, a, b)
		_, err := googleuuid.Parse(a)
		require.NoError(t, err)
	})

	t.Run("content ids are stable", func(t *testing.T) {
		a := gen.FromContent([]byte(`{"name":"Vex"}`))
		b := gen.FromContent([]byte(`{"name":"Vex"}`))
		c := gen.FromContent([]byte(`{"name":"Kit"}`))

		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)

		parsed, err := googleuuid.Parse(a)
		require.NoError(t, err)
		assert.Equal(t, googleuuid.Version(5), parsed.Version())
	})
}
