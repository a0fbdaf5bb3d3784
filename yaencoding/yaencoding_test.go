package yaencoding_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/yaencoding"
)

type sample struct {
	ID    int64             `msgpack:"id"`
	Name  string            `msgpack:"name"`
	Tags  []string          `msgpack:"tags"`
	Meta  map[string]string `msgpack:"meta"`
	Bytes []byte            `msgpack:"bytes"`
}

func TestMessagePack_RoundTrip(t *testing.T) {
	in := sample{
		ID:    7,
		Name:  "RZK",
		Tags:  []string{"a", "b", "c"},
		Meta:  map[string]string{"k1": "v1", "k2": "v2"},
		Bytes: []byte{0, 1, 2, 250, 251, 252},
	}

	raw, err := yaencoding.EncodeMessagePack(in)
	require.Nil(t, err)
	require.NotEmpty(t, raw)

	out, err := yaencoding.DecodeMessagePack[sample](raw)
	require.Nil(t, err)
	require.NotNil(t, out)

	assert.Equal(t, in, *out)
}

func TestMessagePack_DecodeInto(t *testing.T) {
	raw, err := yaencoding.EncodeMessagePack(sample{ID: 42})
	require.Nil(t, err)

	var out sample

	require.Nil(t, yaencoding.DecodeMessagePackInto(raw, &out))
	assert.Equal(t, int64(42), out.ID)
}

func TestMessagePack_Errors(t *testing.T) {
	t.Run("Invalid data", func(t *testing.T) {
		out, err := yaencoding.DecodeMessagePack[sample]([]byte{0xc1})
		assert.Nil(t, out)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusInternalServerError, err.Code())
	})

	t.Run("Empty payload", func(t *testing.T) {
		var out sample

		err := yaencoding.DecodeMessagePackInto(nil, &out)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "empty message pack payload")
	})

	t.Run("Unsupported value", func(t *testing.T) {
		raw, err := yaencoding.EncodeMessagePack(make(chan int))
		assert.Nil(t, raw)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "chan int")
	})
}
