package valueparser_test

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaTgWebhook/valueparser"
)

type mode uint8

var errUnknownMode = errors.New("unknown mode")

func (m *mode) Unmarshal(data string) error {
	switch data {
	case "fast":
		*m = 1
	case "slow":
		*m = 2
	default:
		return errUnknownMode
	}

	return nil
}

func TestParseValue_Scalars(t *testing.T) {
	i32, err := valueparser.ParseValue[int32]("-50")
	require.Nil(t, err)
	assert.Equal(t, int32(-50), i32)

	u16, err := valueparser.ParseValue[uint16]("8443")
	require.Nil(t, err)
	assert.Equal(t, uint16(8443), u16)

	f, err := valueparser.ParseValue[float64]("2.5")
	require.Nil(t, err)
	assert.InDelta(t, 2.5, f, 0.0001)

	b, err := valueparser.ParseValue[bool]("true")
	require.Nil(t, err)
	assert.True(t, b)

	raw, err := valueparser.ParseValue[[]byte]("abc")
	require.Nil(t, err)
	assert.Equal(t, []byte("abc"), raw)
}

func TestParseValue_Overflow(t *testing.T) {
	_, err := valueparser.ParseValue[int8]("300")

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code())
	assert.ErrorIs(t, err, valueparser.ErrUnparsableValue)
}

func TestParseValue_CustomUnmarshalFirst(t *testing.T) {
	m, err := valueparser.ParseValue[mode]("slow")
	require.Nil(t, err)
	assert.Equal(t, mode(2), m)

	m, err = valueparser.ParseValue[mode]("7")
	require.Nil(t, err)
	assert.Equal(t, mode(7), m)
}

func TestParseInto_Unsupported(t *testing.T) {
	_, err := valueparser.ParseInto("x", reflect.TypeFor[map[string]int]())

	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Code())
	assert.ErrorIs(t, err, valueparser.ErrUnsupportedType)
}

func TestSupports(t *testing.T) {
	assert.True(t, valueparser.Supports(reflect.TypeFor[int64]()))
	assert.True(t, valueparser.Supports(reflect.TypeFor[mode]()))
	assert.True(t, valueparser.Supports(reflect.TypeFor[[]byte]()))
	assert.False(t, valueparser.Supports(reflect.TypeFor[[]int]()))
	assert.False(t, valueparser.Supports(reflect.TypeFor[struct{}]()))
}

func TestParseArray(t *testing.T) {
	got, err := valueparser.ParseArray[int]("1, 2,3", nil)
	require.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	sep := "|"
	words, err := valueparser.ParseArray[string]("a|b", &sep)
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, words)

	empty, err := valueparser.ParseArray[int]("", nil)
	require.Nil(t, err)
	assert.Empty(t, empty)

	_, err = valueparser.ParseArray[int]("1,x", nil)
	assert.ErrorIs(t, err, valueparser.ErrUnparsableValue)
}
