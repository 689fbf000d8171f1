package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice_CommaGrouped(t *testing.T) {
	price, err := ParsePrice("3,999")

	require.NoError(t, err)
	require.Equal(t, int64(3999), price)
}

func TestParsePrice_Plain(t *testing.T) {
	price, err := ParsePrice("2500")

	require.NoError(t, err)
	require.Equal(t, int64(2500), price)
}

func TestParsePrice_Whitespace(t *testing.T) {
	price, err := ParsePrice(" 1 299 ")

	require.NoError(t, err)
	require.Equal(t, int64(1299), price)
}

func TestParsePrice_Empty_Failed(t *testing.T) {
	_, err := ParsePrice("")
	require.Error(t, err)

	_, err = ParsePrice(" , ")
	require.Error(t, err)
}

func TestParsePrice_Negative_Failed(t *testing.T) {
	_, err := ParsePrice("-500")

	require.Error(t, err)
}

func TestParsePrice_Garbage_Failed(t *testing.T) {
	_, err := ParsePrice("abc")

	require.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "3,999", FormatPrice(3999))
	require.Equal(t, "150", FormatPrice(150))
	require.Equal(t, "12,147", FormatPrice(12147))
	require.Equal(t, "1,000,000", FormatPrice(1000000))
	require.Equal(t, "0", FormatPrice(0))
}

func TestParsePrice_RoundTrip(t *testing.T) {
	for _, price := range []int64{0, 150, 3999, 12147, 999999} {
		parsed, err := ParsePrice(FormatPrice(price))

		require.NoError(t, err)
		require.Equal(t, price, parsed)
	}
}
