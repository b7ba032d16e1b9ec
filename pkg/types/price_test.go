package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceEncodesAsNumber(t *testing.T) {
	payload := struct {
		Price Price `json:"price"`
	}{Price: NewPrice(10.5)}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"price":10.5}`, string(raw))
}

func TestPriceDecodesQuotedAndBare(t *testing.T) {
	var bare, quoted struct {
		Price Price `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.25}`), &bare))
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.25"}`), &quoted))
	require.True(t, bare.Price.Equal(quoted.Price.Decimal))
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 3.10 ")
	require.NoError(t, err)
	require.Equal(t, "3.1", p.String())

	neg, err := ParsePrice("-1")
	require.NoError(t, err)
	require.True(t, neg.IsNegative())

	_, err = ParsePrice("abc")
	require.Error(t, err)
	_, err = ParsePrice("")
	require.Error(t, err)
}

func TestFloatAcceptsQuotedNumbers(t *testing.T) {
	var payload struct {
		Lat Float `json:"latitude"`
		Lng Float `json:"longitude"`
		Opt Float `json:"rating"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":"30.0444000","longitude":31.2357,"rating":null}`), &payload))
	require.InDelta(t, 30.0444, payload.Lat.Float64(), 1e-9)
	require.InDelta(t, 31.2357, payload.Lng.Float64(), 1e-9)
	require.Zero(t, payload.Opt.Float64())
}
