package cryptsy

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultAccessors(t *testing.T) {
	result := NewResult(json.RawMessage(`{"address":"abc","count":"3","amount":1.25,"list":[{"id":7}]}`))

	s, err := result.String("address")
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	n, err := result.Int("count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	d, err := result.Decimal("amount")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1.25")))

	id, err := result.Int("list", "[0]", "id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = result.String("list")
	assert.Error(t, err)

	_, err = result.String("missing")
	assert.Error(t, err)
}

func TestResultNull(t *testing.T) {
	result := NewResult(nullPayload)
	assert.True(t, result.IsNull())

	var v []string
	require.NoError(t, result.Decode(&v))
	assert.Nil(t, v)
}

func TestExtractPayloadKeepsStringEscapes(t *testing.T) {
	payload, err := extractPayload([]byte(`{"success":1,"return":"say \"hi\""}`))
	require.NoError(t, err)

	var s string
	require.NoError(t, json.Unmarshal(payload, &s))
	assert.Equal(t, `say "hi"`, s)
}

func TestExtractPayloadMissing(t *testing.T) {
	payload, err := extractPayload([]byte(`{"success":1,"orderid":"5"}`))
	require.NoError(t, err)
	assert.Equal(t, "null", string(payload))
}

func TestCheckEnvelope(t *testing.T) {
	assert.NoError(t, checkEnvelope([]byte(`{"success":1}`)))
	assert.NoError(t, checkEnvelope([]byte(`{"success":"1"}`)))
	assert.NoError(t, checkEnvelope([]byte(`{"success":true}`)))

	err := checkEnvelope([]byte(`{"success":0}`))
	require.Error(t, err)
	assert.Equal(t, unknownErrorMessage, err.(*ClientError).Message)

	assert.Error(t, checkEnvelope([]byte(`{"return":{}}`)))
	assert.Error(t, checkEnvelope([]byte(`not json`)))
}
