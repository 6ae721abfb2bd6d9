package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSV_HeaderAndRows(t *testing.T) {
	body, err := renderCSV(
		[]string{"id", "name"},
		[][]string{{"1", "hanoi"}, {"2", "saigon"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,hanoi\n2,saigon\n", string(body))
}

func TestRenderCSV_QuotesFields(t *testing.T) {
	body, err := renderCSV(
		[]string{"id", "address"},
		[][]string{{"1", "12 Hang Bai, Hoan Kiem"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "id,address\n1,\"12 Hang Bai, Hoan Kiem\"\n", string(body))
}

func TestRenderCSV_NullsAreEmpty(t *testing.T) {
	body, err := renderCSV(
		[]string{"id", "modifiedDate"},
		[][]string{{"1", ""}},
	)
	require.NoError(t, err)
	assert.Equal(t, "id,modifiedDate\n1,\n", string(body))
}

func TestValidIdent(t *testing.T) {
	assert.True(t, validIdent("location"))
	assert.True(t, validIdent("customer_v2"))
	assert.False(t, validIdent(""))
	assert.False(t, validIdent("2fast"))
	assert.False(t, validIdent("loc;drop table"))
	assert.False(t, validIdent("loc ation"))
}
