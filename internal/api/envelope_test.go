package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapListShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":1},{"id":2}]`},
		{"data envelope", `{"data":[{"id":1},{"id":2}]}`},
		{"collection alias", `{"bookings":[{"id":1},{"id":2}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := unwrapList([]byte(tc.body), "bookings")
			require.NoError(t, err)

			var items []struct {
				ID int `json:"id"`
			}
			require.NoError(t, json.Unmarshal(raw, &items))
			require.Len(t, items, 2)
			assert.Equal(t, 1, items[0].ID)
			assert.Equal(t, 2, items[1].ID)
		})
	}
}

func TestUnwrapListNullIsEmptyList(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare null", `null`},
		{"null under alias", `{"bookings":null}`},
		{"null under data", `{"data":null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := unwrapList([]byte(tc.body), "bookings")
			require.NoError(t, err)

			var items []struct{}
			require.NoError(t, json.Unmarshal(raw, &items))
			assert.Empty(t, items)
		})
	}
}

func TestUnwrapListRejectsUnknownShape(t *testing.T) {
	_, err := unwrapList([]byte(`{"stuff":[1,2]}`), "bookings")
	assert.Error(t, err)

	_, err = unwrapList([]byte(`"not json structure"`), "bookings")
	assert.Error(t, err)

	// A matching key whose value is not an array is still a shape error.
	_, err = unwrapList([]byte(`{"bookings":{"id":1}}`), "bookings")
	assert.Error(t, err)
}

func TestUnwrapObject(t *testing.T) {
	plain, err := unwrapObject([]byte(`{"id":7,"status":"accepted"}`))
	require.NoError(t, err)

	enveloped, err := unwrapObject([]byte(`{"data":{"id":7,"status":"accepted"}}`))
	require.NoError(t, err)

	var a, b struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(plain, &a))
	require.NoError(t, json.Unmarshal(enveloped, &b))
	assert.Equal(t, a, b)
}

func TestUnwrapObjectNonObjectData(t *testing.T) {
	// {"data": 5} is not an object envelope; the outer body wins.
	raw, err := unwrapObject([]byte(`{"data":5,"id":9}`))
	require.NoError(t, err)

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 9, out.ID)
}
