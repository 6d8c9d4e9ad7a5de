package value

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type label string

func TestString(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"bytes", []byte("xy"), "xy"},
		{"int", 42, "42"},
		{"uint8", uint8(7), "7"},
		{"float", 100000.5, "100000.5"},
		{"float whole", 3.0, "3"},
		{"float32", float32(1.5), "1.5"},
		{"bool", true, "true"},
		{"named string", label("tag"), "tag"},
		{"error", errors.New("boom"), "boom"},
		{"stringer", 1500 * time.Millisecond, "1.5s"},
		{"nil pointer", (*int)(nil), ""},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, String(tc.input))
		})
	}
}

func TestFloat(t *testing.T) {
	f, ok := Float(int32(5))
	assert.True(t, ok)
	assert.Equal(t, 5.0, f)

	f, ok = Float(json.Number("2.25"))
	assert.True(t, ok)
	assert.Equal(t, 2.25, f)

	_, ok = Float("5")
	assert.False(t, ok)
	_, ok = Float(true)
	assert.False(t, ok)
	_, ok = Float(nil)
	assert.False(t, ok)
}

func TestIntegerString(t *testing.T) {
	testCases := []struct {
		input    any
		expected string
		ok       bool
	}{
		{12, "12", true},
		{uint64(18446744073709551615), "18446744073709551615", true},
		{9.99, "9", true},
		{-0.5, "0", true},
		{json.Number("3.7"), "3", true},
		{"3", "", false},
		{nil, "", false},
	}

	for _, tc := range testCases {
		got, ok := IntegerString(tc.input)
		assert.Equal(t, tc.ok, ok, "input %v", tc.input)
		assert.Equal(t, tc.expected, got, "input %v", tc.input)
	}
}

func TestLen(t *testing.T) {
	n, ok := Len([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = Len(&[3]int{})
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = Len(3.5)
	assert.False(t, ok)
	_, ok = Len(nil)
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, 0, 0.0, uint(0), "", []int{}, map[string]any{}, (*int)(nil), json.Number("0"), label("")}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "expected %#v to be falsy", v)
	}

	truthy := []any{true, 1, -1, 0.1, "0", " ", []int{0}, map[string]any{"a": nil}, json.Number("0.5"), struct{ A int }{}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "expected %#v to be truthy", v)
	}
}
