package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ab@x.com", "a*@x.com"},
		{"a@x.com", "a*@x.com"},
		{"abcdef@x.com", "a***f@x.com"},
		{"jane@example.com", "j***e@example.com"},
		{"not-an-email", "Hidden"},
		{"two@at@signs", "Hidden"},
		{"", "Hidden"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskEmail(c.in), "MaskEmail(%q)", c.in)
	}
}

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+27 79 658 6452", "••••6452"},
		{"0791234567", "••••4567"},
		{"123", "••••123"},
		{"no digits here", "Hidden"},
		{"", "Hidden"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskPhone(c.in), "MaskPhone(%q)", c.in)
	}
}

func TestMaskContact(t *testing.T) {
	assert.Equal(t, "j***e@example.com", MaskContact("jane@example.com"))
	assert.Equal(t, "••••6452", MaskContact("+27 79 658 6452"))
	assert.Equal(t, "Hidden", MaskContact(""))
}
