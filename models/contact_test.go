package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "jane.doe"},
		{"a@b@c", "a"},
		{"no-at-sign", "no-at-sign"},
		{"@example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.email), tt.email)
	}
}

func TestNewContact(t *testing.T) {
	c := NewContact("jane.doe@example.com", "camp-1")
	assert.Equal(t, Contact{Name: "jane.doe", Email: "jane.doe@example.com", ListID: "camp-1"}, c)
}
