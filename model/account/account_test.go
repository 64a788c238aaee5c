package account

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	var testCases = []struct {
		description string
		id          string
		valid       bool
	}{
		{description: "simple", id: "alice", valid: true},
		{description: "sub account", id: "nft.alice.near", valid: true},
		{description: "separators", id: "a-b_c.d", valid: true},
		{description: "two chars", id: "ab", valid: true},
		{description: "too short", id: "a"},
		{description: "empty", id: ""},
		{description: "upper case", id: "Alice"},
		{description: "leading dot", id: ".alice"},
		{description: "trailing separator", id: "alice-"},
		{description: "double separator", id: "al--ice"},
		{description: "dot dash", id: "al.-ice"},
		{description: "space", id: "al ice"},
		{description: "too long", id: "a123456789012345678901234567890123456789012345678901234567890123x"},
	}

	for _, testCase := range testCases {
		err := Validate(testCase.id)
		if testCase.valid {
			assert.Nil(t, err, testCase.description)
			continue
		}
		assert.True(t, errors.Is(err, ErrInvalid), testCase.description)
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("token.near")
	assert.Nil(t, err)
	assert.Equal(t, ID("token.near"), id)
	_, err = Parse("")
	assert.NotNil(t, err)
}
