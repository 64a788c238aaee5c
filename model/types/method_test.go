package types

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct{ Msg string }

func TestSignatures_Lookup(t *testing.T) {
	sigs := Signatures{
		{Name: "a", Input: reflect.TypeOf(&sample{}), Output: reflect.TypeOf(sample{})},
		{Name: "b"},
	}
	sig := sigs.Lookup("a")
	if !assert.NotNil(t, sig) {
		return
	}
	assert.IsType(t, &sample{}, sig.NewInput())
	assert.IsType(t, &sample{}, sig.NewOutput())
	assert.Nil(t, sigs.Lookup("b").NewInput())
	assert.Nil(t, sigs.Lookup("c"))
}
