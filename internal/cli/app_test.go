package cli

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Money struct{}

func TestModelsRegisterTypes(t *testing.T) {
	m := NewModels(&Order{}, &Customer{})
	m.RegisterTypes(Money{})

	assert.True(t, m.Types.Has(reflect.TypeOf(Money{})))
	assert.True(t, m.Types.Has(reflect.TypeOf(Order{})))
	assert.ElementsMatch(t, []string{"Customer", "Order"}, m.Container.ShortNames())

	_, err := m.Container.Make(reflect.TypeOf(Money{}).PkgPath() + ".Money")
	require.Error(t, err)
}
