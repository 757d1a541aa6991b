package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAuthorizer struct{}

func (nopAuthorizer) Authorize(context.Context, Charge) (*Receipt, error) {
	return &Receipt{}, nil
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register("CreditCard", nopAuthorizer{})

	a, err := r.Resolve("CreditCard")
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("Bitcoin")

	var unsupported *UnsupportedMethodError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Bitcoin", unsupported.Method)
	assert.Contains(t, err.Error(), "Bitcoin")
}
