package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePermissions(t *testing.T) {
	set := ParsePermissions([]string{"ORDER_BAR_VIEW", "PRODUCT_VIEW"})

	assert.True(t, set.Has(PermOrderBarView))
	assert.True(t, set.Has(PermProductView))
	assert.False(t, set.Has(PermOrderDiningView))
}

func TestHasAny(t *testing.T) {
	set := NewPermissions(PermOrderDiningView)

	assert.True(t, set.HasAny(PermOrderBarView, PermOrderDiningView))
	assert.False(t, set.HasAny(PermOrderBarView, PermProductView))
	assert.False(t, set.HasAny())
}

func TestEmptySet(t *testing.T) {
	set := NewPermissions()

	assert.False(t, set.Has(PermOrderBarView))
	assert.False(t, set.HasAny(PermOrderBarView, PermOrderDiningView))
}
