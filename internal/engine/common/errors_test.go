package common

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := E(KindNotFound, "event not found")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindTransient, cause, "push event")

	assert.Equal(t, KindTransient, KindOf(err))
	assert.Contains(t, err.Error(), "push event")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOf_StdWrapped(t *testing.T) {
	inner := E(KindAuthScope, "insufficient calendar scope")
	outer := fmt.Errorf("sync aborted: %w", inner)

	assert.Equal(t, KindAuthScope, KindOf(outer))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(KindTransient, nil, "nothing"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "auth_scope", KindAuthScope.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
