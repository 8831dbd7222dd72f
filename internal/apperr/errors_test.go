package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(Validation("bad volume")))
	assert.Equal(t, http.StatusUnauthorized, Status(Unauthorized("no token")))
	assert.Equal(t, http.StatusForbidden, Status(Forbidden("wrong branch")))
	assert.Equal(t, http.StatusNotFound, Status(NotFound("no such truck")))
	assert.Equal(t, http.StatusConflict, Status(Conflict("duplicate")))
	assert.Equal(t, http.StatusBadRequest, Status(BusinessRule("capacity exceeded")))
	assert.Equal(t, http.StatusInternalServerError, Status(Persistence("connection lost")))
}

func TestStatusOfUntypedError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := BusinessRule("truck is full")
	wrapped := fmt.Errorf("assign: %w", err)

	assert.True(t, Is(wrapped, ErrBusinessRule))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "truck 4 not found", NotFound("truck 4 not found").Error())
	assert.Equal(t, "not found", (&Error{Kind: ErrNotFound}).Error())
}
