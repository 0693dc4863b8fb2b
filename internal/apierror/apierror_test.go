package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("sale: %w", InsufficientStock("Rice 5kg", 3, 5))

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Rice 5kg")
}

func TestKindOf_UnclassifiedIsStore(t *testing.T) {
	assert.Equal(t, KindStore, KindOf(errors.New("connection reset")))
	assert.Equal(t, KindAlreadyDelivered, KindOf(AlreadyDelivered("delivery %d", 1)))
}

func TestStore_UnwrapsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Store(cause, "transaction failed")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "transaction failed: deadlock detected", err.Error())
}

func TestFromError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("missing required field: %s", "items"), http.StatusBadRequest},
		{NotFound("delivery not found"), http.StatusNotFound},
		{InsufficientStock("Soap", 0, 1), http.StatusConflict},
		{AlreadyDelivered("delivery is already marked as delivered"), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, env := FromError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, StatusError, env.Status)
	}
}

func TestFromError_StoreMessageIsGeneric(t *testing.T) {
	_, env := FromError(Store(errors.New("pq: password authentication failed"), "load item"))
	assert.Equal(t, "internal server error", env.Message)
}
