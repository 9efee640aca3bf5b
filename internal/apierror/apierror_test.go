package apierror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(apierror.Validation("empty cart")))
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(apierror.NotFound("no such product")))
	assert.Equal(t, apierror.KindInsufficientStock, apierror.KindOf(apierror.InsufficientStock("out of stock")))
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(apierror.Conflict("duplicate item code")))

	// Anything unrecognized is treated as a persistence failure.
	assert.Equal(t, apierror.KindPersistence, apierror.KindOf(errors.New("boom")))
	assert.Equal(t, apierror.KindPersistence, apierror.KindOf(nil))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apierror.Status(apierror.Validation("bad")))
	assert.Equal(t, http.StatusNotFound, apierror.Status(apierror.NotFound("missing")))
	assert.Equal(t, http.StatusConflict, apierror.Status(apierror.InsufficientStock("short")))
	assert.Equal(t, http.StatusConflict, apierror.Status(apierror.Conflict("dup")))
	assert.Equal(t, http.StatusInternalServerError, apierror.Status(errors.New("boom")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apierror.Persistence(cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "unexpected storage error")
}

func TestMessageFormatting(t *testing.T) {
	err := apierror.InsufficientStock("insufficient stock for %s: requested %d, available %d", "Cement 50kg", 5, 3)
	assert.EqualError(t, err, "insufficient stock for Cement 50kg: requested 5, available 3")
}
