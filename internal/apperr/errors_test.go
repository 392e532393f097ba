package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = New(CodeConflict, "cart belongs to another restaurant")

func TestAsFindsWrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeNotFound, errors.New("no rows"), "order not found"))

	typed := As(err)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
	assert.Equal(t, "order not found", typed.Message())
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestIsMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("add: %w", errSentinel)
	assert.ErrorIs(t, err, errSentinel)
	assert.NotErrorIs(t, New(CodeConflict, "other"), errSentinel)
}

func TestMetadataFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("bogus")).HTTPStatus)
}

func TestDumpIncludesPgDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_external_id_key"}
	d := Dump(Wrap(CodeConflict, pgErr, "duplicate"))

	assert.Equal(t, "23505", d.PGCode)
	assert.Equal(t, "orders_external_id_key", d.PGConstraint)
	assert.Len(t, d.Chain, 2)
}
