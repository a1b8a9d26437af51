package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-location-api/internal/domain/entity"
)

func squash(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func TestInsertRentalMark_CoincideConIndiceParcial(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/00001_init.sql")
	require.NoError(t, err)
	migration := squash(string(raw))

	index := "CREATE UNIQUE INDEX IF NOT EXISTS uq_stock_movements_rental_mark ON stock_movements " +
		rentalMarkColumns + " WHERE " + rentalMarkPredicate + ";"
	assert.Contains(t, migration, index, "el índice de la migración debe usar las mismas columnas y predicado")

	insert := squash(insertRentalMarkSQL)
	assert.Contains(t, insert, "ON CONFLICT "+rentalMarkColumns+" WHERE "+rentalMarkPredicate+" DO NOTHING RETURNING id")
	assert.Equal(t, 8, strings.Count(insert, "$"), "un parámetro por columna")
}

func TestRentalMarkPredicate_RazonesDelDominio(t *testing.T) {
	assert.Contains(t, rentalMarkPredicate, "'"+entity.ReasonRentalStart+"'")
	assert.Contains(t, rentalMarkPredicate, "'"+entity.ReasonRentalReturn+"'")
}
