package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	values := []string{"0", "42.5", "1234.56", "-5000", "0.125"}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			d := decimal.RequireFromString(v)
			num, err := decimalToPgNumeric(d)
			require.NoError(t, err)
			assert.True(t, num.Valid)
			assert.True(t, pgNumericToDecimal(num).Equal(d))
		})
	}
}

func TestPgNumericToDecimal_NullIsZero(t *testing.T) {
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestTimeToPgDate_DropsClock(t *testing.T) {
	local := time.FixedZone("BRT", -3*3600)
	d := timeToPgDate(time.Date(2024, 3, 15, 22, 30, 0, 0, local))

	assert.True(t, d.Valid)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Time)
	assert.Equal(t, d.Time, pgDateToTime(d))
}

func TestPgDateToTime_Null(t *testing.T) {
	assert.True(t, pgDateToTime(pgtype.Date{}).IsZero())
}

func TestPersistenceError(t *testing.T) {
	assert.NoError(t, persistenceError("noop", nil))

	cause := errors.New("connection reset")
	err := persistenceError("insert expense", cause)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert expense")
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}

func TestClientArgs_NullSlotAndAreas(t *testing.T) {
	args := clientArgs(domain.Client{ID: "c1", Name: "Fazenda"})

	slot, ok := args[5].(pgtype.Text)
	require.True(t, ok)
	assert.False(t, slot.Valid)
	assert.Equal(t, []domain.Area{}, args[3])

	args = clientArgs(domain.Client{ID: "p1", Name: "Kaká", IsPartner: true, PartnerSlot: "kaka"})
	slot = args[5].(pgtype.Text)
	assert.True(t, slot.Valid)
	assert.Equal(t, "kaka", slot.String)
}

func TestServiceRecordArgs_Order(t *testing.T) {
	rec := domain.ServiceRecord{
		ID:         "s1",
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ClientID:   "c1",
		Hectares:   decimal.RequireFromString("10.5"),
		Type:       domain.ApplicationSpraying,
		UnitPrice:  decimal.NewFromInt(100),
		TotalValue: decimal.NewFromInt(1050),
		Closed:     true,
	}
	args := serviceRecordArgs(rec)

	require.Len(t, args, 11)
	assert.Equal(t, "s1", args[0])
	assert.Equal(t, "spraying", args[7])
	assert.True(t, pgNumericToDecimal(args[9].(pgtype.Numeric)).Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, true, args[10])
}
