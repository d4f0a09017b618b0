package subject

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
)

func TestRepo_GetByID(t *testing.T) {
	born := time.Date(2024, 1, 10, 4, 0, 0, 0, time.UTC)
	weight, unit := 3.4, "kg"

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, s domain.Subject)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM subjects WHERE id = \$1`).
					WithArgs("s1").
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow("s1", "Ada", born, &weight, &unit, (*float64)(nil), (*string)(nil), born))
			},
			check: func(t *testing.T, s domain.Subject) {
				assert.Equal(t, "Ada", s.Name)
				assert.Equal(t, born, s.BirthDate)
				require.NotNil(t, s.BirthDetails())
				assert.Equal(t, "kg", s.BirthDetails().WeightUnit)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM subjects`).WithArgs("s1").WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			got, err := New(mock).GetByID(context.Background(), "s1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
