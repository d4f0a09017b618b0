package milestone

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siron93/moms-app/internal/domain"
)

func TestRepo_GetAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	desc := "Says a real word"
	mock.ExpectQuery(`SELECT id, category, name, description, icon_url, sort_order FROM milestones ORDER BY category, sort_order, id`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("ms-word", "language", domain.FirstWordMilestone, &desc, (*string)(nil), 3).
			AddRow("ms-smile", "social", "First Smile", (*string)(nil), (*string)(nil), 1))

	defs, err := New(mock).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, domain.MilestoneDefinition{
		ID: "ms-word", Category: "language", Name: domain.FirstWordMilestone, Description: &desc, Order: 3,
	}, defs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO milestones .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("a", "motor", "Rolls Over", (*string)(nil), (*string)(nil), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = New(mock).Upsert(context.Background(), []domain.MilestoneDefinition{
		{ID: "a", Category: "motor", Name: "Rolls Over", Order: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, New(mock).Upsert(context.Background(), nil))
}
