package repositories

import (
	"context"
	"testing"
	"time"

	. "muster/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckinRepository_GetLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckin(db)
	ctx := context.Background()

	person := &Personnel{Name: "Jane Doe", IsActive: true}
	require.NoError(t, db.SQL.Create(person).Error)

	latest, err := repo.GetLatestByPersonnelID(ctx, person.ID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no prior event means nil")

	older := &CheckinEvent{PersonnelID: person.ID, CheckedInAt: time.Now().Add(-48 * time.Hour)}
	newer := &CheckinEvent{PersonnelID: person.ID, CheckedInAt: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, db.SQL.Create(older).Error)
	require.NoError(t, db.SQL.Create(newer).Error)

	latest, err = repo.GetLatestByPersonnelID(ctx, person.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestCheckinRepository_CreateAssignsTimestamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckin(db)
	ctx := context.Background()

	person := &Personnel{Name: "Jane Doe", IsActive: true}
	require.NoError(t, db.SQL.Create(person).Error)

	before := time.Now().Add(-time.Second)
	event := &CheckinEvent{PersonnelID: person.ID}
	require.NoError(t, repo.Create(ctx, event))
	after := time.Now().Add(time.Second)

	assert.NotZero(t, event.ID)
	assert.True(t, event.CheckedInAt.After(before) && event.CheckedInAt.Before(after),
		"timestamp is assigned at write time")
}

func TestCheckinRepository_ListJoinsPersonnel(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckin(db)
	ctx := context.Background()

	person := &Personnel{
		Name:      "ignored",
		FirstName: stringPtr("Jane"),
		LastName:  stringPtr("Doe"),
		Rank:      stringPtr("OR5"),
		IsActive:  true,
	}
	require.NoError(t, db.SQL.Create(person).Error)
	require.NoError(t, repo.Create(ctx, &CheckinEvent{PersonnelID: person.ID}))

	rows, err := repo.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Name)
	assert.Equal(t, "OR5", rows[0].Rank)
}

func TestCheckinRepository_ListDayBoundaries(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckin(db)
	ctx := context.Background()

	person := &Personnel{Name: "Jane Doe", IsActive: true}
	require.NoError(t, db.SQL.Create(person).Error)

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	timestamps := []time.Time{
		day.Add(-time.Second),               // day before
		day,                                 // midnight, inclusive
		day.Add(12 * time.Hour),             // midday
		day.Add(24*time.Hour - time.Second), // 23:59:59, inclusive
		day.Add(24 * time.Hour),             // next midnight, excluded
	}
	for _, ts := range timestamps {
		require.NoError(t, db.SQL.Create(&CheckinEvent{PersonnelID: person.ID, CheckedInAt: ts}).Error)
	}

	rows, err := repo.ListDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i := 1; i < len(rows); i++ {
		assert.True(t, !rows[i].CheckedInAt.Before(rows[i-1].CheckedInAt),
			"day export is ordered ascending")
	}
}

func TestCheckinRepository_ListRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckin(db)
	ctx := context.Background()

	person := &Personnel{Name: "Jane Doe", IsActive: true}
	require.NoError(t, db.SQL.Create(person).Error)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.Local)
	for day := 0; day < 5; day++ {
		event := &CheckinEvent{PersonnelID: person.ID, CheckedInAt: base.AddDate(0, 0, day)}
		require.NoError(t, db.SQL.Create(event).Error)
	}

	from := time.Date(2026, 1, 11, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 1, 12, 23, 59, 59, 0, time.Local)

	rows, err := repo.List(ctx, &from, &to)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Open-ended lower bound.
	rows, err = repo.List(ctx, &from, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	// Newest first.
	for i := 1; i < len(rows); i++ {
		assert.True(t, !rows[i-1].CheckedInAt.Before(rows[i].CheckedInAt))
	}
}
