package personnelController

import (
	"context"
	"testing"

	"muster/internal/database"
	. "muster/internal/models"
	"muster/internal/repositories"
	"muster/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// scriptedGenerator returns queued tokens in order, so collision paths are
// reproducible.
type scriptedGenerator struct {
	tokens []string
}

func (g *scriptedGenerator) Generate() (string, error) {
	token := g.tokens[0]
	if len(g.tokens) > 1 {
		g.tokens = g.tokens[1:]
	}
	return token, nil
}

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	sql, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, sql.AutoMigrate(&Personnel{}, &CheckinEvent{}, &Admin{}))

	return database.DB{SQL: sql}
}

func newController(t *testing.T, generator services.TokenGenerator) (*PersonnelController, database.DB) {
	t.Helper()

	db := newTestDB(t)
	controller := New(
		repositories.NewPersonnel(db),
		services.NewTransactionService(db),
		generator,
	)

	return controller, db
}

const baseURL = "http://muster.local"

func TestCreate_AutoIssuesToken(t *testing.T) {
	controller, db := newController(t, &scriptedGenerator{tokens: []string{"aabbccdd11223344"}})
	ctx := context.Background()

	personnel, grant, err := controller.Create(ctx, CreatePersonnelRequest{
		Name: "Jane Doe",
		Rank: "OR5",
	}, baseURL)
	require.NoError(t, err)
	require.NotNil(t, grant)

	assert.Equal(t, "aabbccdd11223344", grant.Token)
	assert.Equal(t, baseURL+"/register.html?token=aabbccdd11223344", grant.RegisterURL)

	var stored Personnel
	require.NoError(t, db.SQL.First(&stored, "id = ?", personnel.ID).Error)
	assert.Equal(t, "Jane Doe", stored.Name)
	require.NotNil(t, stored.FirstName)
	assert.Equal(t, "Jane", *stored.FirstName)
	require.NotNil(t, stored.LastName)
	assert.Equal(t, "Doe", *stored.LastName)
	require.NotNil(t, stored.Rank)
	assert.Equal(t, "OR5", *stored.Rank)
	require.NotNil(t, stored.DeviceToken)
	assert.Equal(t, "aabbccdd11223344", *stored.DeviceToken)
	assert.True(t, stored.IsActive)
}

func TestCreate_WithSuppliedToken(t *testing.T) {
	controller, _ := newController(t, &scriptedGenerator{tokens: []string{"unused"}})
	ctx := context.Background()

	personnel, grant, err := controller.Create(ctx, CreatePersonnelRequest{
		Name:        "Jane Doe",
		DeviceToken: "1122334455667788",
	}, baseURL)
	require.NoError(t, err)
	assert.Nil(t, grant, "no grant when the admin supplied a token")
	require.NotNil(t, personnel.DeviceToken)
	assert.Equal(t, "1122334455667788", *personnel.DeviceToken)
}

func TestCreate_DuplicateSuppliedToken(t *testing.T) {
	controller, _ := newController(t, &scriptedGenerator{tokens: []string{"unused"}})
	ctx := context.Background()

	_, _, err := controller.Create(ctx, CreatePersonnelRequest{
		Name:        "Jane Doe",
		DeviceToken: "1122334455667788",
	}, baseURL)
	require.NoError(t, err)

	_, _, err = controller.Create(ctx, CreatePersonnelRequest{
		Name:        "John Smith",
		DeviceToken: "1122334455667788",
	}, baseURL)
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestCreate_NameSplitting(t *testing.T) {
	tests := []struct {
		name      string
		request   CreatePersonnelRequest
		wantFirst string
		wantLast  string
	}{
		{
			name:      "explicit first and last",
			request:   CreatePersonnelRequest{FirstName: "Jane", LastName: "Doe"},
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "single name field",
			request:   CreatePersonnelRequest{Name: "Jane Doe"},
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "multi-part last name",
			request:   CreatePersonnelRequest{Name: "Jane van der Berg"},
			wantFirst: "Jane",
			wantLast:  "van der Berg",
		},
		{
			name:      "first only",
			request:   CreatePersonnelRequest{Name: "Jane"},
			wantFirst: "Jane",
			wantLast:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitName(tt.request)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestIssueToken_RotatesExisting(t *testing.T) {
	controller, db := newController(t, &scriptedGenerator{tokens: []string{"aaaa000000000001", "aaaa000000000002"}})
	ctx := context.Background()

	personnel, grant, err := controller.Create(ctx, CreatePersonnelRequest{Name: "Jane Doe"}, baseURL)
	require.NoError(t, err)
	assert.Equal(t, "aaaa000000000001", grant.Token)

	grant, err = controller.IssueToken(ctx, personnel.ID, baseURL)
	require.NoError(t, err)
	assert.Equal(t, "aaaa000000000002", grant.Token)

	var stored Personnel
	require.NoError(t, db.SQL.First(&stored, "id = ?", personnel.ID).Error)
	require.NotNil(t, stored.DeviceToken)
	assert.Equal(t, "aaaa000000000002", *stored.DeviceToken)
}

func TestIssueToken_Collision(t *testing.T) {
	controller, _ := newController(t, &scriptedGenerator{tokens: []string{"aaaa000000000001", "aaaa000000000001", "bbbb000000000002"}})
	ctx := context.Background()

	_, _, err := controller.Create(ctx, CreatePersonnelRequest{Name: "Jane Doe"}, baseURL)
	require.NoError(t, err)

	second, _, err := controller.Create(ctx, CreatePersonnelRequest{
		Name:        "John Smith",
		DeviceToken: "cccc000000000003",
	}, baseURL)
	require.NoError(t, err)

	// The generator repeats Jane's token: transient collision, retry wins.
	_, err = controller.IssueToken(ctx, second.ID, baseURL)
	assert.ErrorIs(t, err, ErrTokenCollision)

	grant, err := controller.IssueToken(ctx, second.ID, baseURL)
	require.NoError(t, err)
	assert.Equal(t, "bbbb000000000002", grant.Token)
}

func TestIssueToken_UnknownPersonnel(t *testing.T) {
	controller, _ := newController(t, &scriptedGenerator{tokens: []string{"aaaa000000000001"}})

	_, err := controller.IssueToken(context.Background(), 9999, baseURL)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenUniquenessAcrossLifecycle(t *testing.T) {
	controller, db := newController(t, &scriptedGenerator{
		tokens: []string{"aaaa000000000001", "bbbb000000000002", "cccc000000000003"},
	})
	ctx := context.Background()

	for _, name := range []string{"Jane Doe", "John Smith", "Ada Lovelace"} {
		_, _, err := controller.Create(ctx, CreatePersonnelRequest{Name: name}, baseURL)
		require.NoError(t, err)
	}

	var count int64
	err := db.SQL.Model(&Personnel{}).
		Select("COUNT(DISTINCT device_token)").
		Where("device_token IS NOT NULL").
		Count(&count).Error
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRevokeToken(t *testing.T) {
	controller, db := newController(t, &scriptedGenerator{tokens: []string{"aaaa000000000001"}})
	ctx := context.Background()

	personnel, _, err := controller.Create(ctx, CreatePersonnelRequest{Name: "Jane Doe"}, baseURL)
	require.NoError(t, err)

	require.NoError(t, controller.RevokeToken(ctx, personnel.ID))

	var stored Personnel
	require.NoError(t, db.SQL.First(&stored, "id = ?", personnel.ID).Error)
	assert.Nil(t, stored.DeviceToken)

	assert.ErrorIs(t, controller.RevokeToken(ctx, 9999), ErrNotFound)
}

func TestDelete_KeepsCheckinHistory(t *testing.T) {
	controller, db := newController(t, &scriptedGenerator{tokens: []string{"aaaa000000000001"}})
	ctx := context.Background()

	personnel, _, err := controller.Create(ctx, CreatePersonnelRequest{Name: "Jane Doe"}, baseURL)
	require.NoError(t, err)

	require.NoError(t, db.SQL.Create(&CheckinEvent{PersonnelID: personnel.ID}).Error)

	require.NoError(t, controller.Delete(ctx, personnel.ID))

	var personnelCount, checkinCount int64
	require.NoError(t, db.SQL.Model(&Personnel{}).Count(&personnelCount).Error)
	require.NoError(t, db.SQL.Model(&CheckinEvent{}).Count(&checkinCount).Error)
	assert.EqualValues(t, 0, personnelCount)
	assert.EqualValues(t, 1, checkinCount, "history survives personnel deletion")
}
