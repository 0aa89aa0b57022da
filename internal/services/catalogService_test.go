package services

import (
	"context"
	"testing"

	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMachineTypeService_Lifecycle(t *testing.T) {
	svc := NewMachineTypeService(testutil.NewMachineTypes())
	ctx := context.Background()

	created, err := svc.Create(ctx, models.NameFields{Name: ptr(" power ")})
	require.NoError(t, err)
	assert.Equal(t, "power", created.Name)
	assert.False(t, created.ID.IsZero())

	_, err = svc.Create(ctx, models.NameFields{Name: ptr("power")})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.Create(ctx, models.NameFields{})
	assert.ErrorIs(t, err, models.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	same, err := svc.Update(ctx, created.ID.Hex(), models.NameFields{})
	require.NoError(t, err)
	assert.Equal(t, "power", same.Name)

	renamed, err := svc.Update(ctx, created.ID.Hex(), models.NameFields{Name: ptr("hand")})
	require.NoError(t, err)
	assert.Equal(t, "hand", renamed.Name)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	_, err = svc.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMachineTypeService_RenameConflict(t *testing.T) {
	svc := NewMachineTypeService(testutil.NewMachineTypes())
	ctx := context.Background()

	a, err := svc.Create(ctx, models.NameFields{Name: ptr("a")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.NameFields{Name: ptr("b")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID.Hex(), models.NameFields{Name: ptr("b")})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegionService_Lifecycle(t *testing.T) {
	store := testutil.NewRegions()
	svc := NewRegionService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.NameFields{Name: ptr("north")})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	_, err = svc.Create(ctx, models.NameFields{Name: ptr("north")})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, store.Len())

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "north", got.Name)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Get(ctx, "zzz")
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.Hex()), models.ErrNotFound)
}

func TestRegionService_StoreFailure(t *testing.T) {
	store := testutil.NewRegions()
	svc := NewRegionService(store)

	store.Fail = testutil.ErrInjected
	_, err := svc.Create(context.Background(), models.NameFields{Name: ptr("north")})
	assert.ErrorIs(t, err, testutil.ErrInjected)
}
