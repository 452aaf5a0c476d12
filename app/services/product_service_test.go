package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/app/repositories/repotest"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
)

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) All(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockProducts) FindByID(ctx context.Context, id string) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProducts) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProducts) Update(ctx context.Context, product models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func TestCreateStampsTimestamps(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	repo := repotest.NewProducts()
	svc := NewProductService(repo).WithClock(clockAt(now))

	created, err := svc.Create(context.Background(), models.Product{
		Name: "New Product", Category: "New Category", Price: 30, Stock: 300,
	})
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.Equal(t, now.Truncate(time.Millisecond), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.LatestUpdate)

	stored, ok := repo.FindByName("New Product")
	require.True(t, ok)
	assert.Equal(t, stored.CreatedAt, stored.LatestUpdate)
}

// edit mirrors the controller: load by id, then apply.
func edit(t *testing.T, svc *ProductService, id string, changes models.ProductChanges) models.Product {
	t.Helper()
	product, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	updated, err := svc.Apply(context.Background(), product, changes)
	require.NoError(t, err)
	return updated
}

func TestApplyChangesAndAdvancesLatestUpdate(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	original := models.Product{
		ID: primitive.NewObjectID(), Name: "Phone", Category: "Tech", Price: 10, Stock: 5,
		CreatedAt: created, LatestUpdate: created,
	}
	repo := repotest.NewProducts(original)
	later := created.Add(time.Minute)
	svc := NewProductService(repo).WithClock(clockAt(later))

	price := 12.5
	updated := edit(t, svc, original.ID.Hex(), models.ProductChanges{
		Name:  strPtr("Smartphone"),
		Price: &price,
	})

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Smartphone", updated.Name)
	assert.Equal(t, "Tech", updated.Category)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.LatestUpdate)

	stored, err := repo.FindByID(context.Background(), original.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestApplyStrictlyIncreasesWhenClockStalls(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	original := models.Product{ID: primitive.NewObjectID(), Name: "a", CreatedAt: stamp, LatestUpdate: stamp}
	repo := repotest.NewProducts(original)
	svc := NewProductService(repo).WithClock(clockAt(stamp))

	first := edit(t, svc, original.ID.Hex(), models.ProductChanges{})
	assert.Equal(t, stamp.Add(time.Millisecond), first.LatestUpdate)

	second := edit(t, svc, original.ID.Hex(), models.ProductChanges{})
	assert.True(t, second.LatestUpdate.After(first.LatestUpdate))

	// A clock running behind the stored value still moves forward.
	svc.WithClock(clockAt(stamp.Add(-time.Hour)))
	third := edit(t, svc, original.ID.Hex(), models.ProductChanges{})
	assert.True(t, third.LatestUpdate.After(second.LatestUpdate))
	assert.Equal(t, stamp, third.CreatedAt)
}

func TestGetNotFound(t *testing.T) {
	repo := new(mockProducts)
	repo.On("FindByID", mock.Anything, "missing").Return(models.Product{}, repositories.ErrProductNotFound)

	_, err := NewProductService(repo).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreErrorsPropagate(t *testing.T) {
	storeErr := apperr.NewStore(errors.New("server selection timeout"))
	repo := new(mockProducts)
	repo.On("All", mock.Anything).Return(nil, storeErr)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(storeErr)
	repo.On("Delete", mock.Anything, "abc").Return(storeErr)
	repo.On("Update", mock.Anything, mock.AnythingOfType("models.Product")).Return(storeErr)

	svc := NewProductService(repo)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.Create(context.Background(), models.Product{Name: "x"})
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.Apply(context.Background(), models.Product{ID: primitive.NewObjectID()}, models.ProductChanges{})
	assert.ErrorIs(t, err, storeErr)

	assert.ErrorIs(t, svc.Delete(context.Background(), "abc"), storeErr)
	repo.AssertExpectations(t)
}

func TestListAndGet(t *testing.T) {
	a := models.Product{Name: "Product 1"}
	b := models.Product{Name: "Product 2"}
	repo := repotest.NewProducts(a, b)
	svc := NewProductService(repo)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Product 1", products[0].Name)
	assert.Equal(t, "Product 2", products[1].Name)

	got, err := svc.Get(context.Background(), products[1].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Product 2", got.Name)

	require.NoError(t, svc.Delete(context.Background(), products[0].ID.Hex()))
	_, err = svc.Get(context.Background(), products[0].ID.Hex())
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
