package restaurants

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) List(ctx context.Context, f FilterOptions) ([]Restaurant, error) {
	args := m.Called(f)
	return args.Get(0).([]Restaurant), args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, id string) (Restaurant, error) {
	args := m.Called(id)
	return args.Get(0).(Restaurant), args.Error(1)
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID string) ([]Restaurant, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]Restaurant), args.Error(1)
}

func (m *mockRepo) MenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	args := m.Called(restaurantID)
	return args.Get(0).([]MenuItem), args.Error(1)
}

func (m *mockRepo) MenuItem(ctx context.Context, restaurantID, itemID string) (MenuItem, error) {
	args := m.Called(restaurantID, itemID)
	return args.Get(0).(MenuItem), args.Error(1)
}

func (m *mockRepo) CreateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error) {
	args := m.Called(r)
	return args.Get(0).(Restaurant), args.Error(1)
}

func (m *mockRepo) UpdateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error) {
	args := m.Called(r)
	return args.Get(0).(Restaurant), args.Error(1)
}

func (m *mockRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(id, active).Error(0)
}

func (m *mockRepo) CreateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	args := m.Called(item)
	return args.Get(0).(MenuItem), args.Error(1)
}

func (m *mockRepo) UpdateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	args := m.Called(item)
	return args.Get(0).(MenuItem), args.Error(1)
}

func (m *mockRepo) SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (MenuItem, error) {
	args := m.Called(restaurantID, itemID, available)
	return args.Get(0).(MenuItem), args.Error(1)
}

func (m *mockRepo) DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error {
	return m.Called(restaurantID, itemID).Error(0)
}

func TestSearchRejectsInvalidFilters(t *testing.T) {
	repo := new(mockRepo)
	svc := &Service{Repo: repo}

	_, err := svc.Search(context.Background(), SearchParams{Filters: FilterOptions{PriceRange: []int{4, 1}}})

	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestSearchAppliesRadius(t *testing.T) {
	repo := new(mockRepo)
	svc := &Service{Repo: repo}
	f := FilterOptions{SortBy: SortRating}
	repo.On("List", f).Return([]Restaurant{
		{ID: "in", Latitude: 1, Longitude: 1, IsActive: true},
		{ID: "out", Latitude: 5, Longitude: 5, IsActive: true},
	}, nil).Once()

	got, err := svc.Search(context.Background(), SearchParams{Filters: f, Near: &Point{1, 1}, RadiusKm: 5})

	require.NoError(t, err)
	assert.Equal(t, []string{"in"}, ids(got))
	repo.AssertExpectations(t)
}

func TestSearchEnforcesFiltersAndOrderOverStoreRows(t *testing.T) {
	repo := new(mockRepo)
	f := FilterOptions{Rating: 4, SortBy: SortDeliveryTime}
	repo.On("List", f).Return([]Restaurant{
		{ID: "slow", Rating: 4.5, DeliveryTime: 40, IsActive: true},
		{ID: "closed", Rating: 4.8, DeliveryTime: 10, IsActive: false},
		{ID: "low", Rating: 3.9, DeliveryTime: 15, IsActive: true},
		{ID: "fast", Rating: 4.0, DeliveryTime: 20, IsActive: true},
	}, nil).Once()

	got, err := (&Service{Repo: repo}).Search(context.Background(), SearchParams{Filters: f})

	require.NoError(t, err)
	assert.Equal(t, []string{"fast", "slow"}, ids(got))
}

func TestSearchReturnsEmptySliceNotNil(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", FilterOptions{}).Return([]Restaurant(nil), nil).Once()

	got, err := (&Service{Repo: repo}).Search(context.Background(), SearchParams{})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMenuMissingRestaurantIsNotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "nope").Return(Restaurant{}, ErrNotFound).Once()

	_, err := (&Service{Repo: repo}).Menu(context.Background(), "nope")

	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	repo.AssertNotCalled(t, "MenuItems", mock.Anything)
}

func TestMenuItemStoreFailureIsDependencyError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1"}, nil).Once()
	repo.On("MenuItem", "r1", "m1").Return(MenuItem{}, errors.New("conn reset")).Once()

	_, _, err := (&Service{Repo: repo}).MenuItem(context.Background(), "r1", "m1")

	assert.Equal(t, apperr.CodeDependency, apperr.CodeOf(err))
}
