package restaurants

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRestaurantInput() RestaurantInput {
	return RestaurantInput{Name: " Warung Sate ", Address: "Jl. Sudirman 1", PriceRange: 2, DeliveryTime: 25}
}

func TestCreateRestaurantStartsActiveAndUnrated(t *testing.T) {
	repo := new(mockRepo)
	repo.On("CreateRestaurant", mock.MatchedBy(func(r Restaurant) bool {
		return r.ID != "" && r.OwnerID == "owner-1" && r.Name == "Warung Sate" &&
			r.IsActive && !r.IsFeatured && r.Rating == 0 && r.CuisineType != nil && r.Images != nil
	})).Return(Restaurant{ID: "r1", OwnerID: "owner-1", IsActive: true}, nil).Once()

	got, err := (&Service{Repo: repo}).CreateRestaurant(context.Background(), "owner-1", validRestaurantInput())

	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	repo.AssertExpectations(t)
}

func TestCreateRestaurantRejectsPriceTierOutOfRange(t *testing.T) {
	repo := new(mockRepo)
	in := validRestaurantInput()
	in.PriceRange = 5

	_, err := (&Service{Repo: repo}).CreateRestaurant(context.Background(), "owner-1", in)

	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	repo.AssertNotCalled(t, "CreateRestaurant", mock.Anything)
}

func TestUpdateRestaurantKeepsManagedFields(t *testing.T) {
	repo := new(mockRepo)
	cur := Restaurant{ID: "r1", OwnerID: "owner-1", Name: "Old", Rating: 4.6, IsFeatured: true, IsActive: true}
	repo.On("Get", "r1").Return(cur, nil).Once()
	repo.On("UpdateRestaurant", mock.MatchedBy(func(r Restaurant) bool {
		return r.ID == "r1" && r.OwnerID == "owner-1" && r.Name == "Warung Sate" &&
			r.Rating == 4.6 && r.IsFeatured && r.IsActive
	})).Return(Restaurant{ID: "r1", Name: "Warung Sate"}, nil).Once()

	got, err := (&Service{Repo: repo}).UpdateRestaurant(context.Background(), "owner-1", "r1", validRestaurantInput())

	require.NoError(t, err)
	assert.Equal(t, "Warung Sate", got.Name)
	repo.AssertExpectations(t)
}

func TestOwnerOperationsRejectOtherUsers(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1"}, nil)
	svc := &Service{Repo: repo}
	ctx := context.Background()

	_, err := svc.UpdateRestaurant(ctx, "intruder", "r1", validRestaurantInput())
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(svc.DeactivateRestaurant(ctx, "intruder", "r1")))
	_, err = svc.CreateMenuItem(ctx, "intruder", "r1", MenuItemInput{Name: "Sate", Price: decimal.NewFromInt(10)})
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	_, err = svc.SetMenuItemAvailability(ctx, "intruder", "r1", "m1", false)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(svc.DeleteMenuItem(ctx, "intruder", "r1", "m1")))

	repo.AssertNotCalled(t, "UpdateRestaurant", mock.Anything)
	repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateMenuItem", mock.Anything)
	repo.AssertNotCalled(t, "SetMenuItemAvailability", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteMenuItem", mock.Anything, mock.Anything)
}

func TestDeactivateRestaurantIsSoftDelete(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1", IsActive: true}, nil).Once()
	repo.On("SetActive", "r1", false).Return(nil).Once()

	err := (&Service{Repo: repo}).DeactivateRestaurant(context.Background(), "owner-1", "r1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateMenuItemDefaultsToAvailable(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1"}, nil).Once()
	repo.On("CreateMenuItem", mock.MatchedBy(func(m MenuItem) bool {
		return m.ID != "" && m.RestaurantID == "r1" && m.IsAvailable && m.Price.Equal(decimal.RequireFromString("12.50"))
	})).Return(MenuItem{ID: "m1", IsAvailable: true}, nil).Once()

	in := MenuItemInput{Name: "Sate Ayam", Price: decimal.RequireFromString("12.50")}
	got, err := (&Service{Repo: repo}).CreateMenuItem(context.Background(), "owner-1", "r1", in)

	require.NoError(t, err)
	assert.True(t, got.IsAvailable)
	repo.AssertExpectations(t)
}

func TestCreateMenuItemRejectsBadPrices(t *testing.T) {
	for _, price := range []string{"-1", "3.999"} {
		t.Run(price, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1"}, nil).Once()

			in := MenuItemInput{Name: "Sate", Price: decimal.RequireFromString(price)}
			_, err := (&Service{Repo: repo}).CreateMenuItem(context.Background(), "owner-1", "r1", in)

			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
			repo.AssertNotCalled(t, "CreateMenuItem", mock.Anything)
		})
	}
}

func TestUpdateMenuItemKeepsAvailabilityWhenOmitted(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1"}, nil).Once()
	repo.On("MenuItem", "r1", "m1").Return(MenuItem{ID: "m1", RestaurantID: "r1", IsAvailable: false}, nil).Once()
	repo.On("UpdateMenuItem", mock.MatchedBy(func(m MenuItem) bool {
		return m.ID == "m1" && m.RestaurantID == "r1" && m.Name == "Sate Kambing" && !m.IsAvailable
	})).Return(MenuItem{ID: "m1", Name: "Sate Kambing"}, nil).Once()

	in := MenuItemInput{Name: "Sate Kambing", Price: decimal.NewFromInt(20)}
	_, err := (&Service{Repo: repo}).UpdateMenuItem(context.Background(), "owner-1", "r1", "m1", in)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSetMenuItemAvailabilityMissingItemIsNotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", "r1").Return(Restaurant{ID: "r1", OwnerID: "owner-1"}, nil).Once()
	repo.On("SetMenuItemAvailability", "r1", "gone", false).Return(MenuItem{}, ErrMenuItemNotFound).Once()

	_, err := (&Service{Repo: repo}).SetMenuItemAvailability(context.Background(), "owner-1", "r1", "gone", false)

	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
