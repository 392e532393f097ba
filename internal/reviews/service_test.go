package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(_ context.Context, rv Review) (Review, error) {
	args := m.Called(rv)
	return args.Get(0).(Review), args.Error(1)
}

func (m *mockRepo) ListByRestaurant(_ context.Context, restaurantID string) ([]Review, error) {
	args := m.Called(restaurantID)
	return args.Get(0).([]Review), args.Error(1)
}

func (m *mockRepo) ListByUser(_ context.Context, userID string) ([]Review, error) {
	args := m.Called(userID)
	return args.Get(0).([]Review), args.Error(1)
}

func (m *mockRepo) Delete(_ context.Context, userID, id string) error {
	return m.Called(userID, id).Error(0)
}

type stubOrders map[string]orders.Order

func (s stubOrders) GetForUser(_ context.Context, userID, id string) (orders.Order, error) {
	o, ok := s[id]
	if !ok || o.UserID != userID {
		return orders.Order{}, apperr.New(apperr.CodeNotFound, "order not found")
	}
	return o, nil
}

var orderBook = stubOrders{
	"o1": {ID: "o1", UserID: "u1", RestaurantID: "r1", Status: orders.StatusDelivered},
	"o2": {ID: "o2", UserID: "u1", RestaurantID: "r1", Status: orders.StatusOutForDelivery},
}

func TestCreateReviewForDeliveredOrder(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.MatchedBy(func(rv Review) bool {
		return rv.RestaurantID == "r1" && rv.OrderID == "o1" && rv.Rating == 4 && rv.Images != nil
	})).Return(Review{ID: "rv1", Rating: 4}, nil)
	svc := &Service{Repo: repo, Orders: orderBook}

	rv, err := svc.Create(context.Background(), "u1", CreateInput{OrderID: "o1", Rating: 4, Comment: " tasty "})

	require.NoError(t, err)
	assert.Equal(t, "rv1", rv.ID)
	repo.AssertExpectations(t)
}

func TestCreateReviewRules(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("Create", mock.Anything).Return(Review{}, ErrAlreadyReviewed)
	svc := &Service{Repo: repo, Orders: orderBook}

	cases := []struct {
		name string
		user string
		in   CreateInput
		code apperr.Code
	}{
		{"rating too low", "u1", CreateInput{OrderID: "o1", Rating: 0}, apperr.CodeValidation},
		{"rating too high", "u1", CreateInput{OrderID: "o1", Rating: 6}, apperr.CodeValidation},
		{"foreign order", "u2", CreateInput{OrderID: "o1", Rating: 5}, apperr.CodeNotFound},
		{"not delivered", "u1", CreateInput{OrderID: "o2", Rating: 5}, apperr.CodeStateConflict},
		{"second review", "u1", CreateInput{OrderID: "o1", Rating: 5}, apperr.CodeConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(ctx, c.user, c.in)
			assert.Equal(t, c.code, apperr.CodeOf(err))
		})
	}
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestDeleteMapsNotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Delete", "u1", "rv9").Return(ErrNotFound)
	svc := &Service{Repo: repo, Orders: orderBook}

	err := svc.Delete(context.Background(), "u1", "rv9")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestListByUserCarriesRestaurant(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListByUser", "u1").Return([]Review{
		{ID: "rv1", UserID: "u1", RestaurantID: "r1", Restaurant: &RestaurantRef{Name: "Warung Sate"}},
	}, nil).Once()
	repo.On("ListByUser", "u2").Return([]Review(nil), errors.New("conn reset")).Once()
	svc := &Service{Repo: repo, Orders: orderBook}

	out, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Warung Sate", out[0].Restaurant.Name)

	_, err = svc.ListByUser(context.Background(), "u2")
	assert.Equal(t, apperr.CodeDependency, apperr.CodeOf(err))
}
