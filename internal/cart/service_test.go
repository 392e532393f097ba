package cart

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMenu struct{ mock.Mock }

func (m *mockMenu) MenuItem(ctx context.Context, restaurantID, itemID string) (restaurants.Restaurant, restaurants.MenuItem, error) {
	args := m.Called(restaurantID, itemID)
	return args.Get(0).(restaurants.Restaurant), args.Get(1).(restaurants.MenuItem), args.Error(2)
}

func newService() (*Service, *mockMenu) {
	menu := new(mockMenu)
	menu.On("MenuItem", "r1", "a").Return(restaurants.Restaurant{ID: "r1", Name: "Pizzeria", IsActive: true}, menuItem("a", "8"), nil).Maybe()
	menu.On("MenuItem", "r1", "b").Return(restaurants.Restaurant{ID: "r1", Name: "Pizzeria", IsActive: true}, menuItem("b", "3"), nil).Maybe()
	menu.On("MenuItem", "r2", "z").Return(restaurants.Restaurant{ID: "r2", Name: "Sushi Bar", IsActive: true}, menuItem("z", "12"), nil).Maybe()
	return &Service{Store: NewMemoryStore(), Menu: menu}, menu
}

func TestAddItemUsesRestaurantName(t *testing.T) {
	svc, _ := newService()

	c, err := svc.AddItem(context.Background(), "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, "Pizzeria", c.RestaurantName)
	assert.Equal(t, 2, c.Quantity("a"))
}

func TestAddItemOtherRestaurantNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r2", MenuItemID: "z", Quantity: 1})
	require.ErrorIs(t, err, ErrRestaurantConflict)
	assert.Equal(t, map[string]any{"restaurant_id": "r1", "restaurant_name": "Pizzeria"}, apperr.As(err).Details())

	c, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", c.RestaurantID, "declined replacement keeps the cart")

	c, err = svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r2", MenuItemID: "z", Quantity: 1, ConfirmReplace: true})
	require.NoError(t, err)
	assert.Equal(t, "r2", c.RestaurantID)
	assert.Len(t, c.Items, 1)
}

func TestAddItemValidation(t *testing.T) {
	svc, menu := newService()
	menu.On("MenuItem", "r1", "sold-out").Return(restaurants.Restaurant{ID: "r1", IsActive: true}, restaurants.MenuItem{ID: "sold-out"}, nil)
	menu.On("MenuItem", "r9", "x").Return(restaurants.Restaurant{ID: "r9"}, menuItem("x", "5"), nil)

	_, err := svc.AddItem(context.Background(), "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 0})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.AddItem(context.Background(), "u1", AddInput{RestaurantID: "r1", MenuItemID: "sold-out", Quantity: 1})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.AddItem(context.Background(), "u1", AddInput{RestaurantID: "r9", MenuItemID: "x", Quantity: 1})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "deactivated restaurant")
}

func TestUpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r1", MenuItemID: "b", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, "u1", "a", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Quantity("a"))

	c, err = svc.RemoveItem(ctx, "u1", "b", nil)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)

	c, err = svc.UpdateQuantity(ctx, "u1", "a", 0, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "u1", nil))
	c, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStaleExpectedVersionIsConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	c, err := svc.AddItem(ctx, "u1", AddInput{RestaurantID: "r1", MenuItemID: "a", Quantity: 1})
	require.NoError(t, err)

	stale := c.Version - 1
	_, err = svc.UpdateQuantity(ctx, "u1", "a", 9, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}
