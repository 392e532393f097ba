package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, rv Review) (Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	Delete(ctx context.Context, userID, id string) error
}

type OrderLookup interface {
	GetForUser(ctx context.Context, userID, id string) (orders.Order, error)
}

type Service struct {
	Repo   Repository
	Orders OrderLookup
}

type CreateInput struct {
	OrderID string   `json:"order_id" validate:"required"`
	Rating  int      `json:"rating" validate:"min=1,max=5"`
	Comment string   `json:"comment" validate:"max=2000"`
	Images  []string `json:"images" validate:"max=5,dive,url"`
}

// Create reviews a delivered order of userID. Each order takes one review.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return Review{}, apperr.New(apperr.CodeValidation, "rating must be between 1 and 5")
	}
	o, err := s.Orders.GetForUser(ctx, userID, in.OrderID)
	if err != nil {
		return Review{}, err
	}
	if o.Status != orders.StatusDelivered {
		return Review{}, apperr.New(apperr.CodeStateConflict, "only delivered orders can be reviewed").
			WithDetails(map[string]any{"status": o.Status})
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	rv, err := s.Repo.Create(ctx, Review{
		ID:           uuid.NewString(),
		UserID:       userID,
		RestaurantID: o.RestaurantID,
		OrderID:      o.ID,
		Rating:       in.Rating,
		Comment:      strings.TrimSpace(in.Comment),
		Images:       images,
	})
	if errors.Is(err, ErrAlreadyReviewed) {
		return Review{}, apperr.Wrap(apperr.CodeConflict, err, err.Error())
	}
	if err != nil {
		return Review{}, apperr.Wrap(apperr.CodeDependency, err, "create review")
	}
	return rv, nil
}

func (s *Service) ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error) {
	out, err := s.Repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list reviews")
	}
	return out, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	out, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list user reviews")
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.Repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeDependency, err, "delete review")
	}
	return nil
}
