package addresses

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]Address, error)
	Get(ctx context.Context, userID, id string) (Address, error)
	Create(ctx context.Context, a Address) (Address, error)
	Update(ctx context.Context, userID, id string, p Patch) (Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type Service struct {
	Repo Repository
}

type CreateInput struct {
	Label       string   `json:"label" validate:"required,max=50"`
	FullAddress string   `json:"full_address" validate:"required,max=500"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	IsDefault   bool     `json:"is_default"`
}

// UpdateInput is a partial update. is_default=false is ignored: a user with
// addresses always keeps one default, moved by making another the default.
type UpdateInput struct {
	Label       *string  `json:"label" validate:"omitempty,max=50"`
	FullAddress *string  `json:"full_address" validate:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	IsDefault   *bool    `json:"is_default"`
}

func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	out, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list addresses")
	}
	return out, nil
}

// Get resolves an address the user owns; anything else is NOT_FOUND.
func (s *Service) Get(ctx context.Context, userID, id string) (Address, error) {
	a, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Address{}, mapErr(err, "get address")
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Address, error) {
	label, full := strings.TrimSpace(in.Label), strings.TrimSpace(in.FullAddress)
	if label == "" || full == "" {
		return Address{}, apperr.New(apperr.CodeValidation, "label and full_address are required")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return Address{}, apperr.New(apperr.CodeValidation, "latitude and longitude go together")
	}
	a, err := s.Repo.Create(ctx, Address{
		ID:          uuid.NewString(),
		UserID:      userID,
		Label:       label,
		FullAddress: full,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		IsDefault:   in.IsDefault,
	})
	if err != nil {
		return Address{}, apperr.Wrap(apperr.CodeDependency, err, "create address")
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Address, error) {
	label, ok := trimmed(in.Label)
	full, ok2 := trimmed(in.FullAddress)
	if !ok || !ok2 {
		return Address{}, apperr.New(apperr.CodeValidation, "label and full_address must not be blank")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return Address{}, apperr.New(apperr.CodeValidation, "latitude and longitude go together")
	}
	a, err := s.Repo.Update(ctx, userID, id, Patch{
		Label:       label,
		FullAddress: full,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		MakeDefault: in.IsDefault != nil && *in.IsDefault,
	})
	if err != nil {
		return Address{}, mapErr(err, "update address")
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return mapErr(err, "delete address")
	}
	return nil
}

// trimmed reports false for a present but blank value.
func trimmed(s *string) (*string, bool) {
	if s == nil {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	return &v, v != ""
}

func mapErr(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	}
	return apperr.Wrap(apperr.CodeDependency, err, op)
}
