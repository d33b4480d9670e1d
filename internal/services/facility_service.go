package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/utils"
)

// FacilityInput is a partial patch; nil fields are left as they are.
type FacilityInput struct {
	Name        *string
	Type        *string
	Capacity    *int
	Price       *float64
	Status      *string
	Description *string
	ImageURL    *string
}

type FacilityService struct {
	Facilities repositories.FacilityRepository
	DB         *sql.DB
	RequestID  string
}

func (s FacilityService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	if s.Facilities.DB != nil {
		return s.Facilities.DB
	}
	return intconfig.DB
}

func (s FacilityService) List(ctx context.Context) ([]models.Facility, error) {
	list, err := s.Facilities.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "list facilities", Err: err}
	}
	return list, nil
}

func (s FacilityService) Get(ctx context.Context, id int64) (models.Facility, error) {
	f, err := s.Facilities.GetByID(ctx, id)
	if err != nil && !domain.IsNotFound(err) {
		return models.Facility{}, domain.InternalError{Msg: "load facility", Err: err}
	}
	return f, err
}

func (s FacilityService) Create(ctx context.Context, actor domain.Actor, in FacilityInput) (models.Facility, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return models.Facility{}, err
	}
	switch {
	case in.Name == nil:
		return models.Facility{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	case in.Type == nil:
		return models.Facility{}, domain.ValidationError{Field: "type", Msg: "type is required"}
	case in.Capacity == nil:
		return models.Facility{}, domain.ValidationError{Field: "capacity", Msg: "capacity is required"}
	case in.Price == nil:
		return models.Facility{}, domain.ValidationError{Field: "price", Msg: "price is required"}
	}

	f := models.Facility{Status: models.FacilityAvailable}
	if err := applyFacilityPatch(&f, in); err != nil {
		return models.Facility{}, err
	}
	id, err := s.Facilities.Create(ctx, f)
	if err != nil {
		return models.Facility{}, domain.InternalError{Msg: "create facility", Err: err}
	}
	f.ID = id
	utils.LogEvent(s.RequestID, "facility", "create", fmt.Sprintf("facility_id=%d name=%s", id, f.Name))
	return f, nil
}

func (s FacilityService) Update(ctx context.Context, actor domain.Actor, id int64, in FacilityInput) (models.Facility, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return models.Facility{}, err
	}
	f, err := s.Get(ctx, id)
	if err != nil {
		return models.Facility{}, err
	}
	if err := applyFacilityPatch(&f, in); err != nil {
		return models.Facility{}, err
	}
	if err := s.Facilities.Update(ctx, f); err != nil {
		if domain.IsNotFound(err) {
			return models.Facility{}, err
		}
		return models.Facility{}, domain.InternalError{Msg: "update facility", Err: err}
	}
	utils.LogEvent(s.RequestID, "facility", "update", fmt.Sprintf("facility_id=%d", id))
	return s.Get(ctx, id)
}

// Delete refuses while pending or confirmed bookings reference the facility.
// Completed and cancelled bookings are removed along with it.
func (s FacilityService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		if _, err := s.Facilities.LockByIDTx(ctx, tx, id); err != nil {
			return err
		}
		open, err := s.Facilities.CountOpenBookingsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ConflictError{Resource: "facility", Msg: fmt.Sprintf("facility has %d open bookings", open)}
		}
		return s.Facilities.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsConflict(err) {
			return err
		}
		return domain.InternalError{Msg: "delete facility", Err: err}
	}
	utils.LogEvent(s.RequestID, "facility", "delete", fmt.Sprintf("facility_id=%d", id))
	return nil
}

func applyFacilityPatch(f *models.Facility, in FacilityInput) error {
	if in.Name != nil {
		name := utils.NormalizeSpace(*in.Name)
		if name == "" {
			return domain.ValidationError{Field: "name", Msg: "name must not be empty"}
		}
		f.Name = name
	}
	if in.Type != nil {
		t, ok := models.ParseFacilityType(*in.Type)
		if !ok {
			return domain.ValidationError{Field: "type", Msg: "type must be one of Kubo, Cabana, Room, Hall, House"}
		}
		f.Type = t
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return domain.ValidationError{Field: "capacity", Msg: "capacity must be a positive integer"}
		}
		f.Capacity = *in.Capacity
	}
	if in.Price != nil {
		p := *in.Price
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return domain.ValidationError{Field: "price", Msg: "price must not be negative"}
		}
		f.Price = utils.RoundMoney(p)
	}
	if in.Status != nil {
		st, ok := models.ParseFacilityStatus(*in.Status)
		if !ok {
			return domain.ValidationError{Field: "status", Msg: "status must be one of available, occupied, maintenance"}
		}
		f.Status = st
	}
	// empty description or image keeps the previous value
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		f.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) != "" {
		f.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	return nil
}
