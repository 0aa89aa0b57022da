package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/machinery-hub/catalog-api/internal/models"
)

var (
	errTypeNotFound   = models.NewError(models.ErrNotFound, "Type was not found!")
	errTypeExists     = models.NewError(models.ErrConflict, "Type already exists!")
	errRegionNotFound = models.NewError(models.ErrNotFound, "Region was not found!")
	errRegionExists   = models.NewError(models.ErrConflict, "Region already exists!")
)

// MachineTypeService manages machine types.
type MachineTypeService struct {
	types MachineTypeStore
	now   func() time.Time
}

func NewMachineTypeService(types MachineTypeStore) *MachineTypeService {
	return &MachineTypeService{types: types, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MachineTypeService) Create(ctx context.Context, fields models.NameFields) (*models.MachineType, error) {
	if err := fields.ValidateCreate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(*fields.Name)

	_, err := s.types.FindByName(ctx, name)
	if err == nil {
		return nil, errTypeExists
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	t := &models.MachineType{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.types.Insert(ctx, t); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errTypeExists
		}
		return nil, err
	}
	return t, nil
}

func (s *MachineTypeService) List(ctx context.Context) ([]models.MachineType, error) {
	return s.types.FindAll(ctx)
}

func (s *MachineTypeService) Get(ctx context.Context, idHex string) (*models.MachineType, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	t, err := s.types.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errTypeNotFound
	}
	return t, err
}

func (s *MachineTypeService) Update(ctx context.Context, idHex string, fields models.NameFields) (*models.MachineType, error) {
	t, err := s.Get(ctx, idHex)
	if err != nil {
		return nil, err
	}
	t.Name = fields.Apply(t.Name)
	t.UpdatedAt = s.now()
	if err := s.types.Replace(ctx, t); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errTypeExists
		}
		return nil, err
	}
	return t, nil
}

func (s *MachineTypeService) Delete(ctx context.Context, idHex string) error {
	t, err := s.Get(ctx, idHex)
	if err != nil {
		return err
	}
	return s.types.Delete(ctx, t.ID)
}

// RegionService manages sales regions.
type RegionService struct {
	regions RegionStore
	now     func() time.Time
}

func NewRegionService(regions RegionStore) *RegionService {
	return &RegionService{regions: regions, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RegionService) Create(ctx context.Context, fields models.NameFields) (*models.Region, error) {
	if err := fields.ValidateCreate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(*fields.Name)

	_, err := s.regions.FindByName(ctx, name)
	if err == nil {
		return nil, errRegionExists
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	r := &models.Region{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.regions.Insert(ctx, r); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errRegionExists
		}
		return nil, err
	}
	return r, nil
}

func (s *RegionService) List(ctx context.Context) ([]models.Region, error) {
	return s.regions.FindAll(ctx)
}

func (s *RegionService) Get(ctx context.Context, idHex string) (*models.Region, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	r, err := s.regions.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errRegionNotFound
	}
	return r, err
}

func (s *RegionService) Update(ctx context.Context, idHex string, fields models.NameFields) (*models.Region, error) {
	r, err := s.Get(ctx, idHex)
	if err != nil {
		return nil, err
	}
	r.Name = fields.Apply(r.Name)
	r.UpdatedAt = s.now()
	if err := s.regions.Replace(ctx, r); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errRegionExists
		}
		return nil, err
	}
	return r, nil
}

func (s *RegionService) Delete(ctx context.Context, idHex string) error {
	r, err := s.Get(ctx, idHex)
	if err != nil {
		return err
	}
	return s.regions.Delete(ctx, r.ID)
}
