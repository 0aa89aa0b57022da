package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/machinery-hub/catalog-api/internal/models"
)

var (
	errMachineNotFound = models.NewError(models.ErrNotFound, "Machine was not found!")
	errMachineTaken    = models.NewError(models.ErrConflict, "Machine name is already taken!")
)

// MachineService owns the machine catalog.
type MachineService struct {
	machines MachineStore
	types    MachineTypeStore
	images   *ImageService
	now      func() time.Time
}

// NewMachineService wires the machine catalog. images may be nil, in which
// case deleting a machine leaves its uploaded images in place.
func NewMachineService(machines MachineStore, types MachineTypeStore, images *ImageService) *MachineService {
	return &MachineService{
		machines: machines,
		types:    types,
		images:   images,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrRestock inserts a new machine, or, when a machine with the same
// name already exists, adds one unit to its stock instead. restocked reports
// which branch was taken.
func (s *MachineService) CreateOrRestock(ctx context.Context, fields models.MachineFields) (machine *models.Machine, restocked bool, err error) {
	if err := fields.ValidateCreate(); err != nil {
		return nil, false, err
	}
	name := strings.TrimSpace(*fields.Name)

	// Two attempts: a concurrent create of the same name makes the insert
	// fail on the unique index, after which the restock will find it.
	for attempt := 0; attempt < 2; attempt++ {
		machine, err = s.machines.Restock(ctx, name)
		if err == nil {
			return machine, true, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, false, err
		}

		machine = fields.NewMachine(s.now())
		err = s.machines.Insert(ctx, machine)
		if err == nil {
			return machine, false, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, false, err
		}
	}
	return nil, false, errMachineTaken
}

func (s *MachineService) List(ctx context.Context) ([]models.Machine, error) {
	return s.machines.FindAll(ctx)
}

// ListByType returns the machines filed under an existing machine type.
func (s *MachineService) ListByType(ctx context.Context, typeIDHex string) ([]models.Machine, error) {
	id, err := ParseID("type_id", typeIDHex)
	if err != nil {
		return nil, err
	}
	if _, err := s.types.FindByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errTypeNotFound
		}
		return nil, err
	}
	return s.machines.FindByType(ctx, typeIDHex)
}

func (s *MachineService) Get(ctx context.Context, idHex string) (*models.Machine, error) {
	id, err := ParseID("id", idHex)
	if err != nil {
		return nil, err
	}
	machine, err := s.machines.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errMachineNotFound
	}
	return machine, err
}

// Update applies a sparse patch and returns the stored result.
func (s *MachineService) Update(ctx context.Context, idHex string, fields models.MachineFields) (*models.Machine, error) {
	machine, err := s.Get(ctx, idHex)
	if err != nil {
		return nil, err
	}
	if err := fields.ValidatePatch(); err != nil {
		return nil, err
	}

	fields.Apply(machine)
	machine.UpdatedAt = s.now()
	if err := s.machines.Replace(ctx, machine); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errMachineTaken
		}
		return nil, err
	}
	return machine, nil
}

func (s *MachineService) Delete(ctx context.Context, idHex string) error {
	machine, err := s.Get(ctx, idHex)
	if err != nil {
		return err
	}
	if err := s.machines.Delete(ctx, machine.ID); err != nil {
		return err
	}
	if s.images != nil {
		s.images.Purge(ctx, machine.Images)
	}
	return nil
}
