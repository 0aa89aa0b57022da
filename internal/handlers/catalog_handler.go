package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/services"
)

// MachineTypeHandler serves /api/machinetype.
type MachineTypeHandler struct {
	types *services.MachineTypeService
}

// NewMachineTypeHandler returns a handler backed by types.
func NewMachineTypeHandler(types *services.MachineTypeService) *MachineTypeHandler {
	return &MachineTypeHandler{types: types}
}

// List handles GET /api/machinetype/all
func (h *MachineTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.types.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(types)
}

// Get handles GET /api/machinetype/:id
func (h *MachineTypeHandler) Get(c *fiber.Ctx) error {
	t, err := h.types.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// Create handles PUT /api/machinetype
func (h *MachineTypeHandler) Create(c *fiber.Ctx) error {
	var fields models.NameFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}
	t, err := h.types.Create(c.UserContext(), fields)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// Update handles PUT /api/machinetype/:id
func (h *MachineTypeHandler) Update(c *fiber.Ctx) error {
	var fields models.NameFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}
	t, err := h.types.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// Delete handles DELETE /api/machinetype/:id
func (h *MachineTypeHandler) Delete(c *fiber.Ctx) error {
	if err := h.types.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "Type was deleted!")
}

// RegionHandler serves /api/region.
type RegionHandler struct {
	regions *services.RegionService
}

// NewRegionHandler returns a handler backed by regions.
func NewRegionHandler(regions *services.RegionService) *RegionHandler {
	return &RegionHandler{regions: regions}
}

// List handles GET /api/region/all
func (h *RegionHandler) List(c *fiber.Ctx) error {
	regions, err := h.regions.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(regions)
}

// Get handles GET /api/region/:id
func (h *RegionHandler) Get(c *fiber.Ctx) error {
	r, err := h.regions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Create handles PUT /api/region
func (h *RegionHandler) Create(c *fiber.Ctx) error {
	var fields models.NameFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}
	r, err := h.regions.Create(c.UserContext(), fields)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Update handles PUT /api/region/:id
func (h *RegionHandler) Update(c *fiber.Ctx) error {
	var fields models.NameFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}
	r, err := h.regions.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Delete handles DELETE /api/region/:id
func (h *RegionHandler) Delete(c *fiber.Ctx) error {
	if err := h.regions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "Region was deleted!")
}
