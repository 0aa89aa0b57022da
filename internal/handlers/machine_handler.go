package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/services"
)

// MachineHandler serves /api/machine.
type MachineHandler struct {
	machines *services.MachineService
	images   *services.ImageService
}

func NewMachineHandler(machines *services.MachineService, images *services.ImageService) *MachineHandler {
	return &MachineHandler{machines: machines, images: images}
}

func (h *MachineHandler) List(c *fiber.Ctx) error {
	machines, err := h.machines.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(machines)
}

func (h *MachineHandler) ListByType(c *fiber.Ctx) error {
	machines, err := h.machines.ListByType(c.UserContext(), c.Params("type_id"))
	if err != nil {
		return err
	}
	return c.JSON(machines)
}

func (h *MachineHandler) Get(c *fiber.Ctx) error {
	machine, err := h.machines.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(machine)
}

// CreateOrRestock handles PUT /api/machine. Re-creating an existing name
// restocks it; the X-Restocked header tells the two outcomes apart.
func (h *MachineHandler) CreateOrRestock(c *fiber.Ctx) error {
	var fields models.MachineFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}

	machine, restocked, err := h.machines.CreateOrRestock(c.UserContext(), fields)
	if err != nil {
		return err
	}
	if restocked {
		c.Set("X-Restocked", "true")
	}
	return c.JSON(machine)
}

func (h *MachineHandler) Update(c *fiber.Ctx) error {
	var fields models.MachineFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}

	machine, err := h.machines.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(machine)
}

func (h *MachineHandler) Delete(c *fiber.Ctx) error {
	if err := h.machines.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "Machine was deleted!")
}

// UploadImages handles POST /api/machine/:id/images with one or more
// multipart "images" files.
func (h *MachineHandler) UploadImages(c *fiber.Ctx) error {
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["images"]
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		})
	}

	machine, err := h.images.Upload(c.UserContext(), c.Params("id"), uploads)
	if err != nil {
		return err
	}
	return c.JSON(machine)
}
