package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/utils"
)

const purgeWorkers = 4

// ImageUpload is one file of a multipart image upload.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ImageService stores machine images in object storage and keeps the
// machine's image list in sync.
type ImageService struct {
	objects  ObjectStore
	machines MachineStore
	maxSize  int64
	logger   *slog.Logger
	now      func() time.Time
}

func NewImageService(objects ObjectStore, machines MachineStore, maxSize int64, logger *slog.Logger) *ImageService {
	return &ImageService{
		objects:  objects,
		machines: machines,
		maxSize:  maxSize,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ImageService) validate(files []ImageUpload) error {
	var errs models.ValidationErrors
	if len(files) == 0 {
		errs.Add("images", "At least one image is required")
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			errs.Add("images", fmt.Sprintf("%s is not an image", f.Filename))
		}
		if f.Size > s.maxSize {
			errs.Add("images", fmt.Sprintf("%s exceeds %d bytes", f.Filename, s.maxSize))
		}
	}
	return errs.Err()
}

// Upload stores files concurrently and appends their URLs to the machine.
// If any upload fails, the ones that succeeded are removed again.
func (s *ImageService) Upload(ctx context.Context, machineIDHex string, files []ImageUpload) (*models.Machine, error) {
	id, err := ParseID("id", machineIDHex)
	if err != nil {
		return nil, err
	}
	if err := s.validate(files); err != nil {
		return nil, err
	}

	machine, err := s.machines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errMachineNotFound
		}
		return nil, err
	}

	tasks := make([]utils.Task[string], len(files))
	for i, f := range files {
		key := fmt.Sprintf("machines/%s/%s%s", id.Hex(), uuid.NewString(), strings.ToLower(filepath.Ext(f.Filename)))
		tasks[i] = func() (string, error) {
			body, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("open %s: %w", f.Filename, err)
			}
			defer body.Close()
			return s.objects.PutObject(ctx, key, body, f.Size, f.ContentType)
		}
	}

	urls, errs := utils.RunParallel(tasks)
	if err := utils.FirstError(errs); err != nil {
		s.Purge(ctx, uploaded(urls, errs))
		return nil, fmt.Errorf("upload images of machine %s: %w", id.Hex(), err)
	}

	machine.Images = append(machine.Images, urls...)
	machine.UpdatedAt = s.now()
	if err := s.machines.Replace(ctx, machine); err != nil {
		s.Purge(ctx, urls)
		return nil, err
	}
	return machine, nil
}

// Purge removes the given image URLs from object storage. Failures are
// logged, not returned.
func (s *ImageService) Purge(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}

	pool := utils.NewWorkerPool(min(purgeWorkers, len(urls)))
	defer pool.Close()

	for _, url := range urls {
		pool.AddTask(func() {
			if err := s.objects.RemoveObject(ctx, url); err != nil {
				s.logger.WarnContext(ctx, "failed to remove image", "url", url, "error", err)
			}
		})
	}
	pool.Wait()
}

func uploaded(urls []string, errs []error) []string {
	var out []string
	for i, url := range urls {
		if errs[i] == nil && url != "" {
			out = append(out, url)
		}
	}
	return out
}
