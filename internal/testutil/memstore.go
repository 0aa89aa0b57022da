// Package testutil holds in-memory stand-ins for the Mongo and MinIO
// adapters plus small helpers shared by tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// ErrInjected is returned by stores whose Fail field is set.
var ErrInjected = errors.New("injected store failure")

// collection is an ordered in-memory document set with optional unique
// keys, mirroring the unique indexes of the Mongo collections.
type collection[T any] struct {
	mu     sync.Mutex
	order  []primitive.ObjectID
	docs   map[primitive.ObjectID]T
	id     func(*T) *primitive.ObjectID
	unique []func(T) string
	Fail   error
}

func newCollection[T any](id func(*T) *primitive.ObjectID, unique ...func(T) string) *collection[T] {
	return &collection[T]{docs: map[primitive.ObjectID]T{}, id: id, unique: unique}
}

func (c *collection[T]) conflicts(doc T, self primitive.ObjectID) bool {
	for _, key := range c.unique {
		k := key(doc)
		for id, other := range c.docs {
			if id != self && key(other) == k {
				return true
			}
		}
	}
	return false
}

func (c *collection[T]) insert(doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	id := c.id(doc)
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if c.conflicts(*doc, *id) {
		return fmt.Errorf("insert: %w", models.ErrConflict)
	}
	c.docs[*id] = *doc
	c.order = append(c.order, *id)
	return nil
}

func (c *collection[T]) findBy(match func(T) bool) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	for _, id := range c.order {
		doc := c.docs[id]
		if match(doc) {
			return &doc, nil
		}
	}
	return nil, models.ErrNotFound
}

func (c *collection[T]) findID(id primitive.ObjectID) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &doc, nil
}

func (c *collection[T]) filter(match func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	out := []T{}
	for _, id := range c.order {
		if doc := c.docs[id]; match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (c *collection[T]) replace(doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	id := *c.id(doc)
	if _, ok := c.docs[id]; !ok {
		return models.ErrNotFound
	}
	if c.conflicts(*doc, id) {
		return fmt.Errorf("replace: %w", models.ErrConflict)
	}
	c.docs[id] = *doc
	return nil
}

func (c *collection[T]) update(match func(T) bool, apply func(*T)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	for _, id := range c.order {
		doc := c.docs[id]
		if match(doc) {
			apply(&doc)
			c.docs[id] = doc
			return &doc, nil
		}
	}
	return nil, models.ErrNotFound
}

func (c *collection[T]) delete(id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	if _, ok := c.docs[id]; !ok {
		return models.ErrNotFound
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(o primitive.ObjectID) bool { return o == id })
	return nil
}

func (c *collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Users is an in-memory services.UserStore.
type Users struct {
	*collection[models.User]
}

func NewUsers() *Users {
	return &Users{newCollection(
		func(u *models.User) *primitive.ObjectID { return &u.ID },
		func(u models.User) string { return u.Username },
		func(u models.User) string { return u.Email },
	)}
}

func (s *Users) Insert(_ context.Context, u *models.User) error { return s.insert(u) }
func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findID(id)
}
func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Email == email })
}
func (s *Users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Username == username })
}
func (s *Users) FindAll(_ context.Context) ([]models.User, error) {
	return s.filter(func(models.User) bool { return true })
}
func (s *Users) Replace(_ context.Context, u *models.User) error { return s.replace(u) }
func (s *Users) Delete(_ context.Context, id primitive.ObjectID) error { return s.delete(id) }

// Machines is an in-memory services.MachineStore.
type Machines struct {
	*collection[models.Machine]
}

func NewMachines() *Machines {
	return &Machines{newCollection(
		func(m *models.Machine) *primitive.ObjectID { return &m.ID },
		func(m models.Machine) string { return m.Name },
	)}
}

func (s *Machines) Insert(_ context.Context, m *models.Machine) error { return s.insert(m) }
func (s *Machines) FindByID(_ context.Context, id primitive.ObjectID) (*models.Machine, error) {
	return s.findID(id)
}
func (s *Machines) FindAll(_ context.Context) ([]models.Machine, error) {
	return s.filter(func(models.Machine) bool { return true })
}
func (s *Machines) FindByType(_ context.Context, typeRef string) ([]models.Machine, error) {
	return s.filter(func(m models.Machine) bool { return slices.Contains(m.Types, typeRef) })
}
func (s *Machines) Restock(_ context.Context, name string) (*models.Machine, error) {
	return s.update(
		func(m models.Machine) bool { return m.Name == name },
		func(m *models.Machine) { m.Stock++ },
	)
}
func (s *Machines) Replace(_ context.Context, m *models.Machine) error { return s.replace(m) }
func (s *Machines) Delete(_ context.Context, id primitive.ObjectID) error { return s.delete(id) }

// MachineTypes is an in-memory services.MachineTypeStore.
type MachineTypes struct {
	*collection[models.MachineType]
}

func NewMachineTypes() *MachineTypes {
	return &MachineTypes{newCollection(
		func(t *models.MachineType) *primitive.ObjectID { return &t.ID },
		func(t models.MachineType) string { return t.Name },
	)}
}

func (s *MachineTypes) Insert(_ context.Context, t *models.MachineType) error { return s.insert(t) }
func (s *MachineTypes) FindByID(_ context.Context, id primitive.ObjectID) (*models.MachineType, error) {
	return s.findID(id)
}
func (s *MachineTypes) FindByName(_ context.Context, name string) (*models.MachineType, error) {
	return s.findBy(func(t models.MachineType) bool { return t.Name == name })
}
func (s *MachineTypes) FindAll(_ context.Context) ([]models.MachineType, error) {
	return s.filter(func(models.MachineType) bool { return true })
}
func (s *MachineTypes) Replace(_ context.Context, t *models.MachineType) error { return s.replace(t) }
func (s *MachineTypes) Delete(_ context.Context, id primitive.ObjectID) error  { return s.delete(id) }

// Regions is an in-memory services.RegionStore.
type Regions struct {
	*collection[models.Region]
}

func NewRegions() *Regions {
	return &Regions{newCollection(
		func(r *models.Region) *primitive.ObjectID { return &r.ID },
		func(r models.Region) string { return r.Name },
	)}
}

func (s *Regions) Insert(_ context.Context, r *models.Region) error { return s.insert(r) }
func (s *Regions) FindByID(_ context.Context, id primitive.ObjectID) (*models.Region, error) {
	return s.findID(id)
}
func (s *Regions) FindByName(_ context.Context, name string) (*models.Region, error) {
	return s.findBy(func(r models.Region) bool { return r.Name == name })
}
func (s *Regions) FindAll(_ context.Context) ([]models.Region, error) {
	return s.filter(func(models.Region) bool { return true })
}
func (s *Regions) Replace(_ context.Context, r *models.Region) error { return s.replace(r) }
func (s *Regions) Delete(_ context.Context, id primitive.ObjectID) error { return s.delete(id) }

// Objects is an in-memory services.ObjectStore.
type Objects struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailKey makes PutObject fail for keys containing it.
	FailKey string
}

const objectsBaseURL = "http://objects.test/bucket/"

func NewObjects() *Objects {
	return &Objects{objects: map[string][]byte{}}
}

func (o *Objects) PutObject(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailKey != "" && strings.Contains(key, o.FailKey) {
		return "", ErrInjected
	}
	o.objects[key] = data
	return objectsBaseURL + key, nil
}

func (o *Objects) RemoveObject(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, objectsBaseURL)
	if !ok {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

// Len returns the number of stored objects.
func (o *Objects) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}

// Get returns the bytes stored behind url.
func (o *Objects) Get(url string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[strings.TrimPrefix(url, objectsBaseURL)]
	return data, ok
}
