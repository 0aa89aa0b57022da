package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Machine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Model       string             `bson:"model,omitempty" json:"model,omitempty"`
	Types       []string           `bson:"types" json:"types"`
	Price       float64            `bson:"price" json:"price"`
	Voltage     string             `bson:"voltage,omitempty" json:"voltage,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	Video       string             `bson:"video,omitempty" json:"video,omitempty"`
	Condition   string             `bson:"condition,omitempty" json:"condition,omitempty"`
	Year        int                `bson:"year,omitempty" json:"year,omitempty"`
	Description string             `bson:"description" json:"description"`
	IsSold      bool               `bson:"isSold" json:"isSold"`
	Stock       int                `bson:"stock" json:"stock"`
	Region      string             `bson:"region,omitempty" json:"region,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TypeList accepts either a comma separated string ("power, hand") or a JSON
// array of type references.
type TypeList []string

func (t *TypeList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var raw []string
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.Split(s, ",")
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(TypeList, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	*t = out
	return nil
}

// MachineFields is the body of create and update requests.
type MachineFields struct {
	Name        *string  `json:"name"`
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Types       TypeList `json:"types"`
	Price       *float64 `json:"price"`
	Voltage     *string  `json:"voltage"`
	Images      []string `json:"images"`
	Video       *string  `json:"video"`
	Condition   *string  `json:"condition"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	IsSold      *bool    `json:"isSold"`
	Stock       *int     `json:"stock"`
	Region      *string  `json:"region"`
}

// ValidateCreate checks the fields required to create a machine.
func (f MachineFields) ValidateCreate() error {
	var errs ValidationErrors
	if isBlank(f.Name) {
		errs.Add("name", "Name is required")
	}
	if len(f.Types) == 0 {
		errs.Add("types", "Types is required")
	}
	if f.Price == nil {
		errs.Add("price", "Price is required")
	}
	if isBlank(f.Description) {
		errs.Add("description", "Description is required")
	}
	f.validateRanges(&errs)
	return errs.Err()
}

// ValidatePatch checks the fields of an update that are present.
func (f MachineFields) ValidatePatch() error {
	var errs ValidationErrors
	f.validateRanges(&errs)
	return errs.Err()
}

func (f MachineFields) validateRanges(errs *ValidationErrors) {
	if f.Price != nil && *f.Price < 0 {
		errs.Add("price", "Price must not be negative")
	}
	if f.Stock != nil && *f.Stock < 0 {
		errs.Add("stock", "Stock must be a non-negative integer")
	}
}

// NewMachine builds a machine from validated create fields. Stock defaults
// to one unit.
func (f MachineFields) NewMachine(now time.Time) *Machine {
	m := &Machine{
		Types:     []string{},
		Images:    []string{},
		Stock:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.Apply(m)
	return m
}

// Apply copies every present field onto m. Strings and lists must be
// non-empty; numbers apply whenever present; IsSold applies even when false.
func (f MachineFields) Apply(m *Machine) {
	setString(&m.Name, f.Name)
	setString(&m.Brand, f.Brand)
	setString(&m.Model, f.Model)
	if len(f.Types) > 0 {
		m.Types = append([]string(nil), f.Types...)
	}
	if f.Price != nil {
		m.Price = *f.Price
	}
	setString(&m.Voltage, f.Voltage)
	if len(f.Images) > 0 {
		m.Images = append([]string(nil), f.Images...)
	}
	setString(&m.Video, f.Video)
	setString(&m.Condition, f.Condition)
	if f.Year != nil {
		m.Year = *f.Year
	}
	setString(&m.Description, f.Description)
	if f.IsSold != nil {
		m.IsSold = *f.IsSold
	}
	if f.Stock != nil {
		m.Stock = *f.Stock
	}
	setString(&m.Region, f.Region)
}

func setString(dst *string, src *string) {
	if !isBlank(src) {
		*dst = strings.TrimSpace(*src)
	}
}
