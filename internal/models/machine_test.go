package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleMachine() Machine {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return Machine{
		Name:        "Drill",
		Brand:       "Bosch",
		Model:       "GSB 18V",
		Types:       []string{"power", "hand"},
		Price:       129.5,
		Voltage:     "18V",
		Images:      []string{"http://img/1.png"},
		Video:       "http://video/1",
		Condition:   "used",
		Year:        2019,
		Description: "cordless drill",
		IsSold:      true,
		Stock:       3,
		Region:      "north",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTypeList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TypeList
	}{
		{"comma string", `"power, hand ,"`, TypeList{"power", "hand"}},
		{"single string", `"power"`, TypeList{"power"}},
		{"array", `[" power ", "", "hand"]`, TypeList{"power", "hand"}},
		{"empty string", `""`, TypeList{}},
		{"null", `null`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got TypeList
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}

	var bad TypeList
	assert.Error(t, json.Unmarshal([]byte(`12`), &bad))
}

func TestMachineFields_ApplyIsSparse(t *testing.T) {
	m := sampleMachine()
	before := m

	MachineFields{Brand: ptr("Makita")}.Apply(&m)

	want := before
	want.Brand = "Makita"
	assert.Equal(t, want, m)
}

func TestMachineFields_ApplySkipsEmptyValues(t *testing.T) {
	m := sampleMachine()
	before := m

	MachineFields{
		Name:        ptr(""),
		Brand:       ptr("   "),
		Types:       TypeList{},
		Images:      []string{},
		Description: ptr(""),
	}.Apply(&m)

	assert.Equal(t, before, m)
}

func TestMachineFields_ApplyWithOwnValuesIsIdempotent(t *testing.T) {
	m := sampleMachine()
	before := m

	f := MachineFields{
		Name:        ptr(m.Name),
		Brand:       ptr(m.Brand),
		Model:       ptr(m.Model),
		Types:       TypeList(m.Types),
		Price:       ptr(m.Price),
		Voltage:     ptr(m.Voltage),
		Images:      m.Images,
		Video:       ptr(m.Video),
		Condition:   ptr(m.Condition),
		Year:        ptr(m.Year),
		Description: ptr(m.Description),
		IsSold:      ptr(m.IsSold),
		Stock:       ptr(m.Stock),
		Region:      ptr(m.Region),
	}
	f.Apply(&m)
	f.Apply(&m)

	assert.Equal(t, before, m)
}

func TestMachineFields_ApplyIsSoldFalse(t *testing.T) {
	m := sampleMachine()
	require.True(t, m.IsSold)

	MachineFields{IsSold: ptr(false)}.Apply(&m)
	assert.False(t, m.IsSold)

	MachineFields{}.Apply(&m)
	assert.False(t, m.IsSold)
}

func TestMachineFields_ApplyZeroStock(t *testing.T) {
	m := sampleMachine()

	MachineFields{Stock: ptr(0)}.Apply(&m)
	assert.Equal(t, 0, m.Stock)
	assert.True(t, m.IsSold)
}

func TestMachineFields_ApplyDoesNotAliasSlices(t *testing.T) {
	m := sampleMachine()
	types := TypeList{"a", "b"}

	MachineFields{Types: types}.Apply(&m)
	types[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, m.Types)
}

func TestMachineFields_ValidateCreate(t *testing.T) {
	err := MachineFields{}.ValidateCreate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	params := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		params = append(params, fe.Param)
		assert.Equal(t, "body", fe.Location)
	}
	assert.Equal(t, []string{"name", "types", "price", "description"}, params)

	ok := MachineFields{
		Name:        ptr("Drill"),
		Types:       TypeList{"power"},
		Price:       ptr(10.0),
		Description: ptr("x"),
	}
	assert.NoError(t, ok.ValidateCreate())

	ok.Stock = ptr(-1)
	assert.Error(t, ok.ValidateCreate())
}

func TestMachineFields_ValidatePatch(t *testing.T) {
	assert.NoError(t, MachineFields{}.ValidatePatch())
	assert.NoError(t, MachineFields{Stock: ptr(0)}.ValidatePatch())
	assert.Error(t, MachineFields{Stock: ptr(-2)}.ValidatePatch())
	assert.Error(t, MachineFields{Price: ptr(-0.5)}.ValidatePatch())
}

func TestMachineFields_NewMachine(t *testing.T) {
	now := time.Now().UTC()
	m := MachineFields{
		Name:        ptr(" Drill "),
		Types:       TypeList{"power"},
		Price:       ptr(10.0),
		Description: ptr("x"),
	}.NewMachine(now)

	assert.Equal(t, "Drill", m.Name)
	assert.Equal(t, 1, m.Stock)
	assert.False(t, m.IsSold)
	assert.Equal(t, []string{}, m.Images)
	assert.Equal(t, now, m.CreatedAt)
	assert.Equal(t, now, m.UpdatedAt)

	m = MachineFields{Name: ptr("Saw"), Stock: ptr(5)}.NewMachine(now)
	assert.Equal(t, 5, m.Stock)
}
