package shopping

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-dz/foodgram/internal/database"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []database.ShoppingCartIngredient
		want  []Line
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  []Line{},
		},
		{
			name: "same ingredient across recipes is summed",
			items: []database.ShoppingCartIngredient{
				{Name: "sugar", MeasurementUnit: "g", Amount: 100},
				{Name: "flour", MeasurementUnit: "g", Amount: 500},
				{Name: "sugar", MeasurementUnit: "g", Amount: 50},
			},
			want: []Line{
				{Name: "flour", Unit: "g", Amount: 500},
				{Name: "sugar", Unit: "g", Amount: 150},
			},
		},
		{
			name: "different units stay separate",
			items: []database.ShoppingCartIngredient{
				{Name: "milk", MeasurementUnit: "ml", Amount: 200},
				{Name: "milk", MeasurementUnit: "cup", Amount: 1},
				{Name: "milk", MeasurementUnit: "ml", Amount: 300},
			},
			want: []Line{
				{Name: "milk", Unit: "cup", Amount: 1},
				{Name: "milk", Unit: "ml", Amount: 500},
			},
		},
		{
			name: "large totals do not overflow int32",
			items: []database.ShoppingCartIngredient{
				{Name: "water", MeasurementUnit: "ml", Amount: 2_000_000_000},
				{Name: "water", MeasurementUnit: "ml", Amount: 2_000_000_000},
			},
			want: []Line{
				{Name: "water", Unit: "ml", Amount: 4_000_000_000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.items))
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "Ivan", "Petrov", []Line{
		{Name: "eggs", Unit: "pcs", Amount: 3},
		{Name: "salt", Unit: "g", Amount: 5},
	})
	require.NoError(t, err)

	want := "Shopping list for: Ivan Petrov\n\n" +
		"eggs (pcs) - 3\n" +
		"salt (g) - 5\n"
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteError(t *testing.T) {
	err := Write(failingWriter{}, "a", "b", nil)
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "chef_shopping_list.txt", Filename("chef"))
}
