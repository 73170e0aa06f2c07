package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiber-storefront/internal/domain"
)

func variant(id, color, size string) domain.Variant {
	return domain.Variant{
		ID: id,
		SelectedOptions: []domain.SelectedOption{
			{Name: "Color", Value: color},
			{Name: "Size", Value: size},
		},
	}
}

func jacket() *domain.Product {
	return &domain.Product{
		ID:     "gid://product/1",
		Handle: "jacket",
		Options: []domain.ProductOption{
			{Name: "Color", Values: []string{"Black", "Brown"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: []domain.Variant{
			variant("V1", "Black", "S"),
			variant("V2", "Black", "M"),
			variant("V3", "Brown", "S"),
		},
	}
}

func TestResolver_NoVariantForContradictorySelection(t *testing.T) {
	r := NewResolver(jacket(), "")

	require.NoError(t, r.SetSelectedOption("Color", "Brown"))
	require.NoError(t, r.SetSelectedOption("Size", "M"))

	assert.Nil(t, r.SelectedVariant())
	assert.Equal(t, map[string]string{"Color": "Brown", "Size": "M"}, r.SelectedOptions())
}

func TestResolver_ChangingOneOptionKeepsTheOther(t *testing.T) {
	r := NewResolver(jacket(), "")

	require.NoError(t, r.SetSelectedOption("Color", "Black"))
	require.NoError(t, r.SetSelectedOption("Size", "S"))
	require.NotNil(t, r.SelectedVariant())
	assert.Equal(t, "V1", r.SelectedVariant().ID)

	require.NoError(t, r.SetSelectedOption("Size", "M"))
	require.NotNil(t, r.SelectedVariant())
	assert.Equal(t, "V2", r.SelectedVariant().ID)
	assert.Equal(t, "Black", r.SelectedOptions()["Color"])
}

func TestResolver_Seeding(t *testing.T) {
	tests := []struct {
		name      string
		initialID string
		want      map[string]string
		wantID    string
	}{
		{"explicit variant", "V3", map[string]string{"Color": "Brown", "Size": "S"}, "V3"},
		{"empty id uses first", "", map[string]string{"Color": "Black", "Size": "S"}, "V1"},
		{"unknown id uses first", "V404", map[string]string{"Color": "Black", "Size": "S"}, "V1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(jacket(), tt.initialID)
			assert.Equal(t, tt.want, r.SelectedOptions())
			require.NotNil(t, r.SelectedVariant())
			assert.Equal(t, tt.wantID, r.SelectedVariant().ID)
		})
	}
}

func TestResolver_RejectsUndeclaredValues(t *testing.T) {
	r := NewResolver(jacket(), "V2")
	before := r.SelectedOptions()

	tests := []struct {
		option string
		value  string
	}{
		{"Color", "Green"},
		{"Material", "Wool"},
		{"Size", ""},
	}
	for _, tt := range tests {
		err := r.SetSelectedOption(tt.option, tt.value)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOptionValue))

		var invalid *InvalidOptionValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tt.option, invalid.Option)
		assert.Equal(t, tt.value, invalid.Value)
	}
	assert.Equal(t, before, r.SelectedOptions())
	assert.Equal(t, "V2", r.SelectedVariant().ID)
}

func TestResolver_DerivesOptionsFromVariants(t *testing.T) {
	p := jacket()
	p.Options = nil
	r := NewResolver(p, "")

	require.NoError(t, r.SetSelectedOption("Size", "M"))
	assert.Equal(t, "V2", r.SelectedVariant().ID)
	assert.ErrorIs(t, r.SetSelectedOption("Color", "Green"), ErrInvalidOptionValue)
}

func TestResolver_HasOption(t *testing.T) {
	r := NewResolver(jacket(), "")
	assert.True(t, r.HasOption("Color"))
	assert.False(t, r.HasOption("utm_source"))

	p := jacket()
	p.Options = nil
	assert.True(t, NewResolver(p, "").HasOption("Size"))
}

func TestResolver_SelectedOptionsIsACopy(t *testing.T) {
	r := NewResolver(jacket(), "")
	picks := r.SelectedOptions()
	picks["Color"] = "Brown"
	assert.Equal(t, "Black", r.SelectedOptions()["Color"])
}

func TestResolver_SetProductReseeds(t *testing.T) {
	r := NewResolver(jacket(), "V1")

	other := &domain.Product{
		Options:  []domain.ProductOption{{Name: "Title", Values: []string{"Default Title"}}},
		Variants: []domain.Variant{{ID: "only", SelectedOptions: []domain.SelectedOption{{Name: "Title", Value: "Default Title"}}}},
	}
	r.SetProduct(other, "")

	assert.Equal(t, map[string]string{"Title": "Default Title"}, r.SelectedOptions())
	assert.Equal(t, "only", r.SelectedVariant().ID)
}

func TestResolver_EmptyProduct(t *testing.T) {
	r := NewResolver(&domain.Product{}, "")
	assert.Empty(t, r.SelectedOptions())
	assert.Nil(t, r.SelectedVariant())

	r = NewResolver(nil, "")
	assert.Nil(t, r.SelectedVariant())
	assert.ErrorIs(t, r.SetSelectedOption("Color", "Black"), ErrInvalidOptionValue)
}

func TestHasMultipleOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []domain.ProductOption
		want bool
	}{
		{"none", nil, false},
		{"title option", []domain.ProductOption{{Name: "Title", Values: []string{"Default Title"}}}, false},
		{"default title value", []domain.ProductOption{{Name: "Style", Values: []string{"Default Title"}}}, false},
		{"real options", jacket().Options, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMultipleOptions(tt.opts))
		})
	}
}

func TestOptionSummary(t *testing.T) {
	opts := []domain.ProductOption{
		{Name: "Color", Values: []string{"Black", "Brown"}},
		{Name: "Size", Values: []string{"S", "M", "L"}},
		{Name: "Fit", Values: []string{"Slim"}},
	}
	assert.Equal(t, "2 Colors / 3 Sizes / 1 Fit", OptionSummary(opts))
	assert.Equal(t, "", OptionSummary(nil))
}
