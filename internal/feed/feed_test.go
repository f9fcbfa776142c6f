package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": 6.5
      "Встроенная память (Гб)": 512
      "Цвет": золотистый
`

func TestParse(t *testing.T) {
	pl, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "Связной", pl.Shop)
	require.Len(t, pl.Categories, 1)
	assert.EqualValues(t, 224, pl.Categories[0].ID)

	require.Len(t, pl.Goods, 1)
	good := pl.Goods[0]
	assert.EqualValues(t, 4216292, good.ID)
	assert.EqualValues(t, 110000, good.Price)
	assert.EqualValues(t, 14, good.Quantity)

	// Mixed-type parameter values flatten to strings.
	values := good.ParameterValues()
	assert.Equal(t, "6.5", values["Диагональ (дюйм)"])
	assert.Equal(t, "512", values["Встроенная память (Гб)"])
	assert.Equal(t, "золотистый", values["Цвет"])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"broken yaml", "goods: {broken"},
		{"missing shop", "categories:\n  - id: 1\n    name: Цветы\n"},
		{"category without name", "shop: Магазин\ncategories:\n  - id: 1\n"},
		{"good without name", "shop: Магазин\ncategories:\n  - id: 1\n    name: Цветы\ngoods:\n  - id: 7\n    category: 1\n"},
		{"unknown category", "shop: Магазин\ngoods:\n  - id: 7\n    category: 9\n    name: Роза\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://feeds.example.com/price.yaml"))
	assert.NoError(t, ValidateURL("http://feeds.example.com/price.yaml"))
	assert.Error(t, ValidateURL("ftp://feeds.example.com/price.yaml"))
	assert.Error(t, ValidateURL("not a url"))
	assert.Error(t, ValidateURL(""))
}
