package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports validation failures with the json field names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Ingredients is the ordered list of ingredients of a pizza
type Ingredients []string

// MarshalJSON always encodes ingredients as an array, never null
func (i Ingredients) MarshalJSON() ([]byte, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(i))
}

// PizzaCreate is the payload accepted when creating a pizza. It carries no identity.
type PizzaCreate struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Ingredients Ingredients `json:"ingredients"`
}

// pizzaCreatePayload mirrors PizzaCreate with nullable fields so missing keys can be told apart from zero values
type pizzaCreatePayload struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Ingredients []string `json:"ingredients" validate:"required"`
}

// UnmarshalJSON decodes a PizzaCreate and fails with a *DeserializationError
// when a field is missing, null or of the wrong type
func (p *PizzaCreate) UnmarshalJSON(data []byte) error {
	var payload pizzaCreatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return newDeserializationError(err)
	}
	if err := validate.Struct(payload); err != nil {
		return newDeserializationError(err)
	}

	*p = PizzaCreate{
		Name:        *payload.Name,
		Description: *payload.Description,
		Price:       *payload.Price,
		Ingredients: Ingredients(payload.Ingredients),
	}
	return nil
}

// DecodePizzaCreate parses a raw document into a PizzaCreate
func DecodePizzaCreate(data []byte) (PizzaCreate, error) {
	var p PizzaCreate
	if err := json.Unmarshal(data, &p); err != nil {
		// syntax errors are reported by json.Unmarshal before UnmarshalJSON runs
		var de *DeserializationError
		if errors.As(err, &de) {
			return PizzaCreate{}, de
		}
		return PizzaCreate{}, newDeserializationError(err)
	}
	return p, nil
}

// Pizza represents a pizza stored in the index, identified by the id the store assigned
type Pizza struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Ingredients Ingredients `json:"ingredients"`
}

// NewPizza combines a creation payload with the store-assigned id
func NewPizza(data PizzaCreate, id string) Pizza {
	return Pizza{
		ID:          id,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Ingredients: data.Ingredients,
	}
}

// UnmarshalJSON decodes a Pizza with the same structural checks as PizzaCreate plus a required id
func (p *Pizza) UnmarshalJSON(data []byte) error {
	var envelope struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return newDeserializationError(err)
	}
	if envelope.ID == nil {
		return &DeserializationError{Field: "id", Reason: "required"}
	}

	var create PizzaCreate
	if err := create.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = NewPizza(create, *envelope.ID)
	return nil
}

// Document returns the payload stored in the index for this pizza, without its id
func (p Pizza) Document() PizzaCreate {
	return PizzaCreate{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Ingredients: p.Ingredients,
	}
}

func (p PizzaCreate) String() string {
	return fmt.Sprintf("PizzaCreate{Name: %s, Price: %.2f, Ingredients: %d}", p.Name, p.Price, len(p.Ingredients))
}
