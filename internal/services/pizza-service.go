package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/franciscosanchezn/pizza-search-api/internal/models"
	"github.com/franciscosanchezn/pizza-search-api/internal/search"
)

// PizzaIndex is the index holding the pizza documents
const PizzaIndex = "pizzas_dev"

var (
	// ErrStoreRejected is returned when the document store answers with an unexpected status
	ErrStoreRejected = errors.New("document store rejected the request")
	// ErrInvalidDocument is returned when a stored document does not have the shape of a pizza
	ErrInvalidDocument = errors.New("stored document is not a pizza")
)

// StatusError carries the status the document store answered with
type StatusError struct {
	StatusCode int
	Type       string
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Type == "" && e.Reason == "" {
		return fmt.Sprintf("%s: status %d", ErrStoreRejected, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s: %s", ErrStoreRejected, e.StatusCode, e.Type, e.Reason)
}

func (e *StatusError) Unwrap() error {
	return ErrStoreRejected
}

// PizzaService maps pizza records onto documents of the pizza index
type PizzaService interface {
	// GetAllPizzas retrieves every pizza of the index, in the store's order
	GetAllPizzas(ctx context.Context) ([]models.Pizza, error)
	// CreatePizza indexes a new pizza and returns it with the id the store assigned
	CreatePizza(ctx context.Context, pizza models.PizzaCreate) (models.Pizza, error)
	// Ping checks that the document store is reachable
	Ping(ctx context.Context) error
}

// pizzaService is the implementation of the PizzaService interface
type pizzaService struct {
	store search.DocumentStore
	index string
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(store search.DocumentStore) PizzaService {
	return &pizzaService{store: store, index: PizzaIndex}
}

func (s *pizzaService) GetAllPizzas(ctx context.Context) ([]models.Pizza, error) {
	res, err := s.store.QueryAll(ctx, s.index)
	if err != nil {
		return nil, err
	}

	pizzas := make([]models.Pizza, 0, len(res.Hits))
	if res.StatusCode == http.StatusNotFound && res.ErrorType == search.IndexNotFound {
		return pizzas, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: res.StatusCode, Type: res.ErrorType, Reason: res.ErrorReason}
	}

	for _, hit := range res.Hits {
		data, err := models.DecodePizzaCreate(hit.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: document %s: %w", ErrInvalidDocument, hit.ID, err)
		}
		pizzas = append(pizzas, models.NewPizza(data, hit.ID))
	}
	return pizzas, nil
}

func (s *pizzaService) CreatePizza(ctx context.Context, pizza models.PizzaCreate) (models.Pizza, error) {
	body, err := json.Marshal(pizza)
	if err != nil {
		return models.Pizza{}, fmt.Errorf("encoding pizza: %w", err)
	}

	res, err := s.store.Insert(ctx, s.index, body)
	if err != nil {
		return models.Pizza{}, err
	}
	if !res.Created() {
		return models.Pizza{}, &StatusError{StatusCode: res.StatusCode, Type: res.ErrorType, Reason: res.ErrorReason}
	}
	if res.ID == "" {
		return models.Pizza{}, fmt.Errorf("%w: created document has no id", search.ErrMalformedResponse)
	}

	return models.NewPizza(pizza, res.ID), nil
}

func (s *pizzaService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
