package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/franciscosanchezn/pizza-search-api/internal/database"
	"github.com/franciscosanchezn/pizza-search-api/internal/models"
	"github.com/franciscosanchezn/pizza-search-api/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore answers every call with the configured response
type fakeStore struct {
	index     *search.IndexResponse
	search    *search.SearchResponse
	err       error
	lastIndex string
	lastBody  []byte
}

func (f *fakeStore) Insert(ctx context.Context, index string, document []byte) (*search.IndexResponse, error) {
	f.lastIndex = index
	f.lastBody = document
	return f.index, f.err
}

func (f *fakeStore) QueryAll(ctx context.Context, index string) (*search.SearchResponse, error) {
	f.lastIndex = index
	return f.search, f.err
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.err }

func (f *fakeStore) Close() error { return nil }

func setupSQLiteService(t *testing.T) PizzaService {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	store, err := search.NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewPizzaService(store)
}

func margherita() models.PizzaCreate {
	return models.PizzaCreate{
		Name:        "Margherita",
		Description: "Classic",
		Price:       8.5,
		Ingredients: models.Ingredients{"tomato", "mozzarella", "basil"},
	}
}

func TestCreatePizzaSendsDocument(t *testing.T) {
	store := &fakeStore{index: &search.IndexResponse{StatusCode: http.StatusCreated, ID: "x1", Result: "created"}}
	service := NewPizzaService(store)

	pizza, err := service.CreatePizza(context.Background(), margherita())

	require.NoError(t, err)
	assert.Equal(t, models.NewPizza(margherita(), "x1"), pizza)
	assert.Equal(t, PizzaIndex, store.lastIndex)
	assert.JSONEq(t, `{"name":"Margherita","description":"Classic","price":8.5,"ingredients":["tomato","mozzarella","basil"]}`, string(store.lastBody))
}

func TestCreatePizzaRejected(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "bad request", status: http.StatusBadRequest},
		{name: "ok instead of created", status: http.StatusOK},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{index: &search.IndexResponse{StatusCode: tt.status, ErrorType: "some_exception"}}

			_, err := NewPizzaService(store).CreatePizza(context.Background(), margherita())

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStoreRejected))
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestCreatePizzaWithoutID(t *testing.T) {
	store := &fakeStore{index: &search.IndexResponse{StatusCode: http.StatusCreated}}

	_, err := NewPizzaService(store).CreatePizza(context.Background(), margherita())

	assert.True(t, errors.Is(err, search.ErrMalformedResponse))
}

func TestCreatePizzaTransportError(t *testing.T) {
	store := &fakeStore{err: search.ErrUnavailable}

	_, err := NewPizzaService(store).CreatePizza(context.Background(), margherita())

	assert.True(t, errors.Is(err, search.ErrUnavailable))
	assert.False(t, errors.Is(err, ErrStoreRejected))
}

func TestGetAllPizzasMissingIndexIsEmpty(t *testing.T) {
	store := &fakeStore{search: &search.SearchResponse{StatusCode: http.StatusNotFound, ErrorType: search.IndexNotFound}}

	pizzas, err := NewPizzaService(store).GetAllPizzas(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, pizzas)
	assert.Empty(t, pizzas)
	assert.Equal(t, PizzaIndex, store.lastIndex)
}

func TestGetAllPizzasStatusError(t *testing.T) {
	store := &fakeStore{search: &search.SearchResponse{StatusCode: http.StatusForbidden, ErrorType: "security_exception", ErrorReason: "unauthorized"}}

	_, err := NewPizzaService(store).GetAllPizzas(context.Background())

	assert.True(t, errors.Is(err, ErrStoreRejected))
	assert.Contains(t, err.Error(), "security_exception")
}

func TestGetAllPizzasInvalidDocument(t *testing.T) {
	store := &fakeStore{search: &search.SearchResponse{
		StatusCode: http.StatusOK,
		Hits: []search.Hit{
			{ID: "ok", Source: json.RawMessage(`{"name":"n","description":"d","price":1,"ingredients":[]}`)},
			{ID: "broken", Source: json.RawMessage(`{"name":"n","price":"free"}`)},
		},
	}}

	_, err := NewPizzaService(store).GetAllPizzas(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
	var de *models.DeserializationError
	assert.True(t, errors.As(err, &de))
	assert.Contains(t, err.Error(), "broken")
}

func TestCreateThenListWithSQLiteStore(t *testing.T) {
	service := setupSQLiteService(t)
	ctx := context.Background()

	pizzas, err := service.GetAllPizzas(ctx)
	require.NoError(t, err)
	assert.Empty(t, pizzas)

	first, err := service.CreatePizza(ctx, margherita())
	require.NoError(t, err)
	second, err := service.CreatePizza(ctx, margherita())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	pizzas, err = service.GetAllPizzas(ctx)
	require.NoError(t, err)
	require.Len(t, pizzas, 2)
	assert.Equal(t, first, pizzas[0])
	assert.Equal(t, second, pizzas[1])
}

func TestPingDelegatesToStore(t *testing.T) {
	service := setupSQLiteService(t)
	assert.NoError(t, service.Ping(context.Background()))

	failing := NewPizzaService(&fakeStore{err: search.ErrUnavailable})
	assert.ErrorIs(t, failing.Ping(context.Background()), search.ErrUnavailable)
}
