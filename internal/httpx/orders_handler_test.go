package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukelektro/storefront-api/internal/orders"
)

type fakeOrderStore struct {
	placeErr error
	orderID  int64
	gotLines []orders.Line

	order    orders.Order
	lines    []orders.Line
	getErr   error
	gotGetID int64
}

func (f *fakeOrderStore) PlaceOrder(_ context.Context, customerID, statusID int64, lines []orders.Line) (int64, error) {
	f.gotLines = lines
	if f.placeErr != nil {
		return 0, f.placeErr
	}
	return f.orderID, nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, orderID int64) (orders.Order, []orders.Line, error) {
	f.gotGetID = orderID
	if f.getErr != nil {
		return orders.Order{}, nil, f.getErr
	}
	return f.order, f.lines, nil
}

func newOrdersRouter(store *fakeOrderStore) *chi.Mux {
	r := chi.NewRouter()
	h := &OrdersHandler{Orders: store}
	h.Register(r)
	return r
}

func placeBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(PlaceOrderReq{
		CustomerID: 1,
		StatusID:   1,
		Lines: []orders.Line{
			{ProductID: 2, Quantity: 3, UnitPrice: 1500},
		},
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestPlaceOrderHandler_Created(t *testing.T) {
	store := &fakeOrderStore{orderID: 42}
	r := newOrdersRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", placeBody(t))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp PlaceOrderResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.OrderID)
	require.Len(t, store.gotLines, 1)
	assert.Equal(t, int64(1500), store.gotLines[0].UnitPrice)
}

func TestPlaceOrderHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "insufficient stock",
			err:      &orders.InsufficientStockError{ProductID: 2, Requested: 3, Available: 1},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Stock insuficiente",
		},
		{
			name:     "unknown product",
			err:      &orders.UnknownProductError{ProductID: 2},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Producto no encontrado",
		},
		{
			name:     "empty order",
			err:      orders.ErrEmptyOrder,
			wantCode: http.StatusBadRequest,
			wantMsg:  "El pedido no tiene productos",
		},
		{
			name:     "invalid quantity",
			err:      &orders.InvalidQuantityError{ProductID: 2, Quantity: 0},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Cantidad inválida",
		},
		{
			name:     "storage failure stays generic",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Error del servidor",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newOrdersRouter(&fakeOrderStore{placeErr: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/api/pedidos", placeBody(t))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tc.wantCode, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp["error"])
			// Internal detail must never leak to the client.
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestPlaceOrderHandler_BadJSON(t *testing.T) {
	r := newOrdersRouter(&fakeOrderStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON inválido")
}

func TestGetOrderHandler(t *testing.T) {
	store := &fakeOrderStore{
		order: orders.Order{
			ID:         7,
			CustomerID: 3,
			Status:     orders.StatusPending,
			CreatedAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		lines: []orders.Line{{ProductID: 2, Quantity: 1, UnitPrice: 990}},
	}
	r := newOrdersRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/pedidos/7", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), store.gotGetID)

	var resp OrderResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, orders.StatusPending, resp.Order.Status)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(990), resp.Lines[0].UnitPrice)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	r := newOrdersRouter(&fakeOrderStore{getErr: orders.ErrOrderNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/pedidos/99", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pedido no encontrado")
}

func TestGetOrderHandler_BadID(t *testing.T) {
	r := newOrdersRouter(&fakeOrderStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/pedidos/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ID inválido")
}
