package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogHandler_Quote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := catalog.New()
	require.NoError(t, err)
	ch, err := NewCatalogHandler(c, zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/quote", ch.Quote)

	tests := []struct {
		name      string
		query     string
		status    int
		amount    int64
		price     string
		orderable bool
	}{
		{name: "Amount in RUB by default", query: "amount=1000", status: http.StatusOK, amount: 1000, price: "1250", orderable: true},
		{name: "Amount in USD", query: "amount=1000&currency=USD", status: http.StatusOK, amount: 1000, price: "12.50", orderable: true},
		{name: "Language code picks currency", query: "amount=400&currency=en", status: http.StatusOK, amount: 400, price: "5.00", orderable: true},
		{name: "Below minimum is quoted but not orderable", query: "amount=399", status: http.StatusOK, amount: 399, price: "498"},
		{name: "Price truncates down", query: "price=5.01&currency=USD", status: http.StatusOK, amount: 400, price: "5.01", orderable: true},
		{name: "Rouble price", query: "price=1250", status: http.StatusOK, amount: 1000, price: "1250", orderable: true},
		{name: "Garbage amount", query: "amount=lots", status: http.StatusBadRequest},
		{name: "Negative amount", query: "amount=-5", status: http.StatusBadRequest},
		{name: "Unknown currency", query: "amount=400&currency=EUR", status: http.StatusBadRequest},
		{name: "Nothing to quote", query: "", status: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quote?"+test.query, nil))
			require.Equal(t, test.status, rec.Code, rec.Body.String())
			if test.status != http.StatusOK {
				return
			}

			var resp struct {
				Amount int64 `json:"amount"`
				Price  struct {
					Value string `json:"value"`
				} `json:"price"`
				Orderable bool `json:"orderable"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, test.amount, resp.Amount)
			assert.Equal(t, test.price, resp.Price.Value)
			assert.Equal(t, test.orderable, resp.Orderable)
		})
	}
}
