package api

import (
	"context"
	"net/http"
	"strconv"
)

// PricesService talks to /api/barber-prices.
type PricesService struct {
	client *Client
}

// Get returns the price table keyed by service name. When barberID is zero
// the server resolves the logged-in barber; clients pass the barber they are
// booking with.
func (s *PricesService) Get(ctx context.Context, barberID int64) (map[string]float64, error) {
	path := "/api/barber-prices"
	if barberID != 0 {
		path += "?barbeiro_id=" + strconv.FormatInt(barberID, 10)
	}

	var res struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    map[string]float64 `json:"data"`
	}
	if err := s.client.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Update replaces the logged-in barber's price table. The server notifies
// affected clients with preco_alterado notifications, which come back through
// the poller.
func (s *PricesService) Update(ctx context.Context, prices map[string]float64) error {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/api/barber-prices", prices, &res); err != nil {
		return err
	}
	return checkEnvelope(res.Success, res.Message)
}
