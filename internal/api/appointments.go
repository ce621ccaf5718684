package api

import (
	"context"
	"fmt"
	"net/http"
)

// AppointmentsService talks to /api/appointments.
type AppointmentsService struct {
	client *Client
}

// Appointment is one booking as returned by the list endpoint. Date is
// "2006-01-02", Time "15:04".
type Appointment struct {
	ID          int64   `json:"id"`
	Date        string  `json:"data"`
	Time        string  `json:"time"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"preco"`
	Status      string  `json:"status"`
	ClientID    int64   `json:"cliente_id"`
	ClientName  string  `json:"cliente_nome"`
	BarberID    int64   `json:"barbeiro_id"`
}

// List returns every appointment visible to the current user. The dashboard
// computes all of its metrics from this single call.
func (s *AppointmentsService) List(ctx context.Context) ([]Appointment, error) {
	var res struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    []Appointment `json:"data"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/appointments", nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// UpdateStatus transitions an appointment (barber only). Completing or
// cancelling also clears its pending notifications server-side.
func (s *AppointmentsService) UpdateStatus(ctx context.Context, id int64, status string) error {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/appointments/%d/status", id)
	if err := s.client.do(ctx, http.MethodPatch, path, map[string]string{"status": status}, &res); err != nil {
		return err
	}
	return checkEnvelope(res.Success, res.Message)
}
