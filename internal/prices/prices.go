// Package prices validates and applies the barber's price table.
package prices

import (
	"context"
	"errors"
	"fmt"
)

// The fixed service set the pricing page manages.
const (
	ServiceHaircut = "Corte"
	ServiceCombo   = "Corte + Barba"
	ServiceBeard   = "Barba"
)

// Services lists the managed services in display order.
var Services = []string{ServiceHaircut, ServiceCombo, ServiceBeard}

// Defaults returned when a barber has never set prices.
var Defaults = map[string]float64{
	ServiceHaircut: 35.00,
	ServiceCombo:   55.00,
	ServiceBeard:   25.00,
}

var (
	ErrNonPositive = errors.New("todos os preços devem ser maiores que zero")
	ErrComboBelow  = errors.New(`o preço de "Corte + Barba" deve ser maior ou igual ao do "Corte"`)
)

// Validate applies the pricing rules: every managed service priced, all
// prices positive, and the combo at least the haircut price.
func Validate(table map[string]float64) error {
	for _, svc := range Services {
		price, ok := table[svc]
		if !ok {
			return fmt.Errorf("preço de %q obrigatório", svc)
		}
		if price <= 0 {
			return ErrNonPositive
		}
	}
	if table[ServiceCombo] < table[ServiceHaircut] {
		return ErrComboBelow
	}
	return nil
}

// Updater is the API slice used to persist prices. *api.PricesService
// satisfies it.
type Updater interface {
	Update(ctx context.Context, prices map[string]float64) error
}

// Apply validates then persists the table. The server fans out
// preco_alterado notifications to affected clients.
func Apply(ctx context.Context, u Updater, table map[string]float64) error {
	if err := Validate(table); err != nil {
		return err
	}
	return u.Update(ctx, table)
}
