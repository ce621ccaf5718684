package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/prices"
)

var pricesBarberID int64

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the price table",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		table, err := client.Prices.Get(cmd.Context(), pricesBarberID)
		if err != nil {
			return err
		}
		if len(table) == 0 {
			table = prices.Defaults
		}

		for _, svc := range prices.Services {
			fmt.Printf("%-16s R$ %.2f\n", svc, table[svc])
		}
		return nil
	},
}

var pricesSetCmd = &cobra.Command{
	Use:   "set <corte> <corte+barba> <barba>",
	Short: "Update the price table",
	Args:  cobra.ExactArgs(len(prices.Services)),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := make(map[string]float64, len(prices.Services))
		for i, svc := range prices.Services {
			v, err := strconv.ParseFloat(strings.ReplaceAll(args[i], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("preço inválido para %q: %s", svc, args[i])
			}
			table[svc] = v
		}

		err := prices.Apply(cmd.Context(), newAPIClient().Prices, table)
		if errors.Is(err, prices.ErrNonPositive) || errors.Is(err, prices.ErrComboBelow) {
			return err
		}
		if err != nil {
			return fmt.Errorf("update prices: %w", err)
		}

		fmt.Println("Preços atualizados")
		return nil
	},
}

func init() {
	pricesCmd.Flags().Int64Var(&pricesBarberID, "barbeiro", 0, "barber id (clients only; barbers see their own table)")
	pricesCmd.AddCommand(pricesSetCmd)
	rootCmd.AddCommand(pricesCmd)
}
