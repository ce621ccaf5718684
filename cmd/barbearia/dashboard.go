package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/dashboard"
)

var (
	agendaStatus string
	agendaFrom   string
	agendaTo     string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the barber dashboard metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		appointments, err := client.Appointments.List(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		m := dashboard.Compute(appointments, now)

		fmt.Printf("Faturamento (7 dias):  R$ %.2f", m.Revenue7Days)
		if m.RevenueTrendPct != 0 {
			fmt.Printf("  (%+.1f%%)", m.RevenueTrendPct)
		}
		fmt.Println()
		fmt.Printf("Agendamentos hoje:     %d (%d concluídos, %d pendentes)\n",
			m.AppointmentsToday, m.CompletedToday, m.PendingToday)
		fmt.Printf("Clientes únicos (mês): %d\n", m.UniqueClientsMonth)
		fmt.Printf("Ticket médio:          R$ %.2f\n", m.TicketAverage)
		fmt.Printf("Serviços realizados:   %d\n", m.TotalServices)

		if top := dashboard.TopServices(appointments, 3); len(top) > 0 {
			fmt.Println("\nServiços mais realizados:")
			for i, s := range top {
				fmt.Printf("  %d. %-20s %d\n", i+1, s.Name, s.Count)
			}
		}

		weekStart := now.AddDate(0, 0, -int(now.Weekday()))
		load := dashboard.WeeklyLoad(appointments, weekStart)
		fmt.Println("\nSemana:")
		days := []string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}
		for i, n := range load {
			fmt.Printf("  %s %2d\n", days[i], n)
		}
		return nil
	},
}

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List appointments filtered by status and date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		var from, to time.Time
		var err error
		if agendaFrom != "" {
			if from, err = time.ParseInLocation("2006-01-02", agendaFrom, time.Local); err != nil {
				return fmt.Errorf("invalid --from date %q", agendaFrom)
			}
		}
		if agendaTo != "" {
			if to, err = time.ParseInLocation("2006-01-02", agendaTo, time.Local); err != nil {
				return fmt.Errorf("invalid --to date %q", agendaTo)
			}
		}

		client := newAPIClient()
		appointments, err := client.Appointments.List(cmd.Context())
		if err != nil {
			return err
		}

		for _, a := range dashboard.Agenda(appointments, agendaStatus, from, to) {
			fmt.Printf("#%-4d %s %s  %-20s %-12s R$ %.2f  %s\n",
				a.ID, a.Date, a.Time, a.ServiceName, a.Status, a.Price, a.ClientName)
		}
		return nil
	},
}

func init() {
	agendaCmd.Flags().StringVar(&agendaStatus, "status", "todos", "filter by status (todos, pendente, agendado, confirmado, concluido, cancelado)")
	agendaCmd.Flags().StringVar(&agendaFrom, "from", "", "start date (YYYY-MM-DD)")
	agendaCmd.Flags().StringVar(&agendaTo, "to", "", "end date (YYYY-MM-DD)")
	rootCmd.AddCommand(dashboardCmd, agendaCmd)
}
