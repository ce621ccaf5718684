// Package dashboard computes the barber dashboard figures from the full
// appointment list, mirroring what the web dashboard derived client-side.
package dashboard

import (
	"sort"
	"time"

	"github.com/rfmelo/barbearia-client/internal/api"
)

// Statuses an appointment moves through. "pendente"/"agendado"/"confirmado"
// count as active; only "concluido" contributes revenue.
const (
	StatusPending   = "pendente"
	StatusScheduled = "agendado"
	StatusConfirmed = "confirmado"
	StatusCompleted = "concluido"
	StatusCancelled = "cancelado"
)

// Metrics is the headline card row of the dashboard.
type Metrics struct {
	Revenue7Days       float64
	RevenueTrendPct    float64
	AppointmentsToday  int
	CompletedToday     int
	PendingToday       int
	UniqueClientsMonth int
	TicketAverage      float64
	TotalServices      int
}

// ServiceCount is one entry of the top-services ranking.
type ServiceCount struct {
	Name  string
	Count int
}

func activeStatus(status string) bool {
	return status == StatusScheduled || status == StatusConfirmed || status == StatusPending
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	return t, err == nil
}

// Compute derives the metric cards from the appointment list. Appointments
// with unparseable dates are skipped rather than failing the whole dashboard.
func Compute(appointments []api.Appointment, now time.Time) Metrics {
	var m Metrics

	today := now.Format("2006-01-02")
	sevenDaysAgo := now.AddDate(0, 0, -7)
	fourteenDaysAgo := now.AddDate(0, 0, -14)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenuePrev float64
	var totalRevenue float64
	clients := make(map[int64]struct{})

	for _, a := range appointments {
		if a.Date == today {
			if activeStatus(a.Status) {
				m.AppointmentsToday++
				m.PendingToday++
			}
			if a.Status == StatusCompleted {
				m.CompletedToday++
			}
		}

		if a.Status != StatusCompleted {
			continue
		}

		m.TotalServices++
		totalRevenue += a.Price

		date, ok := parseDate(a.Date)
		if !ok {
			continue
		}
		if !date.Before(sevenDaysAgo) {
			m.Revenue7Days += a.Price
		} else if !date.Before(fourteenDaysAgo) {
			revenuePrev += a.Price
		}
		if !date.Before(firstOfMonth) {
			clients[a.ClientID] = struct{}{}
		}
	}

	m.UniqueClientsMonth = len(clients)
	if m.TotalServices > 0 {
		m.TicketAverage = totalRevenue / float64(m.TotalServices)
	}
	if revenuePrev > 0 {
		m.RevenueTrendPct = (m.Revenue7Days - revenuePrev) / revenuePrev * 100
	}

	return m
}

// TopServices ranks completed services by count, limited to n. Ties resolve
// alphabetically so output is stable.
func TopServices(appointments []api.Appointment, n int) []ServiceCount {
	counts := make(map[string]int)
	for _, a := range appointments {
		if a.Status == StatusCompleted && a.ServiceName != "" {
			counts[a.ServiceName]++
		}
	}

	ranked := make([]ServiceCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, ServiceCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WeeklyLoad counts active appointments per day for the 7 days starting at
// weekStart, for the agenda chart.
func WeeklyLoad(appointments []api.Appointment, weekStart time.Time) [7]int {
	var load [7]int
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	for _, a := range appointments {
		if !activeStatus(a.Status) {
			continue
		}
		date, ok := parseDate(a.Date)
		if !ok {
			continue
		}
		offset := int(date.Sub(start).Hours() / 24)
		if offset >= 0 && offset < 7 {
			load[offset]++
		}
	}
	return load
}

// Agenda filters by status ("todos" keeps everything) and inclusive date
// range, sorted by date then time ascending. Zero from/to disable that bound.
func Agenda(appointments []api.Appointment, status string, from, to time.Time) []api.Appointment {
	var out []api.Appointment
	for _, a := range appointments {
		if status != "" && status != "todos" && a.Status != status {
			continue
		}
		date, ok := parseDate(a.Date)
		if !ok {
			continue
		}
		if !from.IsZero() && date.Before(truncate(from)) {
			continue
		}
		if !to.IsZero() && date.After(truncate(to)) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
