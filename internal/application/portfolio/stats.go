package portfolio

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/turtacn/PatentVault/internal/domain/patent"
)

// DefaultAlertWindowDays is the dashboard's annuity alert horizon.
const DefaultAlertWindowDays = 90

// Stats summarizes the portfolio.
type Stats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	ByType       map[string]int `json:"byType"`
	ByCountry    map[string]int `json:"byCountry"`
	SurvivalRate int            `json:"survivalRate"` // percent of Active records
}

// Alert is an active patent whose annuity falls due soon.
type Alert struct {
	Patent   *patent.Patent `json:"patent"`
	DaysLeft int            `json:"daysLeft"`
}

func (s *serviceImpl) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(all), nil
}

// ComputeStats counts records by status, type and country.
func ComputeStats(ps []*patent.Patent) *Stats {
	st := &Stats{
		Total:     len(ps),
		ByStatus:  map[string]int{},
		ByType:    map[string]int{},
		ByCountry: map[string]int{},
	}
	active := 0
	for _, p := range ps {
		st.ByStatus[string(p.Status)]++
		st.ByType[string(p.Type)]++
		st.ByCountry[string(p.Country)]++
		if p.Status == patent.StatusActive {
			active++
		}
	}
	if st.Total > 0 {
		st.SurvivalRate = int(math.Round(float64(active) / float64(st.Total) * 100))
	}
	return st
}

func (s *serviceImpl) Alerts(ctx context.Context, now time.Time, withinDays int) ([]Alert, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return DueAlerts(all, now, withinDays), nil
}

func (s *serviceImpl) AlertCount(ctx context.Context, now time.Time, withinDays int) (int, error) {
	alerts, err := s.Alerts(ctx, now, withinDays)
	if err != nil {
		return 0, err
	}
	return len(alerts), nil
}

// DueAlerts selects active records whose annuity date is 1..withinDays days
// away, rounding partial days up. Records due today or overdue are not
// alerts. Results are ordered by urgency; ties keep list order.
func DueAlerts(ps []*patent.Patent, now time.Time, withinDays int) []Alert {
	if withinDays <= 0 {
		withinDays = DefaultAlertWindowDays
	}
	var out []Alert
	for _, p := range ps {
		if p.Status != patent.StatusActive || p.AnnuityDate == "" {
			continue
		}
		days, ok := patent.DaysUntil(p.AnnuityDate, now)
		if !ok || days <= 0 || days > withinDays {
			continue
		}
		out = append(out, Alert{Patent: p, DaysLeft: days})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}

//Personal.AI order the ending
