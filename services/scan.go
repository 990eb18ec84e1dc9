package services

import (
	"sort"
	"time"

	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

// Scan row reasons, machine-readable.
const (
	ScanReasonOverdue   = "OVERDUE"
	ScanReasonDueSoon   = "DUE_SOON"
	ScanReasonStale     = "STALE"
	ScanReasonNoHistory = "NO_HISTORY"
)

// ScanConfig tunes the clients-needing-inspection scan.
type ScanConfig struct {
	HorizonDays int
	StaleYears  int
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.HorizonDays <= 0 {
		c.HorizonDays = 180
	}
	if c.StaleYears <= 0 {
		c.StaleYears = 4
	}
	return c
}

// ClientsNeedingInspection scans the client directory for outreach
// candidates in three disjoint groups: a known due date within the horizon,
// a stale last inspection with no due date, and no inspection history at
// all. Stale and no-history clients are forced to URGENT/HIGH regardless of
// date math. The result is ordered most urgent first, soonest due first
// within a priority tier.
func (s *CallTaskService) ClientsNeedingInspection(actor models.Actor, cfg ScanConfig) ([]models.ClientNeedingInspection, error) {
	if !Can(actor.Role, OpScanClients) {
		return nil, ErrPermissionDenied
	}
	cfg = cfg.withDefaults()

	clients, err := s.store.ListClients()
	if err != nil {
		return nil, err
	}

	today := time.Now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	staleBefore := today.AddDate(-cfg.StaleYears, 0, 0)

	candidates := make([]models.ClientNeedingInspection, 0)
	for i := range clients {
		client := &clients[i]

		row := models.ClientNeedingInspection{
			UserID:             client.ID,
			Name:               client.FullName(),
			Email:              client.Email,
			DNI:                client.DNI,
			Address:            client.Address,
			LastInspectionDate: client.LastInspectionDate,
			NextInspectionDue:  client.NextInspectionDue,
		}
		if client.Phone != nil {
			row.Phone = *client.Phone
		}

		switch {
		case client.NextInspectionDue != nil && *client.NextInspectionDue != "":
			due, err := parseDate(*client.NextInspectionDue)
			if err != nil {
				continue
			}
			days := int(due.Sub(today).Hours() / 24)
			if days > cfg.HorizonDays {
				continue
			}
			row.DaysUntilDue = &days
			row.Priority = PriorityForDays(days)
			if days < 0 {
				row.Reason = ScanReasonOverdue
			} else {
				row.Reason = ScanReasonDueSoon
			}

		case client.LastInspectionDate != nil && *client.LastInspectionDate != "":
			last, err := parseDate(*client.LastInspectionDate)
			if err != nil {
				continue
			}
			if !last.Before(staleBefore) {
				continue
			}
			row.Priority = models.PriorityUrgent
			row.Reason = ScanReasonStale

		default:
			row.Priority = models.PriorityHigh
			row.Reason = ScanReasonNoHistory
		}

		candidates = append(candidates, row)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		// Known due dates sort before unknown ones within a tier.
		switch {
		case a.DaysUntilDue != nil && b.DaysUntilDue != nil:
			return *a.DaysUntilDue < *b.DaysUntilDue
		case a.DaysUntilDue != nil:
			return true
		case b.DaysUntilDue != nil:
			return false
		}
		return a.Name < b.Name
	})

	return candidates, nil
}
