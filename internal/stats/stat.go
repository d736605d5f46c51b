// Package stats implements dashboard aggregations over the badge collection.
// All derived figures run through the same classification engine the badge
// reads use, so dashboard tallies and list annotations can never disagree.
package stats

import (
	"sort"
	"time"

	"github.com/hbenali/aeropass/internal/badges"
	"github.com/hbenali/aeropass/pkg/badge"
)

// Counts holds per-lifecycle badge totals.
type Counts struct {
	Permanent int `json:"permanent"`
	Temporary int `json:"temporary"`
	Recovered int `json:"recovered"`
	Total     int `json:"total"`
}

// StatusTally holds derived lifecycle status totals.
type StatusTally struct {
	Active     int `json:"active"`
	Expired    int `json:"expired"`
	Processing int `json:"processing"`
	Recovered  int `json:"recovered"`
}

// DelayTally holds processing-delay signal totals for in-flight badges.
type DelayTally struct {
	OnTrack int `json:"on_track"`
	Warning int `json:"warning"`
	Delayed int `json:"delayed"`
}

// CompanyCount pairs a company with its badge count.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// MonthCount pairs a month (YYYY-MM) with its badge creation count.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// YearCount pairs a year with its badge creation count.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Stats is the assembled dashboard payload.
type Stats struct {
	Counts            Counts         `json:"counts"`
	Statuses          StatusTally    `json:"statuses"`
	Delays            DelayTally     `json:"delays"`
	Companies         []CompanyCount `json:"companies"`
	AvgProcessingDays float64        `json:"avg_processing_days"`
	MonthlyCreations  []MonthCount   `json:"monthly_creations"`
	YearlyCreations   []YearCount    `json:"yearly_creations"`
	Notifications     badge.Summary  `json:"notifications"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

const topCompanies = 10

func tallyStatuses(views []badges.View) StatusTally {
	var t StatusTally
	for _, v := range views {
		switch v.Status {
		case badge.StatusActive:
			t.Active++
		case badge.StatusExpired:
			t.Expired++
		case badge.StatusProcessing:
			t.Processing++
		case badge.StatusRecovered:
			t.Recovered++
		}
	}
	return t
}

func tallyDelays(views []badges.View) DelayTally {
	var t DelayTally
	for _, v := range views {
		switch v.Processing.Status {
		case badge.DelayProcessing:
			t.OnTrack++
		case badge.DelayWarning:
			t.Warning++
		case badge.DelayLate:
			t.Delayed++
		}
	}
	return t
}

func countCompanies(views []badges.View) []CompanyCount {
	byCompany := make(map[string]int)
	for _, v := range views {
		if v.Company == "" || v.Company == "N/A" {
			continue
		}
		byCompany[v.Company]++
	}

	counts := make([]CompanyCount, 0, len(byCompany))
	for company, count := range byCompany {
		counts = append(counts, CompanyCount{Company: company, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Company < counts[j].Company
	})

	if len(counts) > topCompanies {
		counts = counts[:topCompanies]
	}
	return counts
}

// avgProcessingDays averages request-to-completion time across completed
// badges that carry both milestone dates.
func avgProcessingDays(views []badges.View) float64 {
	var total, n int
	for _, v := range views {
		if v.RequestDate == nil || v.GRReturnDate == nil {
			continue
		}
		days := int(v.GRReturnDate.Sub(*v.RequestDate).Hours() / 24)
		if days < 0 {
			continue
		}
		total += days
		n++
	}

	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// monthlyCreations buckets badge creations by month over the trailing year,
// oldest first. Months with no creations still appear with a zero count.
func monthlyCreations(views []badges.View, now time.Time) []MonthCount {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	buckets := make(map[string]int)
	months := make([]MonthCount, 0, 12)
	for i := 0; i < 12; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		buckets[key] = 0
		months = append(months, MonthCount{Month: key})
	}

	for _, v := range views {
		key := v.CreatedAt.Format("2006-01")
		if _, ok := buckets[key]; ok {
			buckets[key]++
		}
	}

	for i := range months {
		months[i].Count = buckets[months[i].Month]
	}
	return months
}

// yearlyCreations buckets every badge creation by year, oldest first.
func yearlyCreations(views []badges.View) []YearCount {
	buckets := make(map[int]int)
	for _, v := range views {
		buckets[v.CreatedAt.Year()]++
	}

	years := make([]YearCount, 0, len(buckets))
	for year, count := range buckets {
		years = append(years, YearCount{Year: year, Count: count})
	}

	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}
