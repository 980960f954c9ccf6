package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/reportstore"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

var mockStart = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

type mockHazard struct {
	reportType   string
	descriptions []string
}

var mockHazards = []mockHazard{
	{"flood", []string{"Streets flooded after high tide", "Water entering homes near the backwaters", "Coastal road submerged"}},
	{"tsunami", []string{"Sea receded suddenly from the beach", "Tsunami siren heard along the coast"}},
	{"oil spill", []string{"Oil slick spreading near the jetty", "Tar balls washing up on the beach"}},
	{"high waves", []string{"Huge waves crossing the promenade", "Boats struggling against the swell"}},
	{"rip current", []string{"Swimmers pulled away from shore", "Strong current near the groyne"}},
	{"storm surge", []string{"Surge flooding the fishing harbour", "Sea water pushed into the market"}},
	{"marine debris", []string{"Plastic debris piled along the tide line", "Fishing nets tangled on the rocks"}},
}

var mockLocalities = []struct {
	pincode  string
	location string
}{
	{"400001", "Fort, Mumbai"},
	{"682001", "Fort Kochi"},
	{"600001", "George Town, Chennai"},
	{"403001", "Panaji"},
	{"530001", "Visakhapatnam"},
	{"", "Marina Beach"},
}

type genmockFlags struct {
	out   string
	count int
	seed  uint64
}

func newGenmockCmd() *cobra.Command {
	var flags genmockFlags

	cmd := &cobra.Command{
		Use:   "genmock",
		Short: "Write a deterministic report history fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenmock(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.out, "out", "data/reports.json", "output path")
	f.IntVar(&flags.count, "count", domain.AggregateWindow, "number of reports to generate")
	f.Uint64Var(&flags.seed, "seed", 1, "random seed; equal seeds produce identical files")
	return cmd
}

func runGenmock(cmd *cobra.Command, flags genmockFlags) error {
	if flags.count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", flags.count)
	}

	reports := generateReports(flags.count, flags.seed)
	if err := reportstore.WriteHistory(flags.out, reports); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %d reports to %s\n", len(reports), flags.out)
	return err
}

// generateReports builds count reports with timestamps from a fake clock so
// the output depends only on seed.
func generateReports(count int, seed uint64) []domain.Report {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	clock := clockwork.NewFakeClockAt(mockStart)

	reports := make([]domain.Report, 0, count)
	for i := range count {
		clock.Advance(time.Duration(1+rng.IntN(90)) * time.Minute)

		hazard := mockHazards[rng.IntN(len(mockHazards))]
		locality := mockLocalities[rng.IntN(len(mockLocalities))]
		status := "pending"
		if rng.IntN(3) == 0 {
			status = domain.StatusVerified
		}

		reports = append(reports, domain.Report{
			ID:          fmt.Sprintf("mock-%04d", i+1),
			Category:    "ocean",
			Title:       hazard.reportType + " reported",
			Type:        hazard.reportType,
			Description: hazard.descriptions[rng.IntN(len(hazard.descriptions))],
			Location:    locality.location,
			Pincode:     locality.pincode,
			CreatedAt:   clock.Now().Format(time.RFC3339),
			Status:      status,
		})
	}
	return reports
}
