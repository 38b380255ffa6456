package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"tjarchive-backend/client"
	"tjarchive-backend/models"

	"github.com/spf13/cobra"
)

var (
	revocationSearch   string
	revocationCategory int
	revocationPage     int
	revocationPageSize int
)

var revocationsCmd = &cobra.Command{
	Use:   "revocations",
	Short: "Search the revocation announcements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := client.RevocationQuery{
			Search:   revocationSearch,
			Page:     revocationPage,
			PageSize: revocationPageSize,
		}
		switch revocationCategory {
		case 0:
		case int(models.CategoryCompensation), int(models.CategoryCommission):
			category := models.RevocationCategory(revocationCategory)
			q.Category = &category
		default:
			return fmt.Errorf("unknown category %d", revocationCategory)
		}

		list, err := newClient().ListRevocations(cmd.Context(), q)
		if err != nil {
			return err
		}
		renderRevocations(cmd.OutOrStdout(), list)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the archive summary and distributions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().Statistics(cmd.Context())
		if err != nil {
			return err
		}
		renderStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <text>",
	Short: "Tag free text with crime, reason and sentence labels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := newClient().Tag(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		renderTags(cmd.OutOrStdout(), *tags)
		return nil
	},
}

func init() {
	revocationsCmd.Flags().StringVarP(&revocationSearch, "query", "q", "", "match name or case id")
	revocationsCmd.Flags().IntVar(&revocationCategory, "category", 0, "1 (compensation) or 2 (commission); 0 for all")
	revocationsCmd.Flags().IntVar(&revocationPage, "page", 1, "page number")
	revocationsCmd.Flags().IntVar(&revocationPageSize, "page-size", 0, "rows per page; 0 uses the server default")
}

func renderRevocations(w io.Writer, list *client.RevocationList) {
	for _, r := range list.Page.Items {
		linked := ""
		if r.HasDecision() {
			linked = " -> " + *r.LinkedDecisionID
		}
		fmt.Fprintf(w, "%-6s %-10s %s | %s | %s | %s%s\n",
			r.ID, r.Name, r.Category.Label(),
			orDash(r.Court.Joined("、")),
			orDash(r.CaseID.Joined("、")),
			orDash(r.Sentence.Joined("、")),
			linked)
	}

	page := list.Page
	fmt.Fprintf(w, "page %d/%d, %d matched of %d", page.Page, page.TotalPages, page.TotalMatched, list.Total)
	for _, key := range []models.RevocationCategory{models.CategoryCompensation, models.CategoryCommission} {
		fmt.Fprintf(w, ", %s %d", key.Label(), list.Counts[strconv.Itoa(int(key))])
	}
	fmt.Fprintln(w)
}

func renderStats(w io.Writer, stats *client.Stats) {
	s := stats.Summary
	fmt.Fprintf(w, "revocations: %d (compensation %d, commission %d)\n",
		s.TotalRevocations, s.CompensationCount, s.CommissionCount)
	fmt.Fprintf(w, "digitized decisions: %d, linked revocations: %d\n", s.DigitizedDecisions, s.LinkedRevocations)

	renderBuckets(w, "courts", stats.Statistics.ByCourt)
	renderBuckets(w, "crimes", stats.Statistics.ByCrime)
	renderBuckets(w, "sentences", stats.Statistics.BySeverity)
}

func renderBuckets(w io.Writer, title string, buckets []models.FrequencyBucket) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, b := range buckets {
		fmt.Fprintf(w, "  %-20s %d\n", b.Name, b.Count)
	}
}
