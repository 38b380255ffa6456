package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"tjarchive-backend/client"
	"tjarchive-backend/models"

	"github.com/spf13/cobra"
)

var highlightQuery string

var decisionsCmd = &cobra.Command{
	Use:   "decisions [query]",
	Short: "List decisions whose case number or subject contains query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		list, err := newClient().ListDecisions(cmd.Context(), query)
		if err != nil {
			return err
		}
		renderDecisionList(cmd.OutOrStdout(), list)
		return nil
	},
}

var decisionCmd = &cobra.Command{
	Use:   "decision <id>",
	Short: "Show one decision with its tags and reasoning outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := newClient().GetDecision(cmd.Context(), args[0])
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("decision %s not found", args[0])
		}
		if err != nil {
			return err
		}
		renderDecision(cmd.OutOrStdout(), detail, highlightQuery)
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read decision ids from stdin and show each selection",
	Long: `Read one decision id per line from stdin. Each line replaces the current
selection; a response that arrives after a newer selection is discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client.NewSelector(newClient()))
	},
}

func init() {
	decisionCmd.Flags().StringVar(&highlightQuery, "highlight", "", "highlight occurrences of this text")
	browseCmd.Flags().StringVar(&highlightQuery, "highlight", "", "highlight occurrences of this text")
}

func browse(ctx context.Context, in io.Reader, out io.Writer, selector *client.Selector) error {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}

		gen := selector.Begin(id)
		wg.Add(1)
		go func(id string, gen uint64) {
			defer wg.Done()
			detail, err := selector.Fetch(ctx, gen, id)
			if errors.Is(err, client.ErrStaleSelection) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(out, "%s: 無法載入檔案 (%v)\n", id, err)
				return
			}
			renderDecision(out, detail, highlightQuery)
		}(id, gen)
	}
	wg.Wait()
	return scanner.Err()
}

func renderDecisionList(w io.Writer, list *client.DecisionList) {
	for _, item := range list.Items {
		fmt.Fprintf(w, "%-28s %-24s %s\n", item.ID,
			orDash(models.StringValue(item.Metadata.CaseNo)),
			orDash(models.StringValue(item.Metadata.Subject)))
	}
	fmt.Fprintf(w, "%d / %d decisions\n", list.Matched, list.Total)
}
