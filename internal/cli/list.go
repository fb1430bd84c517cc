package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/me/dealerdash/internal/api"
	"github.com/me/dealerdash/pkg/model"
	"github.com/spf13/cobra"
)

// listFlags are the query flags every list command shares.
type listFlags struct {
	page   int
	limit  int
	search string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.limit, "limit", 20, "Rows per page (max 100)")
	cmd.Flags().StringVar(&f.search, "search", "", "Free-text search")
}

func (f *listFlags) query(filters map[string]string) model.ListQuery {
	q := model.ListQuery{Page: f.page, Limit: f.limit, Search: f.search}
	for k, v := range filters {
		if v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[k] = v
		}
	}
	q.Normalize()
	return q
}

// printTable writes fixed-width columns with a footer showing the page
// position.
func printTable(w io.Writer, headers []string, rows [][]string, pg model.Pagination) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		for i, cell := range cells {
			fmt.Fprintf(w, "%-*s  ", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
	fmt.Fprintf(w, "\n(page %d of %d, %d total)\n", pg.Page, max(pg.Pages, 1), pg.Total)
}

func newVehiclesCmd() *cobra.Command {
	var flags listFlags
	var makeID, statusID string

	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "List vehicles in stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := api.NewResource[model.Vehicle](client, "/vehicles", "vehicles")
			page, err := res.List(cmd.Context(), flags.query(map[string]string{
				"makeId": makeID, "statusId": statusID,
			}))
			if err != nil {
				return fmt.Errorf("list vehicles: %w", err)
			}

			rows := make([][]string, 0, len(page.Items))
			for i := range page.Items {
				v := &page.Items[i]
				rows = append(rows, []string{
					v.ID, v.Title(), strconv.Itoa(v.Year),
					fmt.Sprintf("%.2f", v.Price), strconv.Itoa(v.Mileage), v.StatusName,
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"ID", "VEHICLE", "YEAR", "PRICE", "MILEAGE", "STATUS"},
				rows, page.Pagination)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&makeID, "make", "", "Filter by make ID")
	cmd.Flags().StringVar(&statusID, "status", "", "Filter by status ID")
	return cmd
}

func newMakesCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "makes",
		Short: "List vehicle makes",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := api.NewResource[model.Make](client, "/makes", "makes")
			page, err := res.List(cmd.Context(), flags.query(nil))
			if err != nil {
				return fmt.Errorf("list makes: %w", err)
			}

			rows := make([][]string, 0, len(page.Items))
			for _, m := range page.Items {
				active := "yes"
				if !m.Active {
					active = "no"
				}
				rows = append(rows, []string{m.ID, m.Name, active})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "ACTIVE"}, rows, page.Pagination)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newEnquiriesCmd() *cobra.Command {
	var flags listFlags
	var status string

	cmd := &cobra.Command{
		Use:   "enquiries",
		Short: "List customer enquiries",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := api.NewResource[model.Enquiry](client, "/enquiries", "enquiries")
			page, err := res.List(cmd.Context(), flags.query(map[string]string{"status": status}))
			if err != nil {
				return fmt.Errorf("list enquiries: %w", err)
			}

			rows := make([][]string, 0, len(page.Items))
			for _, e := range page.Items {
				rows = append(rows, []string{
					e.ID, e.Name, e.Email, e.Status,
					e.CreatedAt.Format("2006-01-02"),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"ID", "NAME", "EMAIL", "STATUS", "RECEIVED"},
				rows, page.Pagination)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (new, contacted, closed)")
	return cmd
}

func newSalesCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "List completed sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := api.NewResource[model.Sale](client, "/sales", "sales")
			page, err := res.List(cmd.Context(), flags.query(nil))
			if err != nil {
				return fmt.Errorf("list sales: %w", err)
			}

			rows := make([][]string, 0, len(page.Items))
			for _, s := range page.Items {
				rows = append(rows, []string{
					s.ID, s.Vehicle.Title(), s.BuyerName,
					fmt.Sprintf("%.2f", s.Price), s.SoldAt.Format("2006-01-02"),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"ID", "VEHICLE", "BUYER", "PRICE", "SOLD"},
				rows, page.Pagination)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
