package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review mapped competences",
		Long:  `List competences by review status and approve, reject, reassign or recategorize them.`,
	}

	cmd.AddCommand(reviewListCmd())
	cmd.AddCommand(reviewActionCmd("approve", "Approve competences", "Review notes (default: Approved via UI)"))
	cmd.AddCommand(reviewActionCmd("reject", "Reject competences", "Rejection notes (required)"))
	cmd.AddCommand(reviewActionCmd("assign-other", "Assign competences to the Other area", "Review notes (default: Assigned to Other via UI)"))
	cmd.AddCommand(recategorizeCmd())
	cmd.AddCommand(taxonomyCmd())

	return cmd
}

func reviewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List competences of one review status",
		Example: `  lia review list
  lia review list --tab approved --area IT --sort confidence --desc`,
		RunE: runReviewList,
	}

	cmd.Flags().String("tab", string(review.TabPending), "pending, approved or rejected")
	cmd.Flags().String("search", "", "search name and normalized name")
	cmd.Flags().String("area", "", "filter by area name")
	cmd.Flags().String("category", "", "filter by category name")
	cmd.Flags().String("subcategory", "", "filter by subcategory name")
	cmd.Flags().String("type", "", "filter by matched type")
	cmd.Flags().String("sort", string(review.SortName), "name, area, confidence or createdAt")
	cmd.Flags().Bool("desc", false, "sort descending")
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("page-size", review.DefaultPageSize, "competences per page")

	return cmd
}

func runReviewList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	tabName, _ := cmd.Flags().GetString("tab")
	tab, err := review.ParseTab(tabName)
	if err != nil {
		return err
	}

	sortName, _ := cmd.Flags().GetString("sort")
	sort := review.Sort{Field: review.SortField(sortName), Direction: review.Ascending}
	if !sort.Field.Valid() {
		return fmt.Errorf("unknown sort field %q", sortName)
	}
	if desc, _ := cmd.Flags().GetBool("desc"); desc {
		sort.Direction = review.Descending
	}

	var f review.Filter
	f.Search, _ = cmd.Flags().GetString("search")
	f.Area, _ = cmd.Flags().GetString("area")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Subcategory, _ = cmd.Flags().GetString("subcategory")
	f.MatchedType, _ = cmd.Flags().GetString("type")

	pageNum, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireLogin(); err != nil {
		return err
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), "Loading "+string(tab)+" competences")
	items, err := a.api.FetchAll(ctx, tab.Status(), progress.Update)
	progress.Done()
	if err != nil {
		return fmt.Errorf("failed to load %s competences: %s", tab, feedback.Message(err))
	}

	page := review.Derive(items, f, sort, max(pageNum-1, 0), size)
	printPage(cmd.OutOrStdout(), page, f, sort)
	return nil
}

func printPage(w io.Writer, page review.Page, f review.Filter, sort review.Sort) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No competences found."))
		return
	}

	header := append([]string{"ID"}, viewmodel.TableHeader...)
	rows := make([][]string, 0, len(page.Items))
	for _, c := range page.Items {
		row := viewmodel.Row(c, false, false)
		rows = append(rows, append([]string{string(c.CompetenceID)}, row.Cells...))
	}
	fmt.Fprint(w, cli.RenderTable(header, rows, viewmodel.TableNotesLimit))

	summary := fmt.Sprintf("Page %d of %d · %d total · sort %s", page.Index+1, page.Count(), page.Total, viewmodel.SortLabel(sort))
	for _, label := range viewmodel.FilterLabels(f) {
		summary += " · " + label
	}
	fmt.Fprintln(w, cli.SubtleStyle.Render(summary))
}

func reviewActionCmd(name, short, notesHelp string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			notes, _ := cmd.Flags().GetString("notes")

			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			list := a.list(feedback.NewTerminal(cmd.OutOrStdout()), review.WithoutReload())
			ids := toIDs(args)
			switch name {
			case "approve":
				return list.Approve(ctx, ids, notes)
			case "reject":
				return list.Reject(ctx, ids, notes)
			default:
				return list.AssignOther(ctx, ids, notes)
			}
		},
	}

	cmd.Flags().StringP("notes", "n", "", notesHelp)

	return cmd
}

func recategorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recategorize <id>",
		Short: "Change a competence's area, category and subcategory",
		Long: `Change a competence's categorization. Area and category are required;
use 'lia review taxonomy' to look up the ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d := review.Draft{
				AreaID:        intFlag(cmd, "area-id"),
				CategoryID:    intFlag(cmd, "category-id"),
				SubcategoryID: intFlag(cmd, "subcategory-id"),
			}

			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			list := a.list(feedback.NewTerminal(cmd.OutOrStdout()), review.WithoutReload())
			return list.Recategorize(ctx, model.ID(args[0]), d)
		},
	}

	cmd.Flags().Int("area-id", 0, "area id")
	cmd.Flags().Int("category-id", 0, "category id")
	cmd.Flags().Int("subcategory-id", 0, "subcategory id (optional)")

	return cmd
}

func taxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List areas, categories and subcategories with their ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			m, err := a.api.GetMetadata(ctx)
			if err != nil {
				return fmt.Errorf("failed to load categories: %s", feedback.Message(err))
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable([]string{"Area", "Category", "Subcategory"}, taxonomyRows(m), 50))
			return nil
		},
	}
}

// taxonomyRows flattens the hierarchy, one row per leaf, as "name (id)".
func taxonomyRows(m model.Metadata) [][]string {
	label := func(name string, id int) string {
		return fmt.Sprintf("%s (%d)", name, id)
	}

	var rows [][]string
	for _, area := range m.Areas {
		cats := m.CategoriesOf(area.ID)
		if len(cats) == 0 {
			rows = append(rows, []string{label(area.Name, area.ID), "", ""})
			continue
		}
		for _, cat := range cats {
			subs := m.SubcategoriesOf(cat.ID)
			if len(subs) == 0 {
				rows = append(rows, []string{label(area.Name, area.ID), label(cat.Name, cat.ID), ""})
				continue
			}
			for _, sub := range subs {
				rows = append(rows, []string{label(area.Name, area.ID), label(cat.Name, cat.ID), label(sub.Name, sub.ID)})
			}
		}
	}
	return rows
}

func toIDs(args []string) []model.ID {
	ids := make([]model.ID, len(args))
	for i, a := range args {
		ids[i] = model.ID(a)
	}
	return ids
}

// intFlag returns nil for flags left unset.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
