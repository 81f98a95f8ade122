package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/render"
)

const timeLayout = "2006-01-02 15:04"

func newNewCmd(a *app) *cobra.Command {
	var title, content, category string
	var tags []string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Long: `Create a note owned by the logged-in user.
Hashtags found in the content (#idea) are added to the --tag values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}
			u, err := a.currentUser(ctx, nb)
			if err != nil {
				return err
			}

			var cat core.Category
			if category != "" {
				if cat, err = core.ParseCategory(category); err != nil {
					return err
				}
			}

			n, err := nb.Service.Create(ctx, core.NewNote{
				Title:       title,
				Content:     content,
				Category:    cat,
				Tags:        core.MergeTags(tags, core.ExtractTags(content)...),
				CreatorID:   u.ID,
				CreatorName: u.Name,
			})
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", n.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&content, "content", "", "Note content")
	cmd.Flags().StringVar(&category, "category", "", "Category (default Other)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var q core.Query
	var category, sort, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}
			u, err := a.currentUser(ctx, nb)
			if err != nil {
				return err
			}

			q.CreatorID = u.ID
			q.Sort = core.SortField(sort)
			q.Order = core.SortOrder(order)
			if category != "" {
				if q.Category, err = core.ParseCategory(category); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("page-size") {
				q.PageSize = a.cfg.PageSize
			}

			page, err := nb.Service.Query(ctx, q)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&category, "category", "", "Only notes of this category")
	f.StringVar(&q.Search, "search", "", "Case-insensitive text in title, content or tags")
	f.StringVar(&q.Match, "match", "", "Glob over the title, e.g. 'meeting*'")
	f.StringVar(&sort, "sort", string(core.SortUpdatedAt), "Sort by updatedAt, createdAt or title")
	f.StringVar(&order, "order", string(core.OrderDesc), "Order: asc or desc")
	f.IntVar(&q.Page, "page", 1, "Page number, starting at 1")
	f.IntVar(&q.PageSize, "page-size", core.DefaultPageSize, "Notes per page (env JOT_PAGE_SIZE)")
	return cmd
}

func printPage(w io.Writer, page core.Page) {
	if page.Total == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	for _, n := range page.Notes {
		fmt.Fprintf(w, "%s  %s  %-8s  %s%s\n",
			n.ID, n.UpdatedAt.Local().Format(timeLayout), n.Category, n.Title, formatTags(n.Tags))
	}
	fmt.Fprintf(w, "page %d/%d (%d notes)\n", page.Page, page.TotalPages, page.Total)
}

func newShowCmd(a *app) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}
			n, err := nb.Service.Get(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case a.jsonOut:
				return writeJSON(out, n)
			case asHTML:
				html, err := render.Note(n)
				if err != nil {
					return err
				}
				fmt.Fprint(out, html)
			default:
				fmt.Fprintf(out, "%s%s\n", n.Title, formatTags(n.Tags))
				fmt.Fprintf(out, "%s · %s · created %s · updated %s\n\n",
					n.Category, n.CreatorName, n.CreatedAt.Local().Format(timeLayout), n.UpdatedAt.Local().Format(timeLayout))
				fmt.Fprintln(out, n.Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the content as HTML")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var title, content, category string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a note",
		Long: `Edit the given fields of a note. A content change is recorded in the
note's history. --tag replaces the tag list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}

			var p core.Patch
			f := cmd.Flags()
			if f.Changed("title") {
				p.Title = &title
			}
			if f.Changed("content") {
				p.Content = &content
			}
			if f.Changed("category") {
				cat, err := core.ParseCategory(category)
				if err != nil {
					return err
				}
				p.Category = &cat
			}
			if f.Changed("tag") {
				merged := core.MergeTags(nil, tags...)
				p.Tags = &merged
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to edit: pass --title, --content, --category or --tag")
			}

			n, err := nb.Service.Update(ctx, args[0], p)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%d history entries)\n", n.ID, len(n.History))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable, replaces existing tags)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}
			removed, err := nb.Service.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": args[0], "deleted": removed})
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No note %s\n", args[0])
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [id]",
		Short: "Show the content history of a note, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nb, err := a.notebook(ctx)
			if err != nil {
				return err
			}
			h, err := nb.Service.History(ctx, args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			for i, e := range h {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  %s\n", i+1, e.Timestamp.Local().Format(time.RFC3339), firstLine(e.Content))
			}
			return nil
		},
	}
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "  #" + strings.Join(tags, " #")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
