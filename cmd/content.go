package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/forms"
	"github.com/leap-app/leap/internal/textutil"
)

func newContentCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Browse and curate the mind content library",
	}
	cmd.AddCommand(
		newContentListCmd(o),
		newContentCategoriesCmd(o),
		newContentShowCmd(o),
		newContentAddCmd(o),
		newContentUpdateCmd(o),
	)
	return cmd
}

func parseContentType(s string) (api.ContentType, error) {
	for _, t := range api.ContentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type %q (want article, video, podcast or book)", s)
}

// categoryID resolves a --category value against the backend's list.
func categoryID(ctx context.Context, svc api.MindContentService, input string) (int, []api.MindContentCategory, error) {
	cats, err := svc.GetMindContentCategories(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("list categories: %w", err)
	}
	c, err := forms.ResolveCategory(input, cats)
	if err != nil {
		return 0, nil, err
	}
	return c.ID, cats, nil
}

func categoryName(cats []api.MindContentCategory, id int) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return strconv.Itoa(id)
}

func newContentListCmd(o *rootOptions) *cobra.Command {
	var category, contentType, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mind content",
		Example: `  leap content list --category stoicism --type video
  leap content list --search "deep work"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := api.ContentFilter{Search: search}
			if contentType != "" {
				t, err := parseContentType(contentType)
				if err != nil {
					return err
				}
				filter.ContentType = t
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.content.list")
			svc := deps.Services.Content

			var cats []api.MindContentCategory
			if category != "" {
				filter.CategoryID, cats, err = categoryID(ctx, svc, category)
			} else {
				cats, err = svc.GetMindContentCategories(ctx)
			}
			if err != nil {
				return err
			}

			items, err := svc.GetMindContent(ctx, filter)
			if err != nil {
				return fmt.Errorf("list content: %w", err)
			}

			return o.emit(cmd, items, func(w io.Writer) {
				if len(items) == 0 {
					fmt.Fprintln(w, "No content found for the selected criteria.")
					return
				}
				fmt.Fprintf(w, "%-5s  %-8s  %-14s  %-32s  %s\n", "ID", "Type", "Category", "Title", "Author")
				fmt.Fprintln(w, rule(84))
				for _, c := range items {
					fmt.Fprintf(w, "%-5d  %-8s  %-14s  %-32s  %s\n",
						c.ID, c.ContentType.Label(), textutil.Truncate(categoryName(cats, c.CategoryID), 14),
						textutil.Truncate(c.Title, 32), orDash(api.Deref(c.AuthorName)))
				}
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category name or id (close misspellings are accepted)")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type: article, video, podcast or book")
	cmd.Flags().StringVar(&search, "search", "", "Search title and description")
	return cmd
}

func newContentCategoriesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List content categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.content.categories")
			cats, err := deps.Services.Content.GetMindContentCategories(ctx)
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}

			return o.emit(cmd, cats, func(w io.Writer) {
				fmt.Fprintf(w, "%-5s  %-16s  %s\n", "ID", "Name", "Description")
				fmt.Fprintln(w, rule(60))
				for _, c := range cats {
					fmt.Fprintf(w, "%-5d  %-16s  %s\n", c.ID, c.Name, orDash(api.Deref(c.Description)))
				}
			})
		},
	}
}

func newContentShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.content.show")
			c, err := deps.Services.Content.GetMindContentByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get content: %w", err)
			}
			return o.emit(cmd, c, func(w io.Writer) { printContent(w, c) })
		},
	}
}

func printContent(w io.Writer, c *api.MindContent) {
	fmt.Fprintf(w, "ID:       %d\n", c.ID)
	fmt.Fprintf(w, "Title:    %s\n", c.Title)
	fmt.Fprintf(w, "Type:     %s\n", c.ContentType.Label())
	fmt.Fprintf(w, "URL:      %s\n", c.URL)
	fmt.Fprintf(w, "Author:   %s\n", orDash(api.Deref(c.AuthorName)))
	if c.DurationMinutes != nil {
		fmt.Fprintf(w, "Duration: %d min\n", *c.DurationMinutes)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, textutil.PlainText(c.Description))
}

// contentFlags binds the add/update form fields to flags.
type contentFlags struct {
	title, description, url, author, duration, contentType, category string
}

func (f *contentFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Title")
	fl.StringVar(&f.description, "description", "", "Description")
	fl.StringVar(&f.url, "url", "", "Link to the content")
	fl.StringVar(&f.author, "author", "", "Author name")
	fl.StringVar(&f.duration, "duration", "", "Duration in whole minutes")
	fl.StringVar(&f.contentType, "type", "", "Content type: article, video, podcast or book (default article)")
	fl.StringVar(&f.category, "category", "", "Category name or id (default: first category)")
}

// apply copies every flag the user set onto fields.
func (f *contentFlags) apply(cmd *cobra.Command, fields *forms.ContentFields) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		fields.Title = f.title
	}
	if changed("description") {
		fields.Description = f.description
	}
	if changed("url") {
		fields.URL = f.url
	}
	if changed("author") {
		fields.Author = f.author
	}
	if changed("duration") {
		fields.Duration = f.duration
	}
	if changed("type") {
		t, err := parseContentType(f.contentType)
		if err != nil {
			return err
		}
		fields.ContentType = t
	}
	return nil
}

func newContentAddCmd(o *rootOptions) *cobra.Command {
	var f contentFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Suggest new content",
		Example: `  leap content add --title "Meditations" --description "Notes to self" \
    --url https://example.com/meditations --type book --category stoicism`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields forms.ContentFields
			if err := f.apply(cmd, &fields); err != nil {
				return err
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.content.add")
			svc := deps.Services.Content
			if f.category != "" {
				if fields.CategoryID, _, err = categoryID(ctx, svc, f.category); err != nil {
					return err
				}
			} else {
				cats, err := svc.GetMindContentCategories(ctx)
				if err != nil {
					return fmt.Errorf("list categories: %w", err)
				}
				if len(cats) > 0 {
					fields.CategoryID = cats[0].ID
				}
			}

			in, err := forms.BuildContentInput(fields)
			if err != nil {
				return err
			}
			c, err := svc.AddMindContent(ctx, in)
			if err != nil {
				return writeErr("add content", err)
			}
			return o.emit(cmd, c, func(w io.Writer) {
				fmt.Fprintln(w, "Content added successfully!")
				printContent(w, c)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newContentUpdateCmd(o *rootOptions) *cobra.Command {
	var f contentFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit existing content; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.content.update")
			svc := deps.Services.Content
			existing, err := svc.GetMindContentByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get content: %w", err)
			}

			fields := forms.FromContent(*existing)
			if err := f.apply(cmd, &fields); err != nil {
				return err
			}
			if f.category != "" {
				if fields.CategoryID, _, err = categoryID(ctx, svc, f.category); err != nil {
					return err
				}
			}

			in, err := forms.BuildContentInput(fields)
			if err != nil {
				return err
			}
			c, err := svc.UpdateMindContent(ctx, id, in)
			if err != nil {
				return writeErr("update content", err)
			}
			return o.emit(cmd, c, func(w io.Writer) {
				fmt.Fprintln(w, "Content updated successfully!")
				printContent(w, c)
			})
		},
	}
	f.bind(cmd)
	return cmd
}
