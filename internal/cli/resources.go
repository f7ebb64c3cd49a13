package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/shopdesk/internal/console"
	"github.com/talkincode/shopdesk/internal/export"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/listing"
	"github.com/talkincode/shopdesk/internal/pages"
	"github.com/talkincode/shopdesk/internal/view"
)

// listPage is what the commands need from a page, whatever its row type
type listPage interface {
	console.Screen
	Seed(q listing.Query)
	Open(ctx context.Context) error
	Err() error
	NewForm() (*form.Modal, error)
	Locate(ctx context.Context, id string) (*form.Modal, error)
	Export(w io.Writer, f export.Format) error
	Close()
}

// field is a form field set from a flag of the same purpose
type field struct {
	flag  string
	name  string
	usage string
}

type resource struct {
	name    string
	short   string
	pickers bool
	fields  []field
	open    func(d pages.Deps) listPage
}

var catalogFields = []field{
	{"name", "name", "display name"},
	{"active", "isActive", "true or false"},
}

var resources = []resource{
	{
		name:    pages.ProductsPage,
		short:   "List, create, edit and export products",
		pickers: true,
		fields: []field{
			{"name", "name", "product name"},
			{"price", "price", "price, e.g. 4.50"},
			{"active", "isActive", "true or false"},
			{"category", "categoryId", "category id"},
			{"brand", "brandId", "brand id"},
		},
		open: func(d pages.Deps) listPage { return pages.NewProducts(d) },
	},
	{
		name:   pages.CategoriesPage,
		short:  "List, create and edit categories",
		fields: catalogFields,
		open:   func(d pages.Deps) listPage { return pages.NewCategories(d) },
	},
	{
		name:   pages.BrandsPage,
		short:  "List, create and edit brands",
		fields: catalogFields,
		open:   func(d pages.Deps) listPage { return pages.NewBrands(d) },
	},
	{
		name:  pages.UsersPage,
		short: "List, create and edit staff accounts (admin)",
		fields: []field{
			{"username", "username", "login name, 4 to 50 characters"},
			{"email", "email", "email address"},
			{"full-name", "fullName", "full name"},
			{"password", "password", "password; blank on edit keeps the current one"},
			{"roles", "roles", "comma separated roles: admin, sales"},
			{"active", "isActive", "true or false"},
		},
		open: func(d pages.Deps) listPage { return pages.NewUsers(d) },
	},
}

func findResource(name string) (resource, error) {
	for _, r := range resources {
		if r.name == name {
			return r, nil
		}
	}
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.name
	}
	return resource{}, errors.Errorf("unknown resource %q, want one of %s", name, strings.Join(names, ", "))
}

// oneShot returns page deps for commands that run a single fetch
func (e *env) oneShot() pages.Deps {
	d := e.app.Deps()
	d.Debounce = -1
	return d
}

type listFlags struct {
	search, category, brand, active string
	page                            int
}

func (f *listFlags) bind(cmd *cobra.Command, pickers bool) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "filter by name")
	cmd.Flags().StringVar(&f.active, "active", "", "all, true or false")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	if pickers {
		cmd.Flags().StringVar(&f.category, "category", "", "category id or all")
		cmd.Flags().StringVar(&f.brand, "brand", "", "brand id or all")
	}
}

func (f *listFlags) query() listing.Query {
	return listing.Query{Search: f.search, Category: f.category, Brand: f.brand, Active: f.active, Page: f.page}
}

// load opens the page seeded with q and waits for the first result
func load(ctx context.Context, p listPage, q listing.Query) error {
	p.Seed(q)
	if err := p.Open(ctx); err != nil {
		return err
	}
	if err := p.Settle(ctx); err != nil {
		return err
	}
	return p.Err()
}

func resourceCommand(e *env, r resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: r.short,
	}
	cmd.AddCommand(listCommand(e, r), createCommand(e, r), editCommand(e, r), exportCommand(e, r))
	return cmd
}

func listCommand(e *env, r resource) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of " + r.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.open(e.oneShot())
			defer p.Close()
			err := load(cmd.Context(), p, lf.query())
			if rerr := p.Render(cmd.OutOrStdout()); rerr != nil && err == nil {
				err = rerr
			}
			return err
		},
	}
	lf.bind(cmd, r.pickers)
	return cmd
}

func bindFields(cmd *cobra.Command, r resource) {
	for _, f := range r.fields {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	if r.pickers {
		cmd.Flags().String("photo", "", "image file to upload")
	}
}

// applyFields copies the changed flags into the form draft
func applyFields(cmd *cobra.Command, r resource, m *form.Modal) error {
	for _, f := range r.fields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		if err := m.Set(f.name, v); err != nil {
			return errors.WithMessagef(err, "--%s", f.flag)
		}
	}
	if r.pickers && cmd.Flags().Changed("photo") {
		path, _ := cmd.Flags().GetString("photo")
		att, err := form.LoadAttachment(path)
		if err != nil {
			return errors.WithMessage(err, "--photo")
		}
		m.Update(func(d *form.Draft) { d.Photo = att })
	}
	return nil
}

// submit sends the form and shows the refreshed list
func submit(ctx context.Context, out io.Writer, p listPage, m *form.Modal) error {
	_, err := m.Submit(ctx)
	if err != nil {
		if form.IsValidation(err) {
			_ = view.Form(out, m)
		}
		return err
	}
	fmt.Fprintf(out, "Saved %s.\n", m.Kind())
	if err := p.Settle(ctx); err != nil {
		return err
	}
	return p.Render(out)
}

func createCommand(e *env, r resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new entry in " + r.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.open(e.oneShot())
			defer p.Close()
			if err := load(cmd.Context(), p, listing.Query{}); err != nil {
				return err
			}
			m, err := p.NewForm()
			if err != nil {
				return err
			}
			if err := applyFields(cmd, r, m); err != nil {
				return err
			}
			return submit(cmd.Context(), cmd.OutOrStdout(), p, m)
		},
	}
	bindFields(cmd, r)
	return cmd
}

func editCommand(e *env, r resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry in " + r.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := r.open(e.oneShot())
			defer p.Close()
			if err := load(cmd.Context(), p, listing.Query{}); err != nil {
				return err
			}
			m, err := p.Locate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applyFields(cmd, r, m); err != nil {
				return err
			}
			return submit(cmd.Context(), cmd.OutOrStdout(), p, m)
		},
	}
	bindFields(cmd, r)
	return cmd
}

func exportCommand(e *env, r resource) *cobra.Command {
	var (
		lf             listFlags
		format, output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one page of " + r.name + " as csv or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			p := r.open(e.oneShot())
			defer p.Close()
			if err := load(cmd.Context(), p, lf.query()); err != nil {
				return err
			}
			if output == "" || output == "-" {
				return p.Export(cmd.OutOrStdout(), f)
			}
			file, err := os.Create(output)
			if err != nil {
				return errors.Wrap(err, "create export file")
			}
			if err := p.Export(file, f); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return errors.Wrap(err, "close export file")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	lf.bind(cmd, r.pickers)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func browseCommand(e *env) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "browse <resource>",
		Short: "Browse a list interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := findResource(args[0])
			if err != nil {
				return err
			}
			p := r.open(e.app.Deps())
			defer p.Close()
			p.Seed(lf.query())
			if err := p.Open(cmd.Context()); err != nil {
				return err
			}
			return console.Run(cmd.Context(), p, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	lf.bind(cmd, true)
	return cmd
}
