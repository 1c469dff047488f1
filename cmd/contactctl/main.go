package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/dtroode/contacts-server/internal/client"
	"github.com/dtroode/contacts-server/internal/model"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Server  string        `help:"Contacts server base URL." env:"CONTACTS_URL" default:"http://localhost:3000"`
	Output  string        `help:"Output format." short:"o" enum:"auto,table,json,yaml" default:"auto"`
	Timeout time.Duration `help:"Request timeout." default:"10s"`

	stdout io.Writer
}

func (g *Globals) client() *client.Client {
	return client.New(g.Server)
}

func (g *Globals) context() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// CLI is the top-level command structure for contactctl.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	List    ListCmd          `cmd:"" help:"List contacts ordered by name."`
	Get     GetCmd           `cmd:"" help:"Show a single contact."`
	Create  CreateCmd        `cmd:"" help:"Create a contact."`
	Update  UpdateCmd        `cmd:"" help:"Replace all fields of a contact."`
	Delete  DeleteCmd        `cmd:"" help:"Delete a contact."`
}

// FieldFlags carry a full set of contact fields.
type FieldFlags struct {
	FirstName string `help:"First name." required:""`
	LastName  string `help:"Last name." required:""`
	Email     string `help:"Email address." required:""`
	Phone     string `help:"Phone number." required:""`
	Company   string `help:"Company name." required:""`
	JobTitle  string `help:"Job title." required:""`
}

func (f FieldFlags) fields() model.ContactFields {
	return model.ContactFields{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Company:   f.Company,
		JobTitle:  f.JobTitle,
	}
}

// ListCmd prints every contact.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	contacts, err := g.client().List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return render(g.stdout, g.Output, contacts)
}

// GetCmd prints one contact.
type GetCmd struct {
	ID uuid.UUID `arg:"" help:"Contact id."`
}

// Run executes the get command.
func (c *GetCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	contact, err := g.client().Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	return render(g.stdout, g.Output, []model.Contact{contact})
}

// CreateCmd adds a contact.
type CreateCmd struct {
	FieldFlags
}

// Run executes the create command.
func (c *CreateCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	contact, err := g.client().Create(ctx, c.fields())
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return render(g.stdout, g.Output, []model.Contact{contact})
}

// UpdateCmd replaces a contact.
type UpdateCmd struct {
	ID uuid.UUID `arg:"" help:"Contact id."`
	FieldFlags
}

// Run executes the update command.
func (c *UpdateCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	contact, err := g.client().Update(ctx, c.ID, c.fields())
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return render(g.stdout, g.Output, []model.Contact{contact})
}

// DeleteCmd removes a contact.
type DeleteCmd struct {
	ID uuid.UUID `arg:"" help:"Contact id."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	if err := g.client().Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	_, _ = fmt.Fprintf(g.stdout, "Deleted contact %s\n", c.ID)
	return nil
}

// exitCode maps an error to a process exit code.
func exitCode(err error) int {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return 2
	case errors.Is(err, model.ErrNotFound):
		return 3
	case errors.Is(err, model.ErrDuplicateEmail):
		return 4
	default:
		return 1
	}
}

// printError writes err to w, one line per rejected field for validation failures.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "error: %s\n", err)

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
	}
}

func main() {
	cli := CLI{Globals: Globals{stdout: os.Stdout}}
	ctx := kong.Parse(&cli,
		kong.Name("contactctl"),
		kong.Description("Manage contacts on a contacts server."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
