package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/dtroode/contacts-server/internal/model"
)

type contactView struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Company   string `json:"company" yaml:"company"`
	JobTitle  string `json:"jobTitle" yaml:"jobTitle"`
}

func toViews(contacts []model.Contact) []contactView {
	views := make([]contactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, contactView{
			ID:        c.ID.String(),
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Company:   c.Company,
			JobTitle:  c.JobTitle,
		})
	}
	return views
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// render writes contacts in the requested format. "auto" is a table on a
// terminal and JSON otherwise.
func render(w io.Writer, format string, contacts []model.Contact) error {
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "table"
		}
	}

	views := toViews(contacts)
	switch format {
	case "table":
		_, err := fmt.Fprintln(w, renderTable(views))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(views []contactView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{v.FirstName, v.LastName, v.Email, v.Phone, v.Company, v.JobTitle, v.ID})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("FIRST NAME", "LAST NAME", "EMAIL", "PHONE", "COMPANY", "JOB TITLE", "ID").
		Rows(rows...).
		String()
}
