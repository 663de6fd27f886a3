package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/form"
)

// newTable creates a markdown-style table with left-aligned cells.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}

	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// writeFieldTable renders descriptors depth-first, indenting labels by
// nesting depth.
func writeFieldTable(w io.Writer, fields []*form.Field) error {
	table := newTable(w, "Path", "Label", "Type", "Input", "Required", "Notes")

	var rows [][]string

	form.Walk(fields, func(f *form.Field, depth int) bool {
		required := ""
		if f.Required {
			required = "yes"
		}

		rows = append(rows, []string{
			f.Path.String(),
			strings.Repeat("  ", depth) + f.Label,
			f.Type,
			string(f.Input),
			required,
			fieldNotes(f),
		})

		return true
	})

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}

func fieldNotes(f *form.Field) string {
	var notes []string

	if f.Unsupported {
		notes = append(notes, f.Err.Error())
	}

	if len(f.Enum) > 0 {
		values := make([]string, 0, len(f.Enum))
		for _, v := range f.Enum {
			values = append(values, fmt.Sprint(v))
		}

		notes = append(notes, "one of "+strings.Join(values, "/"))
	}

	if f.Format != "" {
		notes = append(notes, "format "+f.Format)
	}

	if f.Default != nil {
		notes = append(notes, fmt.Sprintf("default %v", f.Default))
	}

	if f.Minimum != nil {
		notes = append(notes, fmt.Sprintf("min %g", *f.Minimum))
	}

	if f.Maximum != nil {
		notes = append(notes, fmt.Sprintf("max %g", *f.Maximum))
	}

	if f.Ref != "" {
		notes = append(notes, "from "+f.Ref)
	}

	return strings.Join(notes, ", ")
}

// writeSRVTable lists SRVs with their eligibility.
func writeSRVTable(w io.Writer, srvs []catalog.SRV) error {
	table := newTable(w, "SRV", "Name", "Roles", "Command variants", "Future dated")

	for _, s := range srvs {
		cvs := make([]string, 0, len(s.CommandVariants))
		for _, cv := range s.CommandVariants {
			cvs = append(cvs, fmt.Sprint(cv))
		}

		future := "no"
		if s.SupportsFutureDate {
			future = "yes"
		}

		err := table.Append([]string{
			s.Code,
			s.Name,
			strings.Join(s.EligibleRoles, ", "),
			strings.Join(cvs, ", "),
			future,
		})
		if err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}
