package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/barkingbob/json-builder-app/catalog"
	"github.com/barkingbob/json-builder-app/form"
)

func (a *app) fieldsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fields <srv>",
		Short: "Print the body fields of an SRV",
		Long: `fields resolves the request schema of an SRV and prints the field tree a
request body is built from. Schema branches that cannot be used are logged
and left out.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return a.srvCompletions(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFields(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print descriptors as JSON")

	return cmd
}

func (a *app) runFields(w io.Writer, code string, asJSON bool) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}

	srv, err := cat.SRV(code)
	if err != nil {
		return err
	}

	governing, err := cat.Schema.RequestBodySchema(srv.OperationPath(), "post", "")
	if err != nil {
		return fmt.Errorf("SRV %s: %w", code, err)
	}

	s := form.NewSession(cat.Schema, form.WithLogger(a.logger))

	err = s.Select(governing)
	if err != nil {
		return fmt.Errorf("SRV %s: %w", code, err)
	}

	if asJSON {
		data, err := json.MarshalIndent(s.Fields(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode fields: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err
	}

	switch s.BodyState() {
	case form.BodyAbsent:
		_, err = fmt.Fprintf(w, "SRV %s has no body section\n", code)
		return err
	case form.BodyEmpty:
		_, err = fmt.Fprintf(w, "SRV %s has nothing to configure in its body section\n", code)
		return err
	}

	return writeFieldTable(w, s.Fields())
}

func (a *app) srvCompletions() []string {
	cat, err := a.catalog()
	if err != nil {
		return nil
	}

	srvs := slices.Clone(cat.SRVs)
	slices.SortFunc(srvs, func(x, y catalog.SRV) int { return catalog.CompareCodes(x.Code, y.Code) })

	out := make([]string, 0, len(srvs))
	for _, s := range srvs {
		out = append(out, s.Code+"\t"+s.Name)
	}

	return out
}
