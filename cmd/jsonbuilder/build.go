package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/barkingbob/json-builder-app/request"
)

func (a *app) buildCmd() *cobra.Command {
	var curl bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a request payload from flags",
		Long: `build selects the environment, role, DUIS version, SRV and command variant
given as flags, applies the --add and --set body edits in order, and prints the
request document. The DUIS version defaults to the latest one available, and
the command variant to the only one when the SRV has a single variant.`,
		Example: `  jsonbuilder build --env SIT-A --role ISU --srv 1.1.1 --cv 8 \
    --add tariffs --set tariffs[0].price=12.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd.OutOrStdout(), curl)
		},
	}

	cmd.Flags().BoolVar(&curl, "curl", false, "also print a curl command posting the request")

	return cmd
}

func (a *app) runBuild(w io.Writer, curl bool) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}

	b, err := a.req.NewBuilder(cat, request.WithLogger(a.logger))
	if err != nil {
		return err
	}

	out, err := b.Generate()
	if err != nil {
		return err
	}

	return writeOutput(w, out, curl)
}

func writeOutput(w io.Writer, out *request.Output, curl bool) error {
	_, err := fmt.Fprintf(w, "%s\n", out.JSON)
	if err != nil {
		return err
	}

	if curl {
		_, err = fmt.Fprintf(w, "\n%s\n", out.Curl)
	}

	return err
}
