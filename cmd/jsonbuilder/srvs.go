package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/barkingbob/json-builder-app/catalog"
)

func (a *app) srvsCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "srvs",
		Short: "List SRVs",
		Long:  `srvs lists the SRVs of the SRV matrix, or only those open to --role.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSRVs(cmd.OutOrStdout(), role)
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "only list SRVs open to this role")

	err := cmd.RegisterFlagCompletionFunc("role", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cat, err := a.catalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return cat.RoleNames(), cobra.ShellCompDirectiveNoFileComp
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) runSRVs(w io.Writer, roleName string) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}

	if roleName == "" {
		srvs := slices.Clone(cat.SRVs)
		slices.SortStableFunc(srvs, func(x, y catalog.SRV) int { return catalog.CompareCodes(x.Code, y.Code) })

		return writeSRVTable(w, srvs)
	}

	role, err := cat.Role(roleName)
	if err != nil {
		return err
	}

	return writeSRVTable(w, cat.EligibleSRVs(role))
}
