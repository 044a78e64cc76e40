package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			for _, c := range ws.library.Categories(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.library.AddCategory(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm [name]",
		Short: "Delete a category",
		Long:  `Delete a category. Books in it are kept and left uncategorised.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.library.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			return nil
		},
	}

	categoriesCmd.AddCommand(listCmd, addCmd, rmCmd)
	return categoriesCmd
}
