package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaenox/st-notes/internal/library"
	"github.com/xaenox/st-notes/internal/models"
)

func newBooksCmd(a *app) *cobra.Command {
	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "Manage books",
	}

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			books := ws.library.Books(cmd.Context())
			out := cmd.OutOrStdout()

			if listJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(books)
			}

			if len(books) == 0 {
				fmt.Fprintln(out, "No books found.")
				return nil
			}
			for _, b := range books {
				fmt.Fprintf(out, "%s | %s | %s | %s | %s\n", b.ID, b.Title, b.Author, b.Category, b.Color)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")

	var in library.BookInput
	var color string
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a book",
		Long: `Create a book. Without --category one is suggested from the title
and author, preferring categories that already exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			in.Title = args[0]
			in.Color = models.PastelColor(color)
			if in.Category == "" {
				in.Category = a.classifier().SuggestCategory(ctx, in.Title, in.Author, ws.library.Categories(ctx))
			}

			book, err := ws.library.CreateBook(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create book: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book created: %s (%s)\n", book.ID, book.Category)
			return nil
		},
	}
	addCmd.Flags().StringVar(&in.Author, "author", "", "Book author")
	addCmd.Flags().StringVar(&in.Category, "category", "", "Book category")
	addCmd.Flags().StringVar(&color, "color", "", "Cover color (yellow, blue, green, pink); random if empty")

	rmCmd := &cobra.Command{
		Use:   "rm [book-id]",
		Short: "Delete a book and all of its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			ctx := cmd.Context()
			if _, err := ws.library.Book(ctx, args[0]); errors.Is(err, library.ErrBookNotFound) {
				return fmt.Errorf("book not found: %s", args[0])
			}
			if err := ws.library.DeleteBook(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete book: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book deleted: %s\n", args[0])
			return nil
		},
	}

	booksCmd.AddCommand(listCmd, addCmd, rmCmd)
	return booksCmd
}
