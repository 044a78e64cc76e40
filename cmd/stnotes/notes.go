package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xaenox/st-notes/internal/library"
	"github.com/xaenox/st-notes/internal/models"
	"github.com/xaenox/st-notes/internal/notes"
	"gopkg.in/yaml.v3"
)

func newNotesCmd(a *app) *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage the notes of a book",
	}

	listCmd := &cobra.Command{
		Use:   "list [book-id]",
		Short: "List notes with a short preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				list := ws.notes.Load(cmd.Context(), book.ID)
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No notes found.")
					return nil
				}
				for _, n := range list {
					s := n.Summary()
					fmt.Fprintf(out, "%d | %s | %s | %s\n", s.ID, s.Title, s.Date, firstLine(s.Content))
				}
				return nil
			})
		},
	}

	var (
		title    string
		template string
		sets     []string
	)
	addCmd := &cobra.Command{
		Use:   "add [book-id]",
		Short: "Add a note",
		Long: `Add a note to a book. Fields are set with --set field=value for the
chosen --template, e.g. --template cornell --set keyPoints="..." --set summary="...".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				ctx := cmd.Context()
				nb := notes.OpenNotebook(ctx, ws.notes, book.ID, a.logger, notes.WithToucher(ws.library))

				note := nb.Draft()
				if title != "" {
					note.Title = title
				}
				for _, f := range fields {
					if err := note.SetField(models.Template(template), f[0], f[1]); err != nil {
						return err
					}
				}
				note = nb.Put(ctx, note)
				if err := nb.Warning(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Note created: %d\n", note.ID)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Note title")
	addCmd.Flags().StringVar(&template, "template", string(models.LinedTemplate), "Template the --set fields belong to")
	addCmd.Flags().StringArrayVar(&sets, "set", nil, "Set a template field (field=value), repeatable")

	var editTemplate string
	var editSets []string
	editCmd := &cobra.Command{
		Use:   "edit [book-id] [note-id]",
		Short: "Change fields of an existing note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := parseNoteID(args[1])
			if err != nil {
				return err
			}
			fields, err := parseSets(editSets)
			if err != nil {
				return err
			}
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				ctx := cmd.Context()
				nb := notes.OpenNotebook(ctx, ws.notes, book.ID, a.logger, notes.WithToucher(ws.library))
				if _, ok := nb.Note(noteID); !ok {
					return fmt.Errorf("note not found: %d", noteID)
				}
				for _, f := range fields {
					if err := nb.Edit(ctx, noteID, models.Template(editTemplate), f[0], f[1]); err != nil {
						return err
					}
				}
				return nb.Warning()
			})
		},
	}
	editCmd.Flags().StringVar(&editTemplate, "template", string(models.LinedTemplate), "Template the --set fields belong to")
	editCmd.Flags().StringArrayVar(&editSets, "set", nil, "Set a template field (field=value), repeatable")

	rmCmd := &cobra.Command{
		Use:   "rm [book-id] [note-id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := parseNoteID(args[1])
			if err != nil {
				return err
			}
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				ctx := cmd.Context()
				nb := notes.OpenNotebook(ctx, ws.notes, book.ID, a.logger, notes.WithToucher(ws.library))
				nb.Delete(ctx, noteID)
				return nb.Warning()
			})
		},
	}

	tocCmd := &cobra.Command{
		Use:   "toc [book-id]",
		Short: "Print the table of contents of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				for i, entry := range notes.TableOfContents(ws.notes.Load(cmd.Context(), book.ID)) {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, entry.Title)
				}
				return nil
			})
		},
	}

	var format string
	exportCmd := &cobra.Command{
		Use:   "export [book-id]",
		Short: "Write every note of a book with all template data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBook(cmd, args[0], func(ws *workspace, book models.Book) error {
				list := ws.notes.Load(cmd.Context(), book.ID)
				out := cmd.OutOrStdout()

				switch format {
				case "json":
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(list)
				case "yaml":
					encoder := yaml.NewEncoder(out)
					encoder.SetIndent(2)
					if err := encoder.Encode(list); err != nil {
						return err
					}
					return encoder.Close()
				default:
					return fmt.Errorf("unsupported format %q (json or yaml)", format)
				}
			})
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")

	notesCmd.AddCommand(listCmd, addCmd, editCmd, rmCmd, tocCmd, exportCmd)
	return notesCmd
}

// withBook opens the store, resolves bookID and runs fn.
func (a *app) withBook(cmd *cobra.Command, bookID string, fn func(*workspace, models.Book) error) error {
	ws, err := a.open()
	if err != nil {
		return err
	}
	defer ws.Close()

	book, err := ws.library.Book(cmd.Context(), bookID)
	if errors.Is(err, library.ErrBookNotFound) {
		return fmt.Errorf("book not found: %s", bookID)
	}
	if err != nil {
		return err
	}
	return fn(ws, book)
}

func parseNoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note ID %q: %w", s, err)
	}
	return id, nil
}

// parseSets splits field=value pairs.
func parseSets(sets []string) ([][2]string, error) {
	fields := make([][2]string, 0, len(sets))
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q, want field=value", s)
		}
		fields = append(fields, [2]string{field, value})
	}
	return fields, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
