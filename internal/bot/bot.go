package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/st-notes/internal/classifier"
	"github.com/xaenox/st-notes/internal/library"
	"github.com/xaenox/st-notes/internal/models"
	"github.com/xaenox/st-notes/internal/notes"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the bot uses to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api        *tgbotapi.BotAPI
	sender     sender
	library    *library.Library
	notes      notes.Store
	classifier classifier.Classifier
	logger     *zap.Logger
	now        func() time.Time
}

func New(token string, lib *library.Library, store notes.Store, clf classifier.Classifier, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := newBot(api, lib, store, clf, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, lib *library.Library, store notes.Store, clf classifier.Classifier, logger *zap.Logger) *Bot {
	return &Bot{
		sender:     s,
		library:    lib,
		notes:      store,
		classifier: clf,
		logger:     logger,
		now:        time.Now,
	}
}

// Start handles updates one at a time until ctx is cancelled. Messages are
// processed in arrival order so each book's note list has a single writer.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !message.IsCommand() {
		b.sendMessage(message.Chat.ID, "Use /help to see what I can do with your books.")
		return
	}

	b.logger.Debug("Handling command",
		zap.String("command", message.Command()),
		zap.Int64("chat_id", message.Chat.ID))

	args := message.CommandArguments()
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "books":
		b.handleBooks(ctx, message)
	case "newbook":
		b.handleNewBook(ctx, message, args)
	case "delbook":
		b.handleDeleteBook(ctx, message, args)
	case "notes":
		b.handleNotes(ctx, message, args)
	case "note":
		b.handleNote(ctx, message, args)
	case "delnote":
		b.handleDeleteNote(ctx, message, args)
	case "toc":
		b.handleTOC(ctx, message, args)
	case "categories":
		b.handleCategories(ctx, message)
	case "delcategory":
		b.handleDeleteCategory(ctx, message, args)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to ST-Notes! 📚
Keep your reading notes organised in books.

Create a book with /newbook, then add notes to it with /note.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/books - List your books
/newbook Title | Author | Category - Create a book
/delbook <book id> - Delete a book and its notes
/notes <book id> - List the notes of a book
/note <book id> | Title | Text - Add a note
/delnote <book id> <note id> - Delete a note
/toc <book id> - Show the table of contents
/categories - List categories
/delcategory <name> - Delete a category`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleBooks(ctx context.Context, message *tgbotapi.Message) {
	books := b.library.Books(ctx)
	if len(books) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any books yet.")
		return
	}

	response := "*Your books:*\n"
	for _, book := range books {
		response += fmt.Sprintf("\n*%s*", escapeMarkdown(book.Title))
		if book.Author != "" {
			response += " " + escapeMarkdown("- "+book.Author)
		}
		if book.Category != "" {
			response += " #" + escapeMarkdown(strings.ReplaceAll(book.Category, " ", "_"))
		}
		response += fmt.Sprintf("\n`%s`\n", book.ID)
	}

	b.sendMarkdown(message.Chat.ID, response)
}

func (b *Bot) handleNewBook(ctx context.Context, message *tgbotapi.Message, args string) {
	parts := splitArgs(args, 3)
	in := library.BookInput{Title: parts[0], Author: parts[1], Category: parts[2]}

	if in.Category == "" && strings.TrimSpace(in.Title) != "" {
		in.Category = b.classifier.SuggestCategory(ctx, in.Title, in.Author, b.library.Categories(ctx))
	}

	book, err := b.library.CreateBook(ctx, in)
	if errors.Is(err, library.ErrTitleRequired) {
		b.sendErrorMessage(message.Chat.ID, "A book needs a title: /newbook Title | Author | Category")
		return
	}
	if err != nil {
		b.logger.Error("Failed to create book",
			zap.Error(err),
			zap.String("title", in.Title))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't save your book. Please try again.")
		return
	}

	b.sendMessage(message.Chat.ID, fmt.Sprintf("Created %q in category %q.\nId: %s", book.Title, book.Category, book.ID))
}

func (b *Bot) handleDeleteBook(ctx context.Context, message *tgbotapi.Message, args string) {
	book, ok := b.findBook(ctx, message, strings.TrimSpace(args))
	if !ok {
		return
	}

	if err := b.library.DeleteBook(ctx, book.ID); err != nil {
		b.logger.Error("Failed to delete book", zap.Error(err), zap.String("book_id", book.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't delete that book.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Deleted %q.", book.Title))
}

func (b *Bot) handleNotes(ctx context.Context, message *tgbotapi.Message, args string) {
	book, ok := b.findBook(ctx, message, strings.TrimSpace(args))
	if !ok {
		return
	}

	list := b.notes.Load(ctx, book.ID)
	if len(list) == 0 {
		b.sendMessage(message.Chat.ID, fmt.Sprintf("%q has no notes yet.", book.Title))
		return
	}

	response := fmt.Sprintf("Notes in %q:\n", book.Title)
	for _, n := range list {
		s := n.Summary()
		response += fmt.Sprintf("\n[%d] %s (%s)\n", s.ID, s.Title, s.Date)
		if s.Content != "" {
			response += truncate(s.Content, 120) + "\n"
		}
	}
	b.sendMessage(message.Chat.ID, response)
}

func (b *Bot) handleNote(ctx context.Context, message *tgbotapi.Message, args string) {
	parts := splitArgs(args, 3)
	book, ok := b.findBook(ctx, message, parts[0])
	if !ok {
		return
	}

	nb := notes.OpenNotebook(ctx, b.notes, book.ID, b.logger,
		notes.WithToucher(b.library),
		notes.WithClock(b.now))

	note := nb.Draft()
	if parts[1] != "" {
		note.Title = parts[1]
	}
	note.Lined.Content = parts[2]
	note = nb.Put(ctx, note)

	if err := nb.Warning(); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't store that note. Please try again.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Saved note [%d] %q in %q.", note.ID, note.Title, book.Title))
}

func (b *Bot) handleDeleteNote(ctx context.Context, message *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.sendErrorMessage(message.Chat.ID, "Usage: /delnote <book id> <note id>")
		return
	}
	book, ok := b.findBook(ctx, message, fields[0])
	if !ok {
		return
	}
	noteID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "Note ids are numbers.")
		return
	}

	nb := notes.OpenNotebook(ctx, b.notes, book.ID, b.logger, notes.WithToucher(b.library))
	nb.Delete(ctx, noteID)
	if err := nb.Warning(); err != nil {
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't delete that note.")
		return
	}
	b.sendMessage(message.Chat.ID, "Done.")
}

func (b *Bot) handleTOC(ctx context.Context, message *tgbotapi.Message, args string) {
	book, ok := b.findBook(ctx, message, strings.TrimSpace(args))
	if !ok {
		return
	}

	response := fmt.Sprintf("Contents of %q:\n", book.Title)
	for i, entry := range notes.TableOfContents(b.notes.Load(ctx, book.ID)) {
		response += fmt.Sprintf("%d. %s\n", i+1, entry.Title)
	}
	b.sendMessage(message.Chat.ID, response)
}

func (b *Bot) handleCategories(ctx context.Context, message *tgbotapi.Message) {
	categories := b.library.Categories(ctx)
	if len(categories) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any categories yet.")
		return
	}

	response := "*Your categories:*\n"
	for _, category := range categories {
		formattedCategory := "#" + strings.ReplaceAll(category, " ", "_")
		response += escapeMarkdown(formattedCategory) + "\n"
	}
	b.sendMarkdown(message.Chat.ID, response)
}

func (b *Bot) handleDeleteCategory(ctx context.Context, message *tgbotapi.Message, args string) {
	name := strings.TrimSpace(args)
	if name == "" {
		b.sendErrorMessage(message.Chat.ID, "Usage: /delcategory <name>")
		return
	}
	if err := b.library.DeleteCategory(ctx, name); err != nil {
		b.logger.Error("Failed to delete category", zap.Error(err), zap.String("category", name))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't delete that category.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Deleted category %q.", name))
}

func (b *Bot) findBook(ctx context.Context, message *tgbotapi.Message, id string) (models.Book, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		b.sendErrorMessage(message.Chat.ID, "Please give a book id. Use /books to list them.")
		return models.Book{}, false
	}
	book, err := b.library.Book(ctx, id)
	if err != nil {
		b.sendErrorMessage(message.Chat.ID, "I can't find that book. Use /books to list them.")
		return models.Book{}, false
	}
	return book, true
}

// splitArgs splits "a | b | c" into exactly n trimmed parts.
func splitArgs(args string, n int) []string {
	parts := strings.SplitN(args, "|", n)
	for len(parts) < n {
		parts = append(parts, "")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
