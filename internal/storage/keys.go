package storage

// DefaultPrefix namespaces every key the application writes.
const DefaultPrefix = "st-notes-"

// Keyspace derives the storage keys for books, categories and per-book notes.
type Keyspace struct {
	Prefix string
}

func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keyspace{Prefix: prefix}
}

func (k Keyspace) Books() string      { return k.Prefix + "books" }
func (k Keyspace) Categories() string { return k.Prefix + "categories" }

// Notes is the key holding the note list of one book.
func (k Keyspace) Notes(bookID string) string { return k.Prefix + bookID }
