// Package records keeps finished rounds in a local sqlite file for offline
// play, where no Postgres server is around.
package records

import (
	"bytes"
	"cmp"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/session"
)

var (
	ErrBadName  = fmt.Errorf("bad name for record book")
	ErrNotFound = fmt.Errorf("record not found")
)

// Entry is a single finished round.
type Entry struct {
	GameID      uuid.UUID
	Round       int
	Params      mines.Params
	HazardCount int
	Won         bool
	Revealed    int
	Flagged     int
	StartedAt   time.Time
	EndedAt     time.Time
}

func (e Entry) Playtime() time.Duration {
	return e.EndedAt.Sub(e.StartedAt)
}

func (e Entry) key() string {
	return key(e.GameID, e.Round)
}

func key(id uuid.UUID, round int) string {
	return id.String() + "/" + strconv.Itoa(round)
}

// NewEntry returns false for a round that has not finished yet.
func NewEntry(s session.Snapshot) (Entry, bool) {
	if s.Status == mines.InProgress || s.EndedAt == nil {
		return Entry{}, false
	}
	return Entry{
		GameID:      s.ID,
		Round:       s.Round,
		Params:      s.Params,
		HazardCount: s.TotalHazards,
		Won:         s.Status == mines.Won,
		Revealed:    s.Revealed,
		Flagged:     s.Flagged,
		StartedAt:   s.StartedAt,
		EndedAt:     *s.EndedAt,
	}, true
}

// Book is a gob-encoded key-value table of entries.
type Book struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}

// Open opens (creating if needed) the sqlite file at path and a book named
// "records" inside it.
func Open(path string) (*Book, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	book, err := NewBook(db, "records")
	if err != nil {
		db.Close()
		return nil, err
	}
	return book, nil
}

// NewBook creates the table name in db. name may only contain Latin letters
// and underscores since it is spliced into the statements.
func NewBook(db *sql.DB, name string) (*Book, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create table %s: %w", name, err)
	}
	return &Book{name: name, db: db}, nil
}

func (b *Book) Close() error {
	return b.db.Close()
}

// Put inserts an entry or replaces the one with the same game and round.
func (b *Book) Put(e Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return err
	}
	_, err := b.db.Exec(`
INSERT INTO `+b.name+` (key, value)
VALUES (?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		e.key(), buf.Bytes())
	return err
}

func (b *Book) Get(id uuid.UUID, round int) (*Entry, error) {
	var v []byte
	err := b.db.QueryRow(`SELECT value FROM `+b.name+` WHERE key = ?;`, key(id, round)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&e); err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", key(id, round), err)
	}
	return &e, nil
}

// Delete does not report whether the entry existed.
func (b *Book) Delete(id uuid.UUID, round int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.db.Exec(`DELETE FROM `+b.name+` WHERE key = ?;`, key(id, round))
	return err
}

func (b *Book) Count() (int, error) {
	var n int
	err := b.db.QueryRow(`SELECT COUNT(*) FROM ` + b.name + `;`).Scan(&n)
	return n, err
}

// Entries lists every entry, oldest first.
func (b *Book) Entries() ([]Entry, error) {
	rows, err := b.db.Query(`SELECT key, value FROM ` + b.name + `;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			k string
			v []byte
			e Entry
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&e); err != nil {
			return nil, fmt.Errorf("corrupt record %s: %w", k, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return a.EndedAt.Compare(b.EndedAt)
	})
	return entries, nil
}

// Best lists won entries with the given params, fastest first. A limit of
// zero or less means no limit.
func (b *Book) Best(params mines.Params, limit int) ([]Entry, error) {
	entries, err := b.Entries()
	if err != nil {
		return nil, err
	}
	entries = slices.DeleteFunc(entries, func(e Entry) bool {
		return !e.Won || e.Params != params
	})
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Playtime(), b.Playtime())
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// String renders entries as a plain table.
func String(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		result := "lost"
		if e.Won {
			result = "won"
		}
		fmt.Fprintf(&sb, "%s  %-5s %-4s %8.3fs  %s\n",
			e.EndedAt.Format(time.DateTime), e.Params, result,
			e.Playtime().Seconds(), e.key())
	}
	return sb.String()
}
