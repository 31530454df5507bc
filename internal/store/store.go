// Package store provides the SQLite-backed record store for clients,
// equipment and budgets.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mproservicos/mpro/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Namespaces of the three collections. The names match the keys the records
// were kept under before the move to SQLite, so exported data stays portable.
const (
	NamespaceClients   = "mpro_clients"
	NamespaceEquipment = "mpro_equipment"
	NamespaceBudgets   = "mpro_budgets"
)

// DBFile is the database file name inside the data directory.
const DBFile = "mpro.db"

var (
	// ErrCorrupt is returned when a stored collection cannot be decoded.
	ErrCorrupt = errors.New("corrupt collection")
	// ErrUnknownNamespace is returned by Restore for a namespace it does not manage.
	ErrUnknownNamespace = errors.New("unknown namespace")
)

// Store owns the database handle. Open it once at startup and Close it on exit.
type Store struct {
	db   *sql.DB
	path string
}

// PathIn returns the database path inside dataDir.
func PathIn(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// Open opens or creates the store database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(full)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// One writer, and the read-modify-write in Save must see its own tx.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clients returns the client collection.
func (s *Store) Clients() *Collection[model.Client] {
	return &Collection[model.Client]{s: s, ns: NamespaceClients}
}

// Equipment returns the equipment collection.
func (s *Store) Equipment() *Collection[model.Equipment] {
	return &Collection[model.Equipment]{s: s, ns: NamespaceEquipment}
}

// Budgets returns the budget collection.
func (s *Store) Budgets() *Collection[model.Budget] {
	return &Collection[model.Budget]{s: s, ns: NamespaceBudgets}
}

// Namespaces lists the namespaces that hold data, with their last write time.
func (s *Store) Namespaces() (map[string]time.Time, error) {
	rows, err := s.db.Query("SELECT namespace, updated_at FROM collections")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]time.Time)
	for rows.Next() {
		var ns, updated string
		if err := rows.Scan(&ns, &updated); err != nil {
			return nil, err
		}
		result[ns], _ = time.Parse(time.RFC3339, updated)
	}
	return result, rows.Err()
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// readPayload returns the raw payload of a namespace and whether it exists.
func readPayload(q querier, ns string) ([]byte, bool, error) {
	var payload string
	err := q.QueryRow("SELECT payload FROM collections WHERE namespace = ?", ns).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", ns, err)
	}
	return []byte(payload), true, nil
}

func writePayload(tx *sql.Tx, ns string, payload []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.Exec(`INSERT OR REPLACE INTO collections (namespace, payload, updated_at)
		VALUES (?, ?, ?)`, ns, string(payload), now)
	if err != nil {
		return fmt.Errorf("writing %s: %w", ns, err)
	}
	return nil
}
