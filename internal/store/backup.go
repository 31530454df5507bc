package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mproservicos/mpro/internal/model"
)

// BackupVersion is the format version written by Dump.
const BackupVersion = 1

// Backup is the portable form of a whole store. Namespaces whose stored
// payload does not decode are kept as text under Corrupt and never restored.
type Backup struct {
	Version     int                        `json:"version"`
	ExportedAt  time.Time                  `json:"exportedAt"`
	Collections map[string]json.RawMessage `json:"collections"`
	Corrupt     map[string]string          `json:"corrupt,omitempty"`
}

// RestoreResult lists what Restore wrote and what it left alone.
type RestoreResult struct {
	Restored []string
	Skipped  []string // namespaces exported as corrupt
}

// validators checks that a payload decodes into the namespace's record type.
var validators = map[string]func(ns string, payload []byte) error{
	NamespaceClients: func(ns string, p []byte) error {
		_, err := decode[model.Client](ns, p)
		return err
	},
	NamespaceEquipment: func(ns string, p []byte) error {
		_, err := decode[model.Equipment](ns, p)
		return err
	},
	NamespaceBudgets: func(ns string, p []byte) error {
		_, err := decode[model.Budget](ns, p)
		return err
	},
}

// Dump writes every stored namespace to w as one JSON document. A corrupt
// namespace is written as its raw text under "corrupt" so nothing is lost.
func (s *Store) Dump(w io.Writer) error {
	b := Backup{
		Version:     BackupVersion,
		ExportedAt:  time.Now().UTC(),
		Collections: make(map[string]json.RawMessage),
	}

	names := make([]string, 0, len(validators))
	for ns := range validators {
		names = append(names, ns)
	}
	sort.Strings(names)

	for _, ns := range names {
		payload, ok, err := readPayload(s.db, ns)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := validators[ns](ns, payload); err != nil {
			if b.Corrupt == nil {
				b.Corrupt = make(map[string]string)
			}
			b.Corrupt[ns] = string(payload)
			continue
		}
		b.Collections[ns] = json.RawMessage(payload)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// Restore replaces the stored namespaces with those in a Dump document.
// Every namespace is validated before anything is written; the write is a
// single transaction. Namespaces absent from the document are left alone, as
// are those the document marks corrupt.
func (s *Store) Restore(r io.Reader) (RestoreResult, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return RestoreResult{}, fmt.Errorf("reading backup: %w", err)
	}
	if b.Version != BackupVersion {
		return RestoreResult{}, fmt.Errorf("unsupported backup version %d", b.Version)
	}

	var res RestoreResult
	for ns, payload := range b.Collections {
		validate, ok := validators[ns]
		if !ok {
			return RestoreResult{}, fmt.Errorf("%w: %s", ErrUnknownNamespace, ns)
		}
		if err := validate(ns, payload); err != nil {
			return RestoreResult{}, err
		}
		res.Restored = append(res.Restored, ns)
	}
	for ns := range b.Corrupt {
		if _, ok := validators[ns]; !ok {
			return RestoreResult{}, fmt.Errorf("%w: %s", ErrUnknownNamespace, ns)
		}
		if _, ok := b.Collections[ns]; !ok {
			res.Skipped = append(res.Skipped, ns)
		}
	}
	sort.Strings(res.Restored)
	sort.Strings(res.Skipped)

	tx, err := s.db.Begin()
	if err != nil {
		return RestoreResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ns := range res.Restored {
		if err := writePayload(tx, ns, b.Collections[ns]); err != nil {
			return RestoreResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return RestoreResult{}, err
	}
	return res, nil
}
