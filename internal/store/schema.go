package store

// Each collection is stored whole, as one JSON array per namespace.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
    namespace            TEXT PRIMARY KEY,
    payload              TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);
`
