package cache

// schema is applied on every open; CREATE IF NOT EXISTS keeps it
// idempotent across versions that share the table shape.
const schema = `
CREATE TABLE IF NOT EXISTS modules (
    path       TEXT PRIMARY KEY,
    hash       TEXT NOT NULL,
    data       BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_modules_hash ON modules(hash);
`
