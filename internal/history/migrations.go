package history

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    args TEXT,
    dry_run BOOLEAN NOT NULL DEFAULT FALSE,
    exit_code INTEGER NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations(started_at);
`
