package store

// Schema is the DDL the postgres stores expect. Applied by the external
// migration tooling in production and by the integration suites directly.
const Schema = `
CREATE TABLE IF NOT EXISTS principals (
	id         TEXT PRIMARY KEY,
	identity   TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL,
	company_id TEXT
);

CREATE TABLE IF NOT EXISTS clients (
	id          TEXT PRIMARY KEY,
	full_name   TEXT NOT NULL,
	provider_id TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS system_messages (
	id                           TEXT PRIMARY KEY,
	title                        TEXT NOT NULL,
	body                         TEXT NOT NULL DEFAULT '',
	directed_to                  TEXT,
	priority                     TEXT NOT NULL DEFAULT 'normal',
	requires_directed_visibility BOOLEAN NOT NULL DEFAULT FALSE,
	starts_at                    TIMESTAMPTZ,
	ends_at                      TIMESTAMPTZ,
	created_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS training_plans (
	id         TEXT PRIMARY KEY,
	client_id  TEXT NOT NULL REFERENCES clients (id),
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS training_logs (
	id         TEXT PRIMARY KEY,
	client_id  TEXT NOT NULL REFERENCES clients (id),
	plan_id    TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS training_reminders (
	id         TEXT PRIMARY KEY,
	client_id  TEXT NOT NULL REFERENCES clients (id),
	note       TEXT NOT NULL DEFAULT '',
	due_at     TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_outbox (
	id         UUID PRIMARY KEY,
	category   TEXT NOT NULL,
	action     TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`
