package database

// CreateSiteUsersTable creates the profile table upserted on every backend login
const CreateSiteUsersTable = `
CREATE TABLE IF NOT EXISTS site_users (
	uid           TEXT PRIMARY KEY,
	email         TEXT NOT NULL,
	display_name  TEXT,
	photo_url     TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_login_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_site_users_email ON site_users (email);
`

// DropSiteUsersTable removes the profile table
const DropSiteUsersTable = `DROP TABLE IF EXISTS site_users`

// SiteUsersExistsQuery reports whether the profile table has been created
const SiteUsersExistsQuery = `SELECT to_regclass('site_users') IS NOT NULL`
