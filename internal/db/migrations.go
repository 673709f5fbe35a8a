package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'plate_operation') THEN
			CREATE TYPE plate_operation AS ENUM ('VALIDATE', 'FORMAT', 'SIDECODE');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS country_side_codes (
		country VARCHAR(8) NOT NULL,
		position INTEGER NOT NULL,
		pattern VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (country, position),
		CONSTRAINT country_side_codes_country_upper CHECK (country = UPPER(country))
	);`,
	`CREATE TABLE IF NOT EXISTS plate_checks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		operation plate_operation NOT NULL,
		plate VARCHAR(64) NOT NULL,
		normalized_plate VARCHAR(64),
		country VARCHAR(8) NOT NULL,
		ignore_dashes BOOLEAN NOT NULL DEFAULT FALSE,
		side_code VARCHAR(32),
		formatted VARCHAR(64),
		valid BOOLEAN NOT NULL DEFAULT FALSE,
		error TEXT,
		requested_by VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_checks_created_at ON plate_checks (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_checks_normalized_plate ON plate_checks (normalized_plate);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_checks_operation ON plate_checks (operation);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
