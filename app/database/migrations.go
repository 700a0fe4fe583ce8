package database

import (
	"database/sql"
	"log"
)

// RunMigrations applies the schema. Every statement is idempotent so the
// application can run it on every startup.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role VARCHAR(30) NOT NULL DEFAULT 'bursar',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS semesters (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			is_current BOOLEAN NOT NULL DEFAULT false
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_no TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT UNIQUE,
			major_id UUID,
			degree_level VARCHAR(30) NOT NULL DEFAULT 'bachelor',
			enrollment_status VARCHAR(10) NOT NULL DEFAULT 'ENPN',
			financial_hold_reason_code VARCHAR(10),
			grades_visibility VARCHAR(10) NOT NULL DEFAULT 'GV_REL',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS fee_types (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			requires_semester BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS fee_structures (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			fee_type_id UUID NOT NULL REFERENCES fee_types(id),
			name TEXT NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			semester_ids UUID[] NOT NULL DEFAULT '{}',
			major_ids UUID[] NOT NULL DEFAULT '{}',
			degree_levels TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS payment_portions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			fee_structure_id UUID NOT NULL REFERENCES fee_structures(id) ON DELETE CASCADE,
			portion_number INT NOT NULL,
			percentage NUMERIC(5,2) NOT NULL,
			deadline_type VARCHAR(30) NOT NULL,
			days INT,
			custom_date DATE,
			UNIQUE (fee_structure_id, portion_number)
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			semester_id UUID REFERENCES semesters(id),
			fee_structure_id UUID REFERENCES fee_structures(id),
			invoice_type VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			subtotal NUMERIC(10,2) NOT NULL DEFAULT 0,
			discount NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			paid_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			pending_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			parent_invoice_id UUID REFERENCES invoices(id),
			portion_number INT,
			portion_percentage NUMERIC(5,2),
			invoice_date DATE NOT NULL,
			due_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_student_semester ON invoices (student_id, semester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_parent ON invoices (parent_invoice_id)`,

		`CREATE TABLE IF NOT EXISTS invoice_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_price NUMERIC(10,2) NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id),
			student_id UUID NOT NULL REFERENCES students(id),
			amount NUMERIC(10,2) NOT NULL,
			method VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			reference TEXT NOT NULL UNIQUE,
			verified_by UUID REFERENCES users(id),
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments (invoice_id)`,

		`CREATE TABLE IF NOT EXISTS student_semester_financial_status (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			semester_id UUID NOT NULL REFERENCES semesters(id),
			milestone_code VARCHAR(10) NOT NULL DEFAULT 'PM00',
			total_due NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_paid NUMERIC(10,2) NOT NULL DEFAULT 0,
			hold_code VARCHAR(10),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, semester_id)
		)`,

		`CREATE TABLE IF NOT EXISTS milestone_recompute_queue (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL,
			semester_id UUID NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			last_error TEXT,
			queued_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, semester_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
