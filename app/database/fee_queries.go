package database

import (
	"database/sql"
	"fmt"

	"campus-finance/app/models"

	"github.com/lib/pq"
)

// GetFeeTypeByID returns an active fee type.
func GetFeeTypeByID(q Queryer, id string) (*models.FeeType, error) {
	ft := &models.FeeType{}
	query := `SELECT id, code, name, description, requires_semester, is_active, created_at, updated_at
	          FROM fee_types
	          WHERE id = $1 AND deleted_at IS NULL`
	err := q.QueryRow(query, id).Scan(
		&ft.ID, &ft.Code, &ft.Name, &ft.Description,
		&ft.RequiresSemester, &ft.IsActive, &ft.CreatedAt, &ft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// GetFeeTypeByCode returns an active fee type by its code.
func GetFeeTypeByCode(q Queryer, code string) (*models.FeeType, error) {
	ft := &models.FeeType{}
	query := `SELECT id, code, name, description, requires_semester, is_active, created_at, updated_at
	          FROM fee_types
	          WHERE code = $1 AND deleted_at IS NULL`
	err := q.QueryRow(query, code).Scan(
		&ft.ID, &ft.Code, &ft.Name, &ft.Description,
		&ft.RequiresSemester, &ft.IsActive, &ft.CreatedAt, &ft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// ListFeeTypes returns all fee types, active ones first.
func ListFeeTypes(q Queryer) ([]*models.FeeType, error) {
	query := `SELECT id, code, name, description, requires_semester, is_active, created_at, updated_at
	          FROM fee_types
	          WHERE deleted_at IS NULL
	          ORDER BY is_active DESC, name`
	rows, err := q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeTypes []*models.FeeType
	for rows.Next() {
		ft := &models.FeeType{}
		err := rows.Scan(
			&ft.ID, &ft.Code, &ft.Name, &ft.Description,
			&ft.RequiresSemester, &ft.IsActive, &ft.CreatedAt, &ft.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		feeTypes = append(feeTypes, ft)
	}
	return feeTypes, rows.Err()
}

// CreateFeeType inserts a new fee type.
func CreateFeeType(q Queryer, ft *models.FeeType) error {
	query := `INSERT INTO fee_types (code, name, description, requires_semester, is_active)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := q.QueryRow(query, ft.Code, ft.Name, ft.Description, ft.RequiresSemester, ft.IsActive).Scan(
		&ft.ID, &ft.CreatedAt, &ft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fee type: %v", err)
	}
	return nil
}

// scanFeeStructure reads one fee structure row including its array filters.
func scanFeeStructure(rows interface {
	Scan(dest ...interface{}) error
}) (*models.FeeStructure, error) {
	fs := &models.FeeStructure{}
	err := rows.Scan(
		&fs.ID, &fs.FeeTypeID, &fs.Name, &fs.Amount, &fs.Currency,
		pq.Array(&fs.SemesterIDs), pq.Array(&fs.MajorIDs), pq.Array(&fs.DegreeLevels),
		&fs.IsActive, &fs.CreatedAt, &fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

const feeStructureColumns = `id, fee_type_id, name, amount, currency,
	semester_ids, major_ids, degree_levels, is_active, created_at, updated_at`

// GetFeeStructureByID returns one active fee structure with its portions.
func GetFeeStructureByID(q Queryer, id string) (*models.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + ` FROM fee_structures WHERE id = $1 AND deleted_at IS NULL`
	fs, err := scanFeeStructure(q.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	if err := loadPortions(q, []*models.FeeStructure{fs}); err != nil {
		return nil, err
	}
	return fs, nil
}

// GetFeeStructuresByIDs returns the selected active fee structures, portions
// included, in no particular order.
func GetFeeStructuresByIDs(q Queryer, ids []string) ([]*models.FeeStructure, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + feeStructureColumns + `
	          FROM fee_structures
	          WHERE id = ANY($1) AND deleted_at IS NULL AND is_active = true`
	rows, err := q.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []*models.FeeStructure
	for rows.Next() {
		fs, err := scanFeeStructure(rows)
		if err != nil {
			return nil, err
		}
		structures = append(structures, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadPortions(q, structures); err != nil {
		return nil, err
	}
	return structures, nil
}

// ListFeeStructures returns all active fee structures with portions.
func ListFeeStructures(q Queryer) ([]*models.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + `
	          FROM fee_structures
	          WHERE deleted_at IS NULL AND is_active = true
	          ORDER BY name`
	rows, err := q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []*models.FeeStructure
	for rows.Next() {
		fs, err := scanFeeStructure(rows)
		if err != nil {
			return nil, err
		}
		structures = append(structures, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadPortions(q, structures); err != nil {
		return nil, err
	}
	return structures, nil
}

func loadPortions(q Queryer, structures []*models.FeeStructure) error {
	if len(structures) == 0 {
		return nil
	}
	byID := make(map[string]*models.FeeStructure, len(structures))
	ids := make([]string, 0, len(structures))
	for _, fs := range structures {
		byID[fs.ID] = fs
		ids = append(ids, fs.ID)
	}

	query := `SELECT id, fee_structure_id, portion_number, percentage, deadline_type, days, custom_date
	          FROM payment_portions
	          WHERE fee_structure_id = ANY($1)
	          ORDER BY fee_structure_id, portion_number`
	rows, err := q.Query(query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.PaymentPortion{}
		var deadlineType string
		err := rows.Scan(&p.ID, &p.FeeStructureID, &p.PortionNumber, &p.Percentage, &deadlineType, &p.Days, &p.CustomDate)
		if err != nil {
			return err
		}
		p.DeadlineType = models.DeadlineType(deadlineType)
		if fs, ok := byID[p.FeeStructureID]; ok {
			fs.Portions = append(fs.Portions, p)
		}
	}
	return rows.Err()
}

// CreateFeeStructure inserts a fee structure and its portions atomically.
// The portion schedule is re-validated here so a malformed schedule can
// never reach the table, whatever the caller checked.
func CreateFeeStructure(db *sql.DB, fs *models.FeeStructure) error {
	if err := models.ValidatePortions(fs.Portions); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO fee_structures (fee_type_id, name, amount, currency, semester_ids, major_ids, degree_levels, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		fs.FeeTypeID, fs.Name, fs.Amount, fs.Currency,
		pq.Array(fs.SemesterIDs), pq.Array(fs.MajorIDs), pq.Array(fs.DegreeLevels),
		fs.IsActive,
	).Scan(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fee structure: %v", err)
	}

	for _, p := range fs.Portions {
		p.FeeStructureID = fs.ID
		err = tx.QueryRow(
			`INSERT INTO payment_portions (fee_structure_id, portion_number, percentage, deadline_type, days, custom_date)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			p.FeeStructureID, p.PortionNumber, p.Percentage, string(p.DeadlineType), p.Days, p.CustomDate,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to create payment portion %d: %v", p.PortionNumber, err)
		}
	}

	return tx.Commit()
}

// DeactivateFeeStructure soft-deletes a fee structure so it can no longer
// be selected at invoice time. Existing invoices keep referencing it.
func DeactivateFeeStructure(q Queryer, id string) error {
	result, err := q.Exec(`UPDATE fee_structures SET is_active = false, deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
