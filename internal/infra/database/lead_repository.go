package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `
	id, user_id, pipeline_id, indication_id, name, phone, email, status,
	source, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	potential_value, appointment_date, medical_notes, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// execer cobre *sql.DB e *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if err := insertLead(ctx, r.DB, lead); err != nil {
		return fmt.Errorf("falha ao criar lead: %w", translate(err))
	}
	return nil
}

func insertLead(ctx context.Context, db execer, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := db.ExecContext(ctx, query, leadArgs(lead)...)
	return err
}

func leadArgs(l *entity.Lead) []any {
	return []any{
		l.ID,
		l.UserID,
		l.PipelineID,
		l.IndicationID,
		l.Name,
		l.Phone,
		nullString(l.Email),
		l.Status,
		nullString(l.Source),
		nullString(l.UTMSource),
		nullString(l.UTMMedium),
		nullString(l.UTMCampaign),
		nullString(l.UTMTerm),
		nullString(l.UTMContent),
		decimalArg(l.PotentialValue),
		l.AppointmentDate,
		nullString(l.MedicalNotes),
		l.CreatedAt,
		l.UpdatedAt,
	}
}

func decimalArg(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l                        entity.Lead
		pipelineID, indicationID sql.NullString
		email, source, notes     sql.NullString
		utmSource, utmMedium     sql.NullString
		utmCampaign, utmTerm     sql.NullString
		utmContent               sql.NullString
		potential                decimal.NullDecimal
		appointment              sql.NullTime
	)

	err := row.Scan(
		&l.ID, &l.UserID, &pipelineID, &indicationID, &l.Name, &l.Phone, &email, &l.Status,
		&source, &utmSource, &utmMedium, &utmCampaign, &utmTerm, &utmContent,
		&potential, &appointment, &notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pipelineID.Valid {
		l.PipelineID = &pipelineID.String
	}
	if indicationID.Valid {
		l.IndicationID = &indicationID.String
	}
	if potential.Valid {
		l.PotentialValue = &potential.Decimal
	}
	if appointment.Valid {
		l.AppointmentDate = &appointment.Time
	}
	l.Email = email.String
	l.Source = source.String
	l.UTMSource = utmSource.String
	l.UTMMedium = utmMedium.String
	l.UTMCampaign = utmCampaign.String
	l.UTMTerm = utmTerm.String
	l.UTMContent = utmContent.String
	l.MedicalNotes = notes.String
	return &l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err)
	}
	return lead, nil
}

func (r *LeadRepository) ListByUser(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1 AND status <> $2`
	args := []any{userID, entity.StatusRemoved}
	if filter.PipelineID != "" {
		query += ` AND pipeline_id = $3`
		args = append(args, filter.PipelineID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET
			pipeline_id = $3, indication_id = $4, name = $5, phone = $6, email = $7, status = $8,
			source = $9, utm_source = $10, utm_medium = $11, utm_campaign = $12, utm_term = $13, utm_content = $14,
			potential_value = $15, appointment_date = $16, medical_notes = $17, updated_at = $18
		WHERE id = $1 AND user_id = $2
	`
	// Mesma ordem de leadArgs, sem created_at.
	args := leadArgs(l)
	args = append(args[:17], l.UpdatedAt)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar lead: %w", translate(err))
	}
	return expectOne(res)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, userID, id string, status entity.Status) error {
	query := `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	res, err := r.DB.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar status: %w", err)
	}
	return expectOne(res)
}

func (r *LeadRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("falha ao apagar lead: %w", err)
	}
	return expectOne(res)
}

// ExistingPhones compara só os dígitos, para "(11) 99999-0000" e
// "11999990000" serem o mesmo contato.
func (r *LeadRepository) ExistingPhones(ctx context.Context, userID string, phones []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(phones) == 0 {
		return found, nil
	}

	query := `
		SELECT DISTINCT regexp_replace(phone, '\D', '', 'g')
		FROM leads
		WHERE user_id = $1 AND regexp_replace(phone, '\D', '', 'g') = ANY($2)
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(phones))
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar telefones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, err
		}
		found[phone] = true
	}
	return found, rows.Err()
}

// CreateBatch grava todos ou nenhum.
func (r *LeadRepository) CreateBatch(ctx context.Context, leads []*entity.Lead) error {
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, l := range leads {
			if err := insertLead(ctx, tx, l); err != nil {
				return fmt.Errorf("falha ao importar lead %s: %w", l.Phone, translate(err))
			}
		}
		return nil
	})
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
