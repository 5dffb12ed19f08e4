package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("lead not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

// mapWriteError turns a campaign foreign key violation into ErrCampaignNotFound.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrCampaignNotFound
	}
	return err
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, name, email, phone, company, job_title, industry, location, country, source, tags,
	status, score, score_engagement, score_demographic, score_behavioral, score_fit,
	value_cents, campaign_id, notes, created_at, updated_at, last_contact_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status string
	var engagement, demographic, behavioral, fit *int
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.JobTitle, &lead.Industry,
		&lead.Location, &lead.Country, &lead.Source, &lead.Tags,
		&status, &lead.Score, &engagement, &demographic, &behavioral, &fit,
		&lead.ValueCents, &lead.CampaignID, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt, &lead.LastContactAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	lead.Status = domain.Status(status)
	if engagement != nil && demographic != nil && behavioral != nil && fit != nil {
		lead.ScoreBreakdown = &domain.ScoreBreakdown{
			Engagement:  *engagement,
			Demographic: *demographic,
			Behavioral:  *behavioral,
			Fit:         *fit,
		}
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}
	return lead, nil
}

// breakdownArgs splits a breakdown into its four nullable columns.
func breakdownArgs(b *domain.ScoreBreakdown) []interface{} {
	if b == nil {
		return []interface{}{nil, nil, nil, nil}
	}
	return []interface{}{b.Engagement, b.Demographic, b.Behavioral, b.Fit}
}

func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}
	args := []interface{}{
		lead.Name, lead.Email, lead.Phone, lead.Company, lead.JobTitle, lead.Industry,
		lead.Location, lead.Country, lead.Source, tags, string(lead.Status), lead.Score,
	}
	args = append(args, breakdownArgs(lead.ScoreBreakdown)...)
	args = append(args, lead.ValueCents, lead.CampaignID, lead.Notes, lead.LastContactAt)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, email, phone, company, job_title, industry, location, country, source, tags,
			status, score, score_engagement, score_demographic, score_behavioral, score_fit,
			value_cents, campaign_id, notes, last_contact_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+leadColumns, args...)
	lead, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, mapWriteError(err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 AND deleted_at IS NULL`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateLeadParams carries the fields of a partial update. Nil pointers are
// left untouched; the *Set flags distinguish "clear" from "keep" for
// nullable columns. A status change also appends a status_change activity in
// the same transaction.
type UpdateLeadParams struct {
	Name              *string
	Email             *string
	Phone             *string
	Company           *string
	JobTitle          *string
	Industry          *string
	Location          *string
	Country           *string
	Source            *string
	Tags              *[]string
	Status            *domain.Status
	Score             *int
	ScoreBreakdown    *domain.ScoreBreakdown
	ScoreBreakdownSet bool
	ValueCents        *int64
	ValueCentsSet     bool
	CampaignID        *uuid.UUID
	CampaignIDSet     bool
	Notes             *string
	LastContactAt     *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (p UpdateLeadParams) IsEmpty() bool {
	return p == UpdateLeadParams{}
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	breakdown := breakdownArgs(params.ScoreBreakdown)
	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Name != nil, "name", derefString(params.Name)},
		{params.Email != nil, "email", derefString(params.Email)},
		{params.Phone != nil, "phone", derefString(params.Phone)},
		{params.Company != nil, "company", derefString(params.Company)},
		{params.JobTitle != nil, "job_title", derefString(params.JobTitle)},
		{params.Industry != nil, "industry", derefString(params.Industry)},
		{params.Location != nil, "location", derefString(params.Location)},
		{params.Country != nil, "country", derefString(params.Country)},
		{params.Source != nil, "source", derefString(params.Source)},
		{params.Tags != nil, "tags", derefTags(params.Tags)},
		{params.Status != nil, "status", derefStatus(params.Status)},
		{params.Score != nil, "score", derefInt(params.Score)},
		{params.ScoreBreakdownSet, "score_engagement", breakdown[0]},
		{params.ScoreBreakdownSet, "score_demographic", breakdown[1]},
		{params.ScoreBreakdownSet, "score_behavioral", breakdown[2]},
		{params.ScoreBreakdownSet, "score_fit", breakdown[3]},
		{params.ValueCentsSet, "value_cents", params.ValueCents},
		{params.CampaignIDSet, "campaign_id", params.CampaignID},
		{params.Notes != nil, "notes", derefString(params.Notes)},
		{params.LastContactAt != nil, "last_contact_at", params.LastContactAt},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	if params.Status == nil {
		lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, ErrNotFound
		}
		if err != nil {
			return domain.Lead{}, mapWriteError(err)
		}
		return lead, nil
	}

	// a status move and its timeline entry commit together
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Lead{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous string
	err = tx.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}

	lead, err := scanLead(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Lead{}, mapWriteError(err)
	}

	if from := domain.Status(previous); from != lead.Status {
		if _, err := insertActivity(ctx, tx, domain.StatusChangeActivity(lead.ID, from, lead.Status)); err != nil {
			return domain.Lead{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func derefTags(value *[]string) []string {
	if value == nil || *value == nil {
		return []string{}
	}
	return *value
}

func derefStatus(value *domain.Status) string {
	if value == nil {
		return ""
	}
	return string(*value)
}

// ListParams filters and pages lead queries. Zero values mean "no filter".
type ListParams struct {
	Status        *domain.Status
	Source        *string
	Industry      *string
	CampaignID    *uuid.UUID
	Tag           *string
	Search        string
	ScoreMin      *int
	ScoreMax      *int
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
	SortBy        string
	SortOrder     string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, mapLeadSortColumn(params.SortBy), mapSortOrder(params.SortOrder), argIdx, argIdx+1)

	leads := make([]domain.Lead, 0)
	err := r.query(ctx, query, args, func(lead domain.Lead) error {
		leads = append(leads, lead)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// Stream calls fn for every lead matching params, ignoring Limit and Offset.
// Iteration stops at the first error fn returns.
func (r *Repository) Stream(ctx context.Context, params ListParams, fn func(domain.Lead) error) error {
	whereClause, args, _ := buildLeadListWhere(params)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY %s %s, id ASC
	`, leadColumns, whereClause, mapLeadSortColumn(params.SortBy), mapSortOrder(params.SortOrder))
	return r.query(ctx, query, args, fn)
}

func (r *Repository) query(ctx context.Context, query string, args []interface{}, fn func(domain.Lead) error) error {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return err
		}
		if err := fn(lead); err != nil {
			return err
		}
	}
	return rows.Err()
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	add := func(format string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(format, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		add("status = $%d", string(*params.Status))
	}
	if params.Source != nil {
		add("source = $%d", *params.Source)
	}
	if params.Industry != nil {
		add("industry ILIKE $%d", *params.Industry)
	}
	if params.CampaignID != nil {
		add("campaign_id = $%d", *params.CampaignID)
	}
	if params.Tag != nil {
		add("$%d = ANY(tags)", strings.ToLower(*params.Tag))
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d OR phone ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.ScoreMin != nil {
		add("score >= $%d", *params.ScoreMin)
	}
	if params.ScoreMax != nil {
		add("score <= $%d", *params.ScoreMax)
	}
	if params.CreatedAtFrom != nil {
		add("created_at >= $%d", *params.CreatedAtFrom)
	}
	if params.CreatedAtTo != nil {
		add("created_at < $%d", *params.CreatedAtTo)
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "email":
		return "email"
	case "company":
		return "company"
	case "status":
		return "status"
	case "score":
		return "score"
	case "value":
		return "COALESCE(value_cents, 0)"
	case "updatedAt":
		return "updated_at"
	case "lastContactAt":
		return "last_contact_at"
	default:
		return "created_at"
	}
}

func mapSortOrder(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "UPDATE leads SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	result, err := r.pool.Exec(ctx, "UPDATE leads SET deleted_at = now(), updated_at = now() WHERE id = ANY($1) AND deleted_at IS NULL", ids)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
