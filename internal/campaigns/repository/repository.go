package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("campaign not found")
	ErrStatusChanged = errors.New("campaign status changed concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const campaignColumns = `id, name, description, owner, status, channels,
	target_industries, target_locations, target_countries, target_statuses, target_tags, score_min, score_max,
	subject, body, budget_cents, spent_cents,
	sent, delivered, bounced, opened, clicked, replied, converted, unsubscribed,
	tags, scheduled_at, start_date, end_date, launched_at, completed_at, created_at, updated_at`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	var status string
	var channels, targetStatuses []string
	p := &c.Performance
	t := &c.Targeting
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Owner, &status, &channels,
		&t.Industries, &t.Locations, &t.Countries, &targetStatuses, &t.Tags, &t.ScoreRange.Min, &t.ScoreRange.Max,
		&c.Subject, &c.Body, &c.BudgetCents, &c.SpentCents,
		&p.Sent, &p.Delivered, &p.Bounced, &p.Opened, &p.Clicked, &p.Replied, &p.Converted, &p.Unsubscribed,
		&c.Tags, &c.ScheduledAt, &c.StartDate, &c.EndDate, &c.LaunchedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}

	c.Status = domain.Status(status)
	c.Channels = make([]domain.Channel, len(channels))
	for i, ch := range channels {
		c.Channels[i] = domain.Channel(ch)
	}
	t.Statuses = make([]leaddomain.Status, len(targetStatuses))
	for i, s := range targetStatuses {
		t.Statuses[i] = leaddomain.Status(s)
	}
	return c, nil
}

func channelStrings(channels []domain.Channel) []string {
	out := make([]string, len(channels))
	for i, ch := range channels {
		out[i] = string(ch)
	}
	return out
}

func statusStrings(statuses []leaddomain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// contentArgs are the values written by both Create and Save.
func contentArgs(c domain.Campaign) []interface{} {
	p := c.Performance
	return []interface{}{
		c.Name, c.Description, c.Owner, string(c.Status), channelStrings(c.Channels),
		nonNil(c.Targeting.Industries), nonNil(c.Targeting.Locations), nonNil(c.Targeting.Countries),
		statusStrings(c.Targeting.Statuses), nonNil(c.Targeting.Tags),
		c.Targeting.ScoreRange.Min, c.Targeting.ScoreRange.Max,
		c.Subject, c.Body, c.BudgetCents, c.SpentCents,
		p.Sent, p.Delivered, p.Bounced, p.Opened, p.Clicked, p.Replied, p.Converted, p.Unsubscribed,
		nonNil(c.Tags), c.ScheduledAt, c.StartDate, c.EndDate, c.LaunchedAt, c.CompletedAt,
	}
}

// writableColumns lines up with contentArgs.
var writableColumns = []string{
	"name", "description", "owner", "status", "channels",
	"target_industries", "target_locations", "target_countries", "target_statuses", "target_tags", "score_min", "score_max",
	"subject", "body", "budget_cents", "spent_cents",
	"sent", "delivered", "bounced", "opened", "clicked", "replied", "converted", "unsubscribed",
	"tags", "scheduled_at", "start_date", "end_date", "launched_at", "completed_at",
}

func placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func (r *Repository) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	args := contentArgs(campaign)
	query := fmt.Sprintf(`
		INSERT INTO campaigns (%s)
		VALUES (%s)
		RETURNING %s`, strings.Join(writableColumns, ", "), placeholders(1, len(args)), campaignColumns)
	return scanCampaign(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 AND deleted_at IS NULL`, id)
	campaign, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, ErrNotFound
	}
	return campaign, err
}

func (r *Repository) Save(ctx context.Context, campaign domain.Campaign, expected domain.Status) (domain.Campaign, error) {
	args := contentArgs(campaign)
	assignments := make([]string, len(writableColumns))
	for i, column := range writableColumns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	idIdx := len(args) + 1
	args = append(args, campaign.ID, string(expected))

	query := fmt.Sprintf(`
		UPDATE campaigns SET %s, updated_at = now()
		WHERE id = $%d AND status = $%d AND deleted_at IS NULL
		RETURNING %s`, strings.Join(assignments, ", "), idIdx, idIdx+1, campaignColumns)

	saved, err := scanCampaign(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, campaign.ID); getErr != nil {
			return domain.Campaign{}, getErr
		}
		return domain.Campaign{}, ErrStatusChanged
	}
	return saved, err
}

func (r *Repository) IncrementPerformance(ctx context.Context, id uuid.UUID, delta domain.Performance, spentCents int64) (domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET
			sent = sent + $2,
			delivered = delivered + $3,
			bounced = bounced + $4,
			opened = opened + $5,
			clicked = clicked + $6,
			replied = replied + $7,
			converted = converted + $8,
			unsubscribed = unsubscribed + $9,
			spent_cents = spent_cents + $10,
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+campaignColumns,
		id, delta.Sent, delta.Delivered, delta.Bounced, delta.Opened,
		delta.Clicked, delta.Replied, delta.Converted, delta.Unsubscribed, spentCents,
	)
	campaign, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, ErrNotFound
	}
	return campaign, err
}

// ListParams filters and pages campaign queries.
type ListParams struct {
	Status    *domain.Status
	Channel   *domain.Channel
	Search    string
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Campaign, int, error) {
	whereClauses := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*params.Status))
		argIdx++
	}
	if params.Channel != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("$%d = ANY(channels)", argIdx))
		args = append(args, string(*params.Channel))
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR owner ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM campaigns WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM campaigns
		WHERE %s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, campaignColumns, whereClause, mapCampaignSortColumn(params.SortBy), mapSortOrder(params.SortOrder), argIdx, argIdx+1)

	campaigns, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// ListAll returns every live campaign, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	return r.collect(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE deleted_at IS NULL ORDER BY created_at ASC, id ASC`)
}

func (r *Repository) collect(ctx context.Context, query string, args ...interface{}) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func mapCampaignSortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "status":
		return "status"
	case "budget":
		return "budget_cents"
	case "spent":
		return "spent_cents"
	case "startDate":
		return "start_date"
	case "updatedAt":
		return "updated_at"
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
	result, err := r.pool.Exec(ctx, "UPDATE campaigns SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
