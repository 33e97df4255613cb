package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

const venueColumns = `id, owner_id, name, type, capacity, base_price_cents, address_street,
	address_city, address_state, address_zip, created_at, updated_at, deleted_at`

// Repository handles venue persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a venues repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanVenue(row pgx.Row) (*models.Venue, error) {
	var v models.Venue
	var typ string
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &typ, &v.Capacity, &v.BasePriceCents, &v.AddressStreet,
		&v.AddressCity, &v.AddressState, &v.AddressZip, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt)
	if err != nil {
		return nil, err
	}
	v.Type = models.VenueType(typ)
	return &v, nil
}

// Create inserts v and fills its generated fields.
func (r *Repository) Create(ctx context.Context, v *models.Venue) error {
	const q = `INSERT INTO venues (owner_id, name, type, capacity, base_price_cents,
		address_street, address_city, address_state, address_zip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, v.OwnerID, v.Name, string(v.Type), v.Capacity, v.BasePriceCents,
		v.AddressStreet, v.AddressCity, v.AddressState, v.AddressZip).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

// Get returns a venue by ID, or nil. Soft-deleted venues are returned only when includeDeleted is set.
func (r *Repository) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	v, err := scanVenue(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

// likeEscaper escapes LIKE wildcards in user search input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of active venues matching f, newest first, and the total match count.
func (r *Repository) List(ctx context.Context, f models.VenueFilter) ([]models.Venue, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != nil {
		add("type = $%d", string(*f.Type))
	}
	if f.MinCapacity != nil {
		add("capacity >= $%d", *f.MinCapacity)
	}
	if f.MaxCapacity != nil {
		add("capacity <= $%d", *f.MaxCapacity)
	}
	if f.MaxPriceCents != nil {
		add("base_price_cents <= $%d", *f.MaxPriceCents)
	}
	if f.Search != "" {
		add("(name ILIKE $%[1]d OR address_street ILIKE $%[1]d OR address_city ILIKE $%[1]d)",
			"%"+likeEscaper.Replace(f.Search)+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM venues WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	q := fmt.Sprintf(`SELECT %s FROM venues WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		venueColumns, cond, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, f.PageSize, response.Offset(f.Page, f.PageSize))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()
	var list []models.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan venue: %w", err)
		}
		list = append(list, *v)
	}
	return list, total, rows.Err()
}

// Update applies the non-nil fields of upd to an active venue and returns the new row, or nil.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, upd models.VenueUpdate) (*models.Venue, error) {
	var typ *string
	if upd.Type != nil {
		s := string(*upd.Type)
		typ = &s
	}
	const q = `UPDATE venues SET
		name = COALESCE($2, name),
		type = COALESCE($3, type),
		capacity = COALESCE($4, capacity),
		base_price_cents = COALESCE($5, base_price_cents),
		address_street = COALESCE($6, address_street),
		address_city = COALESCE($7, address_city),
		address_state = COALESCE($8, address_state),
		address_zip = COALESCE($9, address_zip),
		updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + venueColumns
	v, err := scanVenue(r.pool.QueryRow(ctx, q, id, upd.Name, typ, upd.Capacity, upd.BasePriceCents,
		upd.AddressStreet, upd.AddressCity, upd.AddressState, upd.AddressZip))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return v, nil
}

// SoftDelete marks an active venue deleted. It reports false if the venue was missing or already deleted.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE venues SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("delete venue: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
