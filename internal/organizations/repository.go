package organizations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/database"
)

const orgColumns = `id, owner_id, name, type, university, description, contact_email,
	contact_phone, member_count, website_url, logo_url, created_at, updated_at`

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	var typ string
	err := row.Scan(&o.ID, &o.OwnerID, &o.Name, &typ, &o.University, &o.Description, &o.ContactEmail,
		&o.ContactPhone, &o.MemberCount, &o.WebsiteURL, &o.LogoURL, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Type = models.OrganizationType(typ)
	return &o, nil
}

func (r *Repository) getOne(ctx context.Context, what, q string, args ...interface{}) (*models.Organization, error) {
	o, err := scanOrg(r.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return o, nil
}

// GetByID returns an organization by ID, or nil if none exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return r.getOne(ctx, "get organization", `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
}

// GetByOwner returns the organization owned by userID, or nil if the user has none.
func (r *Repository) GetByOwner(ctx context.Context, userID uuid.UUID) (*models.Organization, error) {
	return r.getOne(ctx, "get organization by owner",
		`SELECT `+orgColumns+` FROM organizations WHERE owner_id = $1 ORDER BY created_at LIMIT 1`, userID)
}

// Create inserts org and fills its generated fields.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (owner_id, name, type, university, description, contact_email,
		contact_phone, member_count, website_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, org.OwnerID, org.Name, string(org.Type), org.University, org.Description,
		org.ContactEmail, org.ContactPhone, org.MemberCount, org.WebsiteURL).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if database.IsCheckViolation(err, "") {
			return fmt.Errorf("create organization: %w", errCheck)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of upd and returns the new row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, upd models.OrganizationUpdate) (*models.Organization, error) {
	var typ *string
	if upd.Type != nil {
		s := string(*upd.Type)
		typ = &s
	}
	const q = `UPDATE organizations SET
		name = COALESCE($2, name),
		type = COALESCE($3, type),
		university = COALESCE($4, university),
		description = COALESCE($5, description),
		contact_email = COALESCE($6, contact_email),
		contact_phone = COALESCE($7, contact_phone),
		member_count = COALESCE($8, member_count),
		website_url = COALESCE($9, website_url),
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orgColumns
	o, err := scanOrg(r.pool.QueryRow(ctx, q, id, upd.Name, typ, upd.University, upd.Description,
		upd.ContactEmail, upd.ContactPhone, upd.MemberCount, upd.WebsiteURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if database.IsCheckViolation(err, "") {
			return nil, fmt.Errorf("update organization: %w", errCheck)
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return o, nil
}

// SetLogoURL records the uploaded logo location.
func (r *Repository) SetLogoURL(ctx context.Context, id uuid.UUID, url string) (*models.Organization, error) {
	return r.getOne(ctx, "set organization logo",
		`UPDATE organizations SET logo_url = $2, updated_at = NOW() WHERE id = $1 RETURNING `+orgColumns, id, url)
}
