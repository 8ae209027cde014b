package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const invitationCodeConstraint = "companies_invitation_code_key"

const companyColumns = `id, name, invitation_code, latitude, longitude, radius_meters, timezone, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.InvitationCode, &c.Latitude, &c.Longitude, &c.RadiusMeters, &c.Timezone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, err
}

func mapCompanyWriteError(err error) error {
	if database.IsUniqueViolation(err, invitationCodeConstraint) {
		return company.ErrInvitationCodeConflict
	}
	return err
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (name, invitation_code, timezone)
		VALUES ($1, $2, $3)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query, newCompany.Name, newCompany.InvitationCode, newCompany.Timezone))
	if err != nil {
		return company.Company{}, mapCompanyWriteError(err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// GetByInvitationCode implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByInvitationCode(ctx context.Context, code string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE invitation_code = $1`, code))
}

// ExistsByInvitationCode implements company.CompanyRepository.
func (c *companyRepositoryImpl) ExistsByInvitationCode(ctx context.Context, code string) (bool, error) {
	q := GetQuerier(ctx, c.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE invitation_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invitation code: %w", err)
	}
	return exists, nil
}

// UpdateInvitationCode implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateInvitationCode(ctx context.Context, id, code string) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET invitation_code = $1, updated_at = NOW() WHERE id = $2`, code, id)
	if err != nil {
		return mapCompanyWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// UpdateGeofence implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateGeofence(ctx context.Context, id string, req company.UpdateGeofenceRequest) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET latitude = $1, longitude = $2, radius_meters = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query, req.Latitude, req.Longitude, req.RadiusMeters, id))
}

// UpdateTimezone implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateTimezone(ctx context.Context, id, timezone string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `UPDATE companies SET timezone = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + companyColumns
	return scanCompany(q.QueryRow(ctx, query, timezone, id))
}
