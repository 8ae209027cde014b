package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const reviewSelect = `
	SELECT r.id, r.employee_id, e.name, r.reviewer_id, rv.name, r.company_id,
		r.review_date, r.rating, r.comments, r.goals, r.created_at`

const reviewJoins = `
	JOIN employees e ON e.id = r.employee_id
	JOIN employees rv ON rv.id = r.reviewer_id`

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) performance.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

func scanReview(row pgx.Row) (performance.Review, error) {
	var rev performance.Review
	err := row.Scan(
		&rev.ID, &rev.EmployeeID, &rev.EmployeeName, &rev.ReviewerID, &rev.ReviewerName, &rev.CompanyID,
		&rev.ReviewDate, &rev.Rating, &rev.Comments, &rev.Goals, &rev.CreatedAt,
	)
	return rev, err
}

func (r *reviewRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []performance.Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) Create(ctx context.Context, rev performance.Review) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			INSERT INTO performance_reviews (employee_id, reviewer_id, company_id, rating, comments, goals)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)` + reviewSelect + `
		FROM r` + reviewJoins

	created, err := scanReview(q.QueryRow(ctx, query,
		rev.EmployeeID, rev.ReviewerID, rev.CompanyID, rev.Rating, rev.Comments, rev.Goals,
	))
	if err != nil {
		return performance.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

// ListByEmployee implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]performance.Review, error) {
	query := reviewSelect + `
		FROM performance_reviews r` + reviewJoins + `
		WHERE r.employee_id = $1
		ORDER BY r.review_date DESC, r.created_at DESC`
	return r.list(ctx, query, employeeID)
}

// ListByCompany implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]performance.Review, error) {
	query := reviewSelect + `
		FROM performance_reviews r` + reviewJoins + `
		WHERE r.company_id = $1
		ORDER BY r.review_date DESC, r.created_at DESC`
	return r.list(ctx, query, companyID)
}
