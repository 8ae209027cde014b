package company

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/retry"
)

const (
	invitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	invitationCodeLength   = 6
	maxIssueAttempts       = 5
)

// InvitationCodeIssuerImpl persists random codes, retrying on collisions with
// another company's code. Each attempt runs in its own savepoint so a
// collision does not abort a surrounding transaction.
type InvitationCodeIssuerImpl struct {
	companyRepo company.CompanyRepository
	transactor  database.Transactor
	generate    func() (string, error)
}

func NewInvitationCodeIssuer(companyRepo company.CompanyRepository, transactor database.Transactor) *InvitationCodeIssuerImpl {
	return &InvitationCodeIssuerImpl{
		companyRepo: companyRepo,
		transactor:  transactor,
		generate:    GenerateInvitationCode,
	}
}

// Issue implements company.InvitationCodeIssuer.
func (i *InvitationCodeIssuerImpl) Issue(ctx context.Context, companyID string) (string, error) {
	var issued string

	policy := retry.Policy{
		MaxAttempts: maxIssueAttempts,
		Retryable: func(err error) bool {
			return errors.Is(err, company.ErrInvitationCodeConflict)
		},
	}

	err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		candidate, err := i.generate()
		if err != nil {
			return fmt.Errorf("failed to generate invitation code: %w", err)
		}

		err = i.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			return i.companyRepo.UpdateInvitationCode(ctx, companyID, candidate)
		})
		if errors.Is(err, company.ErrInvitationCodeConflict) {
			slog.Warn("Invitation code collision", "company_id", companyID, "attempt", attempt)
		}
		if err != nil {
			return err
		}

		issued = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			slog.Error("Invitation code attempts exhausted", "company_id", companyID, "attempts", maxIssueAttempts)
			return "", company.ErrInvitationCodeExhausted
		}
		return "", err
	}

	return issued, nil
}

// GenerateInvitationCode returns a random code of six characters from A-Z and 0-9.
func GenerateInvitationCode() (string, error) {
	max := big.NewInt(int64(len(invitationCodeAlphabet)))
	code := make([]byte, invitationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = invitationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
