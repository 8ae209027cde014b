package company

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/company"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var invitationCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// sequence returns the given candidates in order.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestGenerateInvitationCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for range 500 {
		code, err := GenerateInvitationCode()
		require.NoError(t, err)
		assert.Regexp(t, invitationCodePattern, code)
		seen[code] = true
	}
	// 36^6 possibilities; 500 draws should essentially never repeat.
	assert.Greater(t, len(seen), 495)
}

func TestIssue_FirstAttempt(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", "ABC123").Return(nil).Once()
	tx := &passthroughTransactor{}

	issuer := NewInvitationCodeIssuer(repo, tx)
	issuer.generate = sequence("ABC123")

	code, err := issuer.Issue(context.Background(), "co-1")

	require.NoError(t, err)
	assert.Equal(t, "ABC123", code)
	assert.Equal(t, 1, tx.calls)
	repo.AssertExpectations(t)
}

func TestIssue_RetriesWithFreshCandidateAfterConflict(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", "TAKEN1").Return(company.ErrInvitationCodeConflict).Once()
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", "FRESH2").Return(nil).Once()
	tx := &passthroughTransactor{}

	issuer := NewInvitationCodeIssuer(repo, tx)
	issuer.generate = sequence("TAKEN1", "FRESH2")

	code, err := issuer.Issue(context.Background(), "co-1")

	require.NoError(t, err)
	assert.Equal(t, "FRESH2", code)
	assert.Equal(t, 2, tx.calls, "each attempt runs in its own savepoint")
	repo.AssertExpectations(t)
}

func TestIssue_ExhaustedAfterFiveConflicts(t *testing.T) {
	repo := new(MockCompanyRepository)
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", mock.Anything).Return(company.ErrInvitationCodeConflict)

	issuer := NewInvitationCodeIssuer(repo, &passthroughTransactor{})

	code, err := issuer.Issue(context.Background(), "co-1")

	assert.Empty(t, code)
	assert.ErrorIs(t, err, company.ErrInvitationCodeExhausted)
	repo.AssertNumberOfCalls(t, "UpdateInvitationCode", maxIssueAttempts)
}

func TestIssue_OtherErrorsAbortImmediately(t *testing.T) {
	dbDown := errors.New("connection refused")
	repo := new(MockCompanyRepository)
	repo.On("UpdateInvitationCode", mock.Anything, "co-1", mock.Anything).Return(dbDown)

	issuer := NewInvitationCodeIssuer(repo, &passthroughTransactor{})

	_, err := issuer.Issue(context.Background(), "co-1")

	assert.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, company.ErrInvitationCodeExhausted)
	repo.AssertNumberOfCalls(t, "UpdateInvitationCode", 1)
}
