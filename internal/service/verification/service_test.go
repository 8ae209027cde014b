package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Generate(ctx context.Context, req genai.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// slowModel blocks until the context is done.
type slowModel struct{}

func (slowModel) Generate(ctx context.Context, _ genai.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

var (
	live      = verification.Image{Data: []byte("live"), MIMEType: "image/jpeg"}
	reference = verification.Image{Data: []byte("ref"), MIMEType: "image/jpeg"}
)

func TestValidatePortrait(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		callErr error
		want    verification.PortraitResult
		wantErr error
	}{
		{name: "valid", answer: `{"isValid": true, "reason": "Looks great"}`, want: verification.PortraitResult{IsValid: true, Reason: "Photo is valid."}},
		{name: "rejected", answer: `{"isValid": false, "reason": "Multiple faces detected."}`, want: verification.PortraitResult{IsValid: false, Reason: "Multiple faces detected."}},
		{name: "fenced json", answer: "```json\n{\"isValid\": false, \"reason\": \"No face detected.\"}\n```", want: verification.PortraitResult{Reason: "No face detected."}},
		{name: "missing verdict", answer: `{"reason": "hmm"}`, wantErr: verification.ErrVerificationUnavailable},
		{name: "not json", answer: "Sure! The photo is valid.", wantErr: verification.ErrVerificationUnavailable},
		{name: "transport failure", callErr: errors.New("connection reset"), wantErr: verification.ErrVerificationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(MockModel)
			model.On("Generate", mock.Anything, mock.MatchedBy(func(req genai.Request) bool {
				return req.Schema != nil && len(req.Parts) == 2
			})).Return(tt.answer, tt.callErr)

			svc := NewVerificationService(model, time.Second)
			got, err := svc.ValidatePortrait(context.Background(), reference)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			model.AssertExpectations(t)
		})
	}
}

func TestMatchFaces(t *testing.T) {
	tests := []struct {
		answer  string
		want    bool
		wantErr bool
	}{
		{answer: "Yes", want: true},
		{answer: " yes.\n", want: true},
		{answer: "No", want: false},
		{answer: "NO, different person", want: false},
		{answer: "I cannot tell", wantErr: true},
		{answer: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			model := new(MockModel)
			model.On("Generate", mock.Anything, mock.MatchedBy(func(req genai.Request) bool {
				return len(req.Parts) == 5 && string(req.Parts[1].Data) == "live" && string(req.Parts[3].Data) == "ref"
			})).Return(tt.answer, nil)

			svc := NewVerificationService(model, time.Second)
			got, err := svc.MatchFaces(context.Background(), live, reference)

			if tt.wantErr {
				assert.ErrorIs(t, err, verification.ErrVerificationUnavailable)
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchFaces_TimeoutIsUnavailable(t *testing.T) {
	svc := NewVerificationService(slowModel{}, 10*time.Millisecond)

	matched, err := svc.MatchFaces(context.Background(), live, reference)

	assert.False(t, matched)
	assert.ErrorIs(t, err, verification.ErrVerificationUnavailable)
}

func TestMatchFaces_RequiresBothImages(t *testing.T) {
	svc := NewVerificationService(new(MockModel), time.Second)

	_, err := svc.MatchFaces(context.Background(), live, verification.Image{})
	assert.ErrorIs(t, err, verification.ErrImageRequired)
}

func TestDetectFace(t *testing.T) {
	model := new(MockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return("Yes", nil).Once()
	model.On("Generate", mock.Anything, mock.Anything).Return("", genai.ErrEmptyResponse).Once()

	svc := NewVerificationService(model, time.Second)

	found, err := svc.DetectFace(context.Background(), live)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = svc.DetectFace(context.Background(), live)
	assert.ErrorIs(t, err, verification.ErrVerificationUnavailable)
}

func TestRequireValidPortrait_Rejected(t *testing.T) {
	model := new(MockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return(`{"isValid": false, "reason": "Image is not a person."}`, nil)

	err := verification.RequireValidPortrait(context.Background(), NewVerificationService(model, time.Second), reference)

	var rejected *verification.PortraitRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Image is not a person.", rejected.Reason)
}
