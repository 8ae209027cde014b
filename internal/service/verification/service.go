package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/genai"
)

const (
	portraitPrompt = `Analyze this image for use as a professional profile picture.
Check for two conditions:
1. Does the image contain one, and only one, clear human face?
2. Is the image a professional headshot? (not a group photo, cartoon, object, or inappropriate content)

Return a JSON object with two keys: "isValid" (boolean) and "reason" (a brief explanation, max 10 words).
If it is valid, the reason must be "Photo is valid.".
If invalid, explain why (e.g. "No face detected.", "Multiple faces detected.", "Image is not a person.", "Image is not professional.").`

	matchPrompt = `Act as a security system. Compare the person in the live camera frame to the person in the user's profile photo.
Are they the same person?
The live frame might have different lighting or angles. Be reasonably certain before confirming.
Respond with only the word 'Yes' or 'No'.`

	detectPrompt = `Is there one single, clear human face visible in this image? Answer with only the word 'Yes' or 'No'.`

	validPortraitReason = "Photo is valid."
)

var errMalformedAnswer = errors.New("malformed model answer")

var portraitSchema = &genai.Schema{
	Properties: map[string]genai.FieldType{
		"isValid": genai.FieldBoolean,
		"reason":  genai.FieldString,
	},
	Required: []string{"isValid", "reason"},
}

type VerificationServiceImpl struct {
	model   genai.Model
	timeout time.Duration
}

func NewVerificationService(model genai.Model, timeout time.Duration) *VerificationServiceImpl {
	return &VerificationServiceImpl{model: model, timeout: timeout}
}

// ValidatePortrait implements verification.Verifier.
func (s *VerificationServiceImpl) ValidatePortrait(ctx context.Context, img verification.Image) (verification.PortraitResult, error) {
	if len(img.Data) == 0 {
		return verification.PortraitResult{}, verification.ErrImageRequired
	}

	answer, err := s.generate(ctx, "validate_portrait", genai.Request{
		Parts:  []genai.Part{genai.Blob(img.Data, img.MIMEType), genai.Text(portraitPrompt)},
		Schema: portraitSchema,
	})
	if err != nil {
		return verification.PortraitResult{}, err
	}

	result, err := parsePortrait(answer)
	if err != nil {
		slog.Error("Portrait verification returned unusable output", "error", err)
		return verification.PortraitResult{}, verification.ErrVerificationUnavailable
	}
	return result, nil
}

// MatchFaces implements verification.Verifier.
func (s *VerificationServiceImpl) MatchFaces(ctx context.Context, live, reference verification.Image) (bool, error) {
	if len(live.Data) == 0 || len(reference.Data) == 0 {
		return false, verification.ErrImageRequired
	}

	answer, err := s.generate(ctx, "match_faces", genai.Request{
		Parts: []genai.Part{
			genai.Text("This is the live camera frame:"),
			genai.Blob(live.Data, live.MIMEType),
			genai.Text("This is the user's profile photo:"),
			genai.Blob(reference.Data, reference.MIMEType),
			genai.Text(matchPrompt),
		},
	})
	if err != nil {
		return false, err
	}
	return s.yesNo("match_faces", answer)
}

// DetectFace implements verification.Verifier.
func (s *VerificationServiceImpl) DetectFace(ctx context.Context, img verification.Image) (bool, error) {
	if len(img.Data) == 0 {
		return false, verification.ErrImageRequired
	}

	answer, err := s.generate(ctx, "detect_face", genai.Request{
		Parts: []genai.Part{genai.Blob(img.Data, img.MIMEType), genai.Text(detectPrompt)},
	})
	if err != nil {
		return false, err
	}
	return s.yesNo("detect_face", answer)
}

// generate bounds the call by the configured timeout and collapses every
// failure into ErrVerificationUnavailable.
func (s *VerificationServiceImpl) generate(ctx context.Context, op string, req genai.Request) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.model.Generate(ctx, req)
	if err != nil {
		slog.Error("Verification call failed", "operation", op, "error", err)
		return "", verification.ErrVerificationUnavailable
	}
	return answer, nil
}

func (s *VerificationServiceImpl) yesNo(op, answer string) (bool, error) {
	ok, err := parseYesNo(answer)
	if err != nil {
		slog.Error("Verification returned unusable output", "operation", op, "answer", answer)
		return false, verification.ErrVerificationUnavailable
	}
	return ok, nil
}

// parseYesNo reads the leading word of a free-text answer.
func parseYesNo(answer string) (bool, error) {
	word := strings.ToLower(strings.TrimSpace(answer))
	if i := strings.IndexFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }); i >= 0 {
		word = word[:i]
	}
	switch word {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", errMalformedAnswer, answer)
	}
}

func parsePortrait(answer string) (verification.PortraitResult, error) {
	var raw struct {
		IsValid *bool  `json:"isValid"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(answer)), &raw); err != nil {
		return verification.PortraitResult{}, fmt.Errorf("%w: %v", errMalformedAnswer, err)
	}
	if raw.IsValid == nil {
		return verification.PortraitResult{}, fmt.Errorf("%w: missing isValid", errMalformedAnswer)
	}

	result := verification.PortraitResult{IsValid: *raw.IsValid, Reason: strings.TrimSpace(raw.Reason)}
	switch {
	case result.IsValid:
		result.Reason = validPortraitReason
	case result.Reason == "":
		result.Reason = "Photo is not suitable."
	}
	return result, nil
}

// stripCodeFence removes a markdown ```json fence some models wrap around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
