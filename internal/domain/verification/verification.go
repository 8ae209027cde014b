package verification

import (
	"context"
	"errors"
	"fmt"
)

// Image is an encoded picture as uploaded or captured.
type Image struct {
	Data     []byte
	MIMEType string
}

type PortraitResult struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason"`
}

// Verifier answers questions about faces in images using a remote model.
// Every method returns ErrVerificationUnavailable when no trustworthy answer
// could be obtained; a failed call is never reported as a pass.
type Verifier interface {
	// ValidatePortrait checks for exactly one clear human face in a professional headshot.
	ValidatePortrait(ctx context.Context, img Image) (PortraitResult, error)
	// MatchFaces reports whether live and reference show the same person.
	MatchFaces(ctx context.Context, live, reference Image) (bool, error)
	// DetectFace reports whether a single clear face is visible.
	DetectFace(ctx context.Context, img Image) (bool, error)
}

var (
	ErrVerificationUnavailable = errors.New("could not verify, please try again")
	ErrImageRequired           = errors.New("image is required")
	ErrPortraitRejected        = errors.New("photo rejected")
)

// PortraitRejectedError carries the model's reason for refusing a profile picture.
type PortraitRejectedError struct {
	Reason string
}

func (e *PortraitRejectedError) Error() string {
	return fmt.Sprintf("photo rejected: %s", e.Reason)
}

func (e *PortraitRejectedError) Is(target error) bool {
	return target == ErrPortraitRejected
}

// RequireValidPortrait runs ValidatePortrait and turns a rejection into a *PortraitRejectedError.
func RequireValidPortrait(ctx context.Context, v Verifier, img Image) error {
	if len(img.Data) == 0 {
		return ErrImageRequired
	}
	result, err := v.ValidatePortrait(ctx, img)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return &PortraitRejectedError{Reason: result.Reason}
	}
	return nil
}
