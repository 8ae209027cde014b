package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type VerificationHandler interface {
	Portrait(w http.ResponseWriter, r *http.Request)
	Face(w http.ResponseWriter, r *http.Request)
}

type VerificationHandlerImpl struct {
	verifier verification.Verifier
}

func NewVerificationHandler(verifier verification.Verifier) VerificationHandler {
	return &VerificationHandlerImpl{
		verifier: verifier,
	}
}

type faceDetectionResponse struct {
	FaceDetected bool `json:"face_detected"`
}

// photo reads the required 'photo' part, writing the error response itself.
func (v *VerificationHandlerImpl) photo(w http.ResponseWriter, r *http.Request) (verification.Image, bool) {
	if _, ok := session(w, r); !ok {
		return verification.Image{}, false
	}
	if !parseMultipart(w, r) {
		return verification.Image{}, false
	}
	img, err := formImage(r, "photo")
	if err != nil {
		response.HandleError(w, err)
		return verification.Image{}, false
	}
	if img == nil {
		response.HandleError(w, verification.ErrImageRequired)
		return verification.Image{}, false
	}
	return *img, true
}

// Portrait implements VerificationHandler.
// A rejected portrait is a normal answer here, so it is returned as data.
func (v *VerificationHandlerImpl) Portrait(w http.ResponseWriter, r *http.Request) {
	img, ok := v.photo(w, r)
	if !ok {
		return
	}

	result, err := v.verifier.ValidatePortrait(r.Context(), img)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Face implements VerificationHandler.
func (v *VerificationHandlerImpl) Face(w http.ResponseWriter, r *http.Request) {
	img, ok := v.photo(w, r)
	if !ok {
		return
	}

	detected, err := v.verifier.DetectFace(r.Context(), img)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, faceDetectionResponse{FaceDetected: detected})
}
