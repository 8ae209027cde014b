package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
)

// maxFormMemory bounds the in-memory part of multipart parsing; larger parts spill to disk.
const maxFormMemory = 10 << 20

var errMissingData = errors.New("field 'data' is required")

// session writes 401 and returns false when the request carries no session.
func session(w http.ResponseWriter, r *http.Request) (user.Session, bool) {
	s, err := middleware.Session(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Session{}, false
	}
	return s, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Error("Failed to decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false
	}
	return true
}

// decodeFormData unmarshals the JSON carried in the multipart 'data' field.
func decodeFormData(r *http.Request, v interface{}, required bool) error {
	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		if required {
			return errMissingData
		}
		return nil
	}
	if err := json.Unmarshal([]byte(dataJSON), v); err != nil {
		return fmt.Errorf("invalid request format: %w", err)
	}
	return nil
}

// formImage reads an uploaded JPEG or PNG. A missing field yields nil, nil.
func formImage(r *http.Request, field string) (*verification.Image, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return readImage(f, header.Size)
}

func readImage(f io.Reader, size int64) (*verification.Image, error) {
	if size > file.MaxUploadBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", file.ErrUnsupportedImage, file.MaxUploadBytes)
	}
	data, err := io.ReadAll(io.LimitReader(f, file.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > file.MaxUploadBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", file.ErrUnsupportedImage, file.MaxUploadBytes)
	}

	mimeType, err := file.DetectImageType(data)
	if err != nil {
		return nil, err
	}
	return &verification.Image{Data: data, MIMEType: mimeType}, nil
}

// multipartCapture serves the uploaded camera frame as a capture source.
// A nil header means the device sent no frame.
type multipartCapture struct {
	header *multipart.FileHeader
}

func (c multipartCapture) Acquire(_ context.Context) (attendance.Capture, error) {
	if c.header == nil {
		return nil, attendance.ErrCameraUnavailable
	}
	f, err := c.header.Open()
	if err != nil {
		return nil, err
	}
	return &uploadedFrame{file: f, size: c.header.Size}, nil
}

type uploadedFrame struct {
	file multipart.File
	size int64
}

func (u *uploadedFrame) Frame(_ context.Context) (verification.Image, error) {
	img, err := readImage(u.file, u.size)
	if err != nil {
		return verification.Image{}, err
	}
	return *img, nil
}

func (u *uploadedFrame) Close() error {
	return u.file.Close()
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}
