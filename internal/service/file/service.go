package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"path"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/verification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes bounds every image accepted from clients.
	MaxUploadBytes = 10 << 20
	// avatarMaxSide is the longest edge kept for stored avatars.
	avatarMaxSide = 512
	avatarQuality = 85
)

var ErrUnsupportedImage = errors.New("unsupported image: only JPEG and PNG are allowed")

type FileService interface {
	// StoreAvatar normalises img to a JPEG of at most 512px and returns its storage key.
	StoreAvatar(ctx context.Context, employeeID string, img verification.Image) (string, error)
	// LoadAvatar reads a stored avatar back for face matching.
	LoadAvatar(ctx context.Context, key string) (verification.Image, error)
	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) StoreAvatar(ctx context.Context, employeeID string, img verification.Image) (string, error) {
	normalized, err := normalizeImage(img.Data, avatarMaxSide)
	if err != nil {
		return "", err
	}

	key := path.Join("avatars", employeeID, uuid.NewString()+".jpg")
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(normalized), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) LoadAvatar(ctx context.Context, key string) (verification.Image, error) {
	data, err := storage.ReadAll(ctx, s.storage, key, MaxUploadBytes)
	if err != nil {
		return verification.Image{}, fmt.Errorf("failed to load avatar: %w", err)
	}
	return verification.Image{Data: data, MIMEType: "image/jpeg"}, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) URL(key string) string {
	return s.storage.URL(key)
}

// DetectImageType sniffs the MIME type of an upload, accepting only JPEG and PNG.
func DetectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	switch format {
	case "jpeg":
		return "image/jpeg", nil
	case "png":
		return "image/png", nil
	default:
		return "", ErrUnsupportedImage
	}
}

// normalizeImage decodes data, scales it down so neither side exceeds maxSide
// and re-encodes it as JPEG.
func normalizeImage(data []byte, maxSide int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxSide || h > maxSide {
		if w >= h {
			h = h * maxSide / w
			w = maxSide
		} else {
			w = w * maxSide / h
			h = maxSide
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		src = resizeImage(src, w, h)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, src, &jpeg.Options{Quality: avatarQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
