package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Storage uploads images to Cloudinary and stores their secure URL.
type Storage struct {
	cld *cloudinary.Cloudinary
}

func New(cloudinaryURL string) (*Storage, error) {
	if strings.TrimSpace(cloudinaryURL) == "" {
		return nil, errors.New("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Storage{cld: cld}, nil
}

func (s *Storage) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     name,
		Folder:       folder,
		Overwrite:    api.Bool(false),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload image: %s", res.Error.Message)
	}
	u := res.SecureURL
	if u == "" {
		u = res.URL
	}
	return forceHTTPS(u), nil
}

func (s *Storage) Delete(ctx context.Context, stored string) error {
	id := PublicID(stored)
	if id == "" {
		return fmt.Errorf("not a cloudinary url: %q", stored)
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id, ResourceType: "image"})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("delete image: %s", res.Error.Message)
	}
	return nil
}

// PublicID extracts "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/batteries/abc.jpg.
func PublicID(deliveryURL string) string {
	parts := strings.Split(deliveryURL, "/")
	for i, p := range parts {
		if p != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && isVersion(rest[0]) {
			rest = rest[1:]
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id))
	}
	return ""
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func forceHTTPS(u string) string {
	return strings.Replace(strings.TrimSpace(u), "http://", "https://", 1)
}
