package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MediaService is the single asset pipeline used by both the draft path
// (multipart uploads stored to R2) and the publish path (two-phase platform
// upload of every image a post references).
type MediaService interface {
	Prepare(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure)
	SaveUploads(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]string, error)
}

type mediaService struct {
	li     LinkedinService
	r2     R2Service
	client *http.Client
}

func NewMediaService(li LinkedinService, r2 R2Service) MediaService {
	return &mediaService{
		li:     li,
		r2:     r2,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Prepare runs every item through the register/upload protocol and returns
// the asset handles in input order, skipping failed items. One item's failure
// never aborts the others.
func (s *mediaService) Prepare(ctx context.Context, accessToken, authorURN string, items []transfer.MediaItem) ([]string, []transfer.MediaFailure) {
	var assets []string
	var failures []transfer.MediaFailure

	for i, item := range items {
		asset, err := s.prepareOne(ctx, accessToken, authorURN, &item)
		if err != nil {
			slog.Info("media item skipped", "ref", item.Ref(), "error", err.Error())
			failures = append(failures, transfer.MediaFailure{
				Index: i,
				Ref:   item.Ref(),
				Error: err.Error(),
			})
			continue
		}
		assets = append(assets, asset)
	}

	return assets, failures
}

func (s *mediaService) prepareOne(ctx context.Context, accessToken, authorURN string, item *transfer.MediaItem) (string, error) {
	data := item.Bytes
	contentType := item.ContentType

	if len(data) == 0 {
		if item.URL == "" {
			return "", errors.New("media item has neither bytes nor URL")
		}
		var err error
		data, contentType, err = s.fetch(ctx, item.URL)
		if err != nil {
			return "", err
		}
	}

	registered, err := s.li.RegisterUpload(ctx, accessToken, authorURN)
	if err != nil {
		return "", err
	}

	uploadURL := registered.UploadMechanism.MediaUploadHTTPRequest.UploadURL
	if err := s.li.UploadAsset(ctx, accessToken, uploadURL, contentType, data); err != nil {
		return "", err
	}

	return registered.Asset, nil
}

func (s *mediaService) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("error fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("error reading image body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// SaveUploads validates uploaded files and stores them to R2, returning the
// hosted URLs in upload order.
func (s *mediaService) SaveUploads(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]string, error) {
	allowedTypes := map[string]struct{}{
		"jpeg": {}, "jpg": {}, "png": {}, "gif": {}, "webp": {},
	}

	var urls []string
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil {
			return nil, fmt.Errorf("error detecting file type: %w", err)
		}
		if fileType == types.Unknown {
			return nil, errors.New("unsupported file type")
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		id, err := gonanoid.New()
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		key := fmt.Sprintf("%d/%s", userID, id)

		url, err := s.r2.UploadToR2(ctx, key, fileBytes, fileType.MIME.Value)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}

		urls = append(urls, url)
	}

	return urls, nil
}

// RemoteItems wraps plain URLs as pipeline inputs.
func RemoteItems(urls []string) []transfer.MediaItem {
	items := make([]transfer.MediaItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, transfer.MediaItem{URL: u})
	}
	return items
}
