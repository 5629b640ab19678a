package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const (
	imageRecipe      = "urn:li:digitalmediaRecipe:feedshare-image"
	VisibilityPublic = "PUBLIC"

	// Accessibility description used when a post carries no title.
	defaultImageDescription = "Shared image"
)

type LinkedinService interface {
	AuthURL(state string) string
	Callback(ctx context.Context, code string, userID int64) error
	RegisterUpload(ctx context.Context, accessToken, authorURN string) (*transfer.RegisterUploadValue, error)
	UploadAsset(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) error
	Publish(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error)
}

type linkedinService struct {
	cfg    config.Config
	u      repository.UserRepository
	client *http.Client
}

func NewLinkedinService(cfg config.Config, u repository.UserRepository) LinkedinService {
	return &linkedinService{
		cfg:    cfg,
		u:      u,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *linkedinService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedinClientID,
		ClientSecret: s.cfg.LinkedinClientSec,
		RedirectURL:  s.cfg.LinkedinRedirect,
		Scopes:       []string{"openid", "profile", "email", "w_member_social"},
		Endpoint:     linkedin.Endpoint,
	}
}

func (s *linkedinService) AuthURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state)
}

// Callback exchanges the authorization code and stores the encrypted access
// token plus person id on the user row.
func (s *linkedinService) Callback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	profile, err := s.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	encryptedToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.u.SetLinkedinCredential(ctx, userID, profile.Sub, encryptedToken, token.Expiry)
}

func (s *linkedinService) fetchProfile(ctx context.Context, accessToken string) (*transfer.LinkedinProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.cfg.LinkedinAPIBase+"/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("linkedin profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, platformFailure(resp)
	}

	var profile transfer.LinkedinProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &profile, nil
}

// RegisterUpload asks the platform for an asset id and a one-time upload URL.
func (s *linkedinService) RegisterUpload(ctx context.Context, accessToken, authorURN string) (*transfer.RegisterUploadValue, error) {
	payload := transfer.RegisterUploadRequest{
		RegisterUploadRequest: transfer.RegisterUpload{
			Recipes: []string{imageRecipe},
			Owner:   authorURN,
			ServiceRelationships: []transfer.ServiceRelationship{
				{
					RelationshipType: "OWNER",
					Identifier:       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := s.cfg.LinkedinAPIBase + "/v2/assets?action=registerUpload"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("register upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, platformFailure(resp)
	}

	var result transfer.RegisterUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode register upload response: %w", err)
	}

	if result.Value.Asset == "" || result.Value.UploadMechanism.MediaUploadHTTPRequest.UploadURL == "" {
		return nil, errors.New("register upload response is missing asset or upload URL")
	}

	return &result.Value, nil
}

// UploadAsset PUTs the raw bytes to the upload URL from RegisterUpload,
// preserving the item's original content type.
func (s *linkedinService) UploadAsset(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("asset upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return platformFailure(resp)
	}

	return nil
}

// Publish creates the ugcPost and returns the external post id. The call is
// not retried here; retry policy belongs to the caller.
func (s *linkedinService) Publish(ctx context.Context, accessToken, authorURN, title, body string, assets []string, visibility string) (string, error) {
	if visibility == "" {
		visibility = VisibilityPublic
	}

	content := transfer.ShareContent{
		ShareCommentary:    transfer.TextValue{Text: body},
		ShareMediaCategory: "NONE",
	}

	if len(assets) > 0 {
		content.ShareMediaCategory = "IMAGE"
		description := title
		if description == "" {
			description = defaultImageDescription
		}
		for _, asset := range assets {
			content.Media = append(content.Media, transfer.ShareMedia{
				Status:      "READY",
				Description: transfer.TextValue{Text: description},
				Media:       asset,
				Title:       transfer.TextValue{Text: description},
			})
		}
	}

	post := transfer.UGCPost{
		Author:          authorURN,
		LifecycleState:  "PUBLISHED",
		SpecificContent: transfer.SpecificContent{ShareContent: content},
		Visibility:      transfer.Visibility{MemberNetworkVisibility: visibility},
	}

	payload, err := json.Marshal(post)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.LinkedinAPIBase+"/v2/ugcPosts", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("publish request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", platformFailure(resp)
	}

	var result transfer.UGCPostResponse
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("failed to parse publish response: %w", err)
	}

	externalID := result.ID
	if externalID == "" {
		externalID = resp.Header.Get("X-RestLi-Id")
	}
	if externalID == "" {
		return "", errors.New("no post id returned from platform")
	}

	return externalID, nil
}

// platformFailure maps a non-2xx response to the error taxonomy: expired or
// rejected credentials become ErrAuthExpired, everything else echoes the
// status and body.
func platformFailure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		slog.Info("platform auth failure", "status", resp.StatusCode, "body", string(body))
		return ErrAuthExpired
	}
	return &PlatformError{StatusCode: resp.StatusCode, Body: string(body)}
}
