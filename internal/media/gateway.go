package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fixed output transforms applied to every upload. The CDN transcodes the
// original to webp with automatic quality and eagerly generates a gallery
// thumbnail and a full-screen derivative.
const (
	uploadFormat    = "webp"
	uploadQuality   = "auto:good"
	eagerTransforms = "c_fill,h_400,w_400|c_fit,h_1200,w_1200"

	searchMaxResults = 500
	requestTimeout   = 60 * time.Second
)

var (
	errMissingCloudName = errors.New("media: cloud name is required")
	errMissingAPIKey    = errors.New("media: api key is required")
	errMissingAPISecret = errors.New("media: api secret is required")
	errMissingFolder    = errors.New("media: folder scope is required")
	errEmptyFile        = errors.New("media: file content is empty")

	// ErrUploadRejected indicates the CDN refused or failed an upload.
	ErrUploadRejected = errors.New("media: upload rejected")
	// ErrSearchFailed indicates the CDN listing query failed.
	ErrSearchFailed = errors.New("media: search failed")
)

// GatewayConfig supplies the CDN endpoint and credential triple.
type GatewayConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Gateway is a stateless adapter to the image CDN. Uploads declare their
// output transforms up front; listings are scoped to the configured folder.
type Gateway struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	logger    *zap.Logger
	clock     func() time.Time
}

// NewGateway constructs a Gateway from the provided configuration.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if strings.TrimSpace(cfg.CloudName) == "" {
		return nil, errMissingCloudName
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errMissingAPIKey
	}
	if strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errMissingAPISecret
	}
	if strings.TrimSpace(cfg.Folder) == "" {
		return nil, errMissingFolder
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(requestTimeout)

	return &Gateway{
		client:    client,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.Folder,
		logger:    logger,
		clock:     clock,
	}, nil
}

// Upload streams one file to the CDN with the declared output transforms and
// returns the CDN's acknowledgment. Eager derivatives are generated
// asynchronously after the response.
func (g *Gateway) Upload(ctx context.Context, file File) (UploadResult, error) {
	if len(file.Content) == 0 {
		return UploadResult{}, fmt.Errorf("%w: %s", errEmptyFile, file.Name)
	}

	timestamp := strconv.FormatInt(g.clock().Unix(), 10)
	params := map[string]string{
		"folder":      g.folder,
		"format":      uploadFormat,
		"quality":     uploadQuality,
		"eager":       eagerTransforms,
		"eager_async": "true",
		"timestamp":   timestamp,
	}
	signature := signParams(params, g.apiSecret)

	form := make(map[string]string, len(params)+2)
	for key, value := range params {
		form[key] = value
	}
	form["api_key"] = g.apiKey
	form["signature"] = signature

	resp, err := g.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, bytes.NewReader(file.Content)).
		SetFormData(form).
		Post(fmt.Sprintf("/v1_1/%s/image/upload", g.cloudName))
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}
	if resp.IsError() {
		g.logger.Warn("cdn upload rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("file", file.Name))
		return UploadResult{}, fmt.Errorf("%w: status %d: %s", ErrUploadRejected, resp.StatusCode(), apiErrorMessage(resp.Body()))
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return UploadResult{}, fmt.Errorf("%w: decoding response: %v", ErrUploadRejected, err)
	}
	return result, nil
}

type searchRequest struct {
	Expression string   `json:"expression"`
	WithField  []string `json:"with_field,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// Search returns the full asset listing under the gateway's folder scope,
// bounded to 500 results, with each asset's context metadata attached.
func (g *Gateway) Search(ctx context.Context) (SearchResult, error) {
	body := searchRequest{
		Expression: fmt.Sprintf("folder:%s", g.folder),
		WithField:  []string{"context"},
		MaxResults: searchMaxResults,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(g.apiKey, g.apiSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(&body).
		Post(fmt.Sprintf("/v1_1/%s/resources/search", g.cloudName))
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if resp.IsError() {
		g.logger.Warn("cdn search rejected", zap.Int("status", resp.StatusCode()))
		return SearchResult{}, fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode(), apiErrorMessage(resp.Body()))
	}

	var result SearchResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return SearchResult{}, fmt.Errorf("%w: decoding response: %v", ErrSearchFailed, err)
	}
	return result, nil
}

// signParams produces the request signature: the sorted key=value pairs
// joined with ampersands, concatenated with the secret, hashed with SHA-1.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(digest[:])
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func apiErrorMessage(body []byte) string {
	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
