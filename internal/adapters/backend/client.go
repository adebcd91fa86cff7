package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

const maxResponseBytes = 8 << 20

// ClientOptions groups dependencies for NewClient.
type ClientOptions struct {
	BaseURL string
	// HTTPClient must route through a Gateway.
	HTTPClient *http.Client
	Normalizer *feed.Normalizer
	Roles      ports.RoleMapper
	Logger     *slog.Logger
}

// Client is the typed DreamsDoc API client.
type Client struct {
	base   *url.URL
	http   *http.Client
	norm   *feed.Normalizer
	roles  ports.RoleMapper
	logger *slog.Logger
}

var (
	_ ports.IdentityAPI = (*Client)(nil)
	_ ports.DreamAPI    = (*Client)(nil)
	_ ports.UserAPI     = (*Client)(nil)
)

// NewClient constructs a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("role mapper is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", opts.BaseURL)
	}
	norm := opts.Normalizer
	if norm == nil {
		norm = feed.MustNormalizer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:   base,
		http:   opts.HTTPClient,
		norm:   norm,
		roles:  opts.Roles,
		logger: logger.With("component", "backend"),
	}, nil
}

// Me resolves the identity of the stored credential.
func (c *Client) Me(ctx context.Context) (domainauth.Identity, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domainauth.Identity{}, apperrors.Upstream(errors.New("empty body"), "identity response was empty")
	}
	var u wireUser
	if err := json.Unmarshal(body, &u); err != nil {
		return domainauth.Identity{}, apperrors.Upstream(err, "identity response was malformed")
	}
	if u.id() == "" {
		return domainauth.Identity{}, apperrors.Upstream(errors.New("missing userId"), "identity response was malformed")
	}
	return u.identity(c.roles.Map(append([]string{u.Role}, u.Roles...)...)), nil
}

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	body, err := c.do(WithoutCredential(ctx), http.MethodPost, "/auth/login", nil, payload)
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.Upstream(err, "sign-in response was malformed")
	}
	if resp.Token == "" {
		return "", apperrors.Upstream(errors.New("missing token"), "sign-in response carried no token")
	}
	return resp.Token, nil
}

// Register creates an account. The secret key only travels for admin sign-ups.
func (c *Client) Register(ctx context.Context, in domainauth.SignUpInput) error {
	payload := registerRequest{
		FirstName: in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		IsActive:  true,
		Role:      in.Role,
	}
	if in.Role == "ROLE_ADMIN" {
		payload.SecretKey = in.Key
	}
	_, err := c.do(WithoutCredential(ctx), http.MethodPost, "/auth/register", nil, payload)
	return err
}

// ListDreams returns one page of the global feed.
func (c *Client) ListDreams(ctx context.Context, page ports.PageParams) ([]feed.PostRecord, error) {
	return c.records(ctx, "/dreams", pageQuery(page))
}

// ListUserDreams returns one page of a user's posts.
func (c *Client) ListUserDreams(ctx context.Context, userID string, page ports.PageParams) ([]feed.PostRecord, error) {
	return c.records(ctx, "/dreams/user/"+url.PathEscape(userID), pageQuery(page))
}

// GetDream returns the single post as a one-element sequence.
func (c *Client) GetDream(ctx context.Context, id string) ([]feed.PostRecord, error) {
	return c.records(ctx, "/dreams/"+url.PathEscape(id), nil)
}

// SearchDreams runs a text search.
func (c *Client) SearchDreams(ctx context.Context, query string) ([]feed.PostRecord, error) {
	return c.records(ctx, "/dreams/search", url.Values{"q": {query}})
}

// ListHashtag returns posts carrying tag.
func (c *Client) ListHashtag(ctx context.Context, tag string) ([]feed.PostRecord, error) {
	return c.records(ctx, "/dreams/tag/"+url.PathEscape(tag), nil)
}

// CreateDream submits a new post.
func (c *Client) CreateDream(ctx context.Context, in feed.CreatePost) error {
	_, err := c.do(ctx, http.MethodPost, "/dreams", nil, in)
	return err
}

// DeleteDream removes a post by id.
func (c *Client) DeleteDream(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/dreams/"+url.PathEscape(id), nil, nil)
	return err
}

// GetUser resolves an author reference to display fields.
func (c *Client) GetUser(ctx context.Context, ref string) (feed.Author, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(ref), nil, nil)
	if err != nil {
		return feed.Author{}, err
	}
	a, err := c.norm.AuthorFromJSON(body)
	if err != nil {
		return feed.Author{}, apperrors.Upstream(err, "user response was malformed")
	}
	if a.UserID == "" {
		a.UserID = ref
	}
	return a, nil
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, page ports.PageParams) ([]user.Summary, error) {
	body, err := c.do(ctx, http.MethodGet, "/users", pageQuery(page), nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeUsers(body)
	if err != nil {
		return nil, apperrors.Upstream(err, "user list was malformed")
	}
	out := make([]user.Summary, 0, len(list))
	for _, u := range list {
		out = append(out, u.summary())
	}
	return out, nil
}

// Following returns the users userID follows.
func (c *Client) Following(ctx context.Context, userID string) ([]user.Summary, error) {
	body, err := c.do(ctx, http.MethodGet, "/follows/following/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	var edges []followEdge
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &edges); err != nil {
			return nil, apperrors.Upstream(err, "following list was malformed")
		}
	}
	out := make([]user.Summary, 0, len(edges))
	for _, e := range edges {
		switch {
		case e.Followed != nil:
			out = append(out, e.Followed.summary())
		case e.Following != nil:
			out = append(out, e.Following.summary())
		}
	}
	return out, nil
}

// Activate toggles a user's activation.
func (c *Client) Activate(ctx context.Context, username string) error {
	_, err := c.do(ctx, http.MethodPut, "/users/activate/"+url.PathEscape(username), nil, nil)
	return err
}

func (c *Client) records(ctx context.Context, path string, q url.Values) ([]feed.PostRecord, error) {
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []feed.PostRecord{}, nil
	}
	recs, skipped, err := c.norm.Decode(body)
	if err != nil {
		return nil, apperrors.Upstream(err, "post list was malformed")
	}
	for _, sk := range skipped {
		c.logger.WarnContext(ctx, "skipping malformed post", "path", path, "index", sk.Index, "error", sk.Err)
	}
	return recs, nil
}

// do sends one request and returns the body of a 2xx response. Non-2xx
// statuses become AppErrors.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload any) ([]byte, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			"method", method, "path", path, "error", err)
		return nil, apperrors.MapTransportError(err, apperrors.ErrCodeUpstream, "Backend is unreachable.")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.MapTransportError(err, apperrors.ErrCodeUpstream, "Backend response was interrupted.")
	}

	if appErr := apperrors.FromStatus(resp.StatusCode, errorMessage(body)); appErr != nil {
		c.logger.DebugContext(ctx, "backend returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, appErr
	}
	return body, nil
}

func pageQuery(p ports.PageParams) url.Values {
	q := url.Values{}
	if p.Size > 0 {
		q.Set("page", strconv.Itoa(max(p.Page, 0)))
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	return q
}
