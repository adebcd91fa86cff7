package config

import (
	"strings"
	"time"
)

// DriveConfig contains the object storage provider configuration.
// Tokens are minted from a long-lived refresh token with the OAuth2 client credentials below.
type DriveConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RefreshToken string   `env:"REFRESH_TOKEN"`
	TokenURL     string   `env:"TOKEN_URL"      envDefault:"https://oauth2.googleapis.com/token"`
	Scopes       []string `env:"SCOPES"         envDefault:"https://www.googleapis.com/auth/drive.file,openid,email"`

	// IssuerURL enables OIDC discovery so freshly minted tokens can be checked
	// against the userinfo endpoint before they are cached.
	IssuerURL   string `env:"ISSUER_URL"   envDefault:"https://accounts.google.com"`
	VerifyToken bool   `env:"VERIFY_TOKEN" envDefault:"false"`

	// APIBaseURL is the Drive v3 endpoint. Uploads use /upload/drive/v3 on the same host.
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"https://www.googleapis.com/drive/v3"`
	FolderName string        `env:"FOLDER_NAME"  envDefault:"DreamsDoc"`
	Timeout    time.Duration `env:"TIMEOUT"      envDefault:"60s"`

	// TokenTTL bounds how long a cached token is reused when the provider omits an expiry.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"50m"`
}

// Sanitize trims URLs and clamps durations.
func (d *DriveConfig) Sanitize() {
	d.APIBaseURL = strings.TrimRight(strings.TrimSpace(d.APIBaseURL), "/")
	d.FolderName = strings.TrimSpace(d.FolderName)
	if d.FolderName == "" {
		d.FolderName = "DreamsDoc"
	}
	if d.Timeout <= 0 {
		d.Timeout = 60 * time.Second
	}
	if d.TokenTTL <= 0 {
		d.TokenTTL = 50 * time.Minute
	}
	if strings.TrimSpace(d.IssuerURL) == "" {
		d.VerifyToken = false
	}
}

// Configured reports whether uploads can be authenticated at all.
func (d *DriveConfig) Configured() bool {
	return d.ClientID != "" && d.RefreshToken != ""
}
