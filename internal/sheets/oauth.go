package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	callbackAddr = "localhost:8080"
	callbackPath = "/callback"
	authTimeout  = 5 * time.Minute
)

// OAuth2Config drives the interactive flow behind `tripledger auth`.
// TokenFile, when set, is where the refresh token gets cached between runs.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
}

func (c OAuth2Config) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + callbackAddr + callbackPath,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// GetOrCreateToken returns a cached token, refreshing it when expired,
// and falls back to the interactive browser flow when no cache exists.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		if token, err := LoadToken(config.TokenFile); err == nil {
			return refreshToken(ctx, config, token)
		}
		slog.Info("No cached token, starting browser flow", "file", config.TokenFile)
	}
	return authorizeInteractive(ctx, config)
}

// authorizeInteractive runs a one-shot local callback server, sends the
// user to Google's consent page, and exchanges the returned code.
func authorizeInteractive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oc := config.oauth()

	codes := make(chan string, 1)
	fails := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			fails <- fmt.Errorf("callback carried no authorization code")
			fmt.Fprint(w, "<html><body><p>Authorization failed; return to the terminal and retry.</p></body></html>")
			return
		}
		codes <- code
		fmt.Fprint(w, "<html><body><p>Authorized. You can close this tab.</p></body></html>")
	})

	srv := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			fails <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer func() { _ = srv.Shutdown(context.WithoutCancel(ctx)) }()

	url := oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Visit this URL to authorize Google Sheets access", "url", url)

	var code string
	select {
	case code = <-codes:
	case err := <-fails:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("no authorization response within %s", authTimeout)
	}

	token, err := oc.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	persistToken(config.TokenFile, token)
	return token, nil
}

// refreshToken returns the token as-is while valid, otherwise trades the
// refresh token for a fresh one and re-caches it.
func refreshToken(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	fresh, err := config.oauth().TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	persistToken(config.TokenFile, fresh)
	return fresh, nil
}

// LoadToken reads a cached OAuth2 token.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// persistToken best-effort writes the token cache; a failed write only
// costs a re-auth next run.
func persistToken(path string, token *oauth2.Token) {
	if path == "" {
		return
	}
	if err := saveToken(path, token); err != nil {
		slog.Warn("Failed to cache token", "error", err, "file", path)
		return
	}
	slog.Info("Token cached", "file", path)
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}
