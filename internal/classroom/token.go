package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/trihoang/studydesk/internal/config"
	"golang.org/x/oauth2"
)

// The engine only consumes an already-issued bearer token; this file is the
// external collaborator that acquires and caches one via OAuth.

const (
	credentialsFile = "classroom_credentials.json"
	tokenFile       = "classroom_token.json"
	redirectPort    = "7319"

	scopeCourses    = "https://www.googleapis.com/auth/classroom.courses.readonly"
	scopeCoursework = "https://www.googleapis.com/auth/classroom.coursework.me.readonly"
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

type clientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func oauthConfig() (*oauth2.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("missing classroom credentials (%s): %w", credentialsFile, err)
	}

	var creds clientCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse classroom credentials: %w", err)
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleEndpoint,
		RedirectURL:  "http://localhost:" + redirectPort + "/callback",
		Scopes:       []string{scopeCourses, scopeCoursework},
	}, nil
}

func tokenPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFile), nil
}

func loadToken() (*oauth2.Token, error) {
	path, err := tokenPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("failed to parse cached token: %w", err)
	}
	return tok, nil
}

func saveToken(tok *oauth2.Token) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// AccessToken returns a usable bearer token for the feed, refreshing the
// cached one when it has expired. An empty string means the user has to run
// the login flow first.
func AccessToken(ctx context.Context) string {
	tok, err := loadToken()
	if err != nil {
		return ""
	}
	if tok.Valid() {
		return tok.AccessToken
	}

	cfg, err := oauthConfig()
	if err != nil {
		return ""
	}

	fresh, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		return ""
	}
	if fresh.AccessToken != tok.AccessToken {
		_ = saveToken(fresh)
	}
	return fresh.AccessToken
}

// Login runs the browser authorization flow and caches the resulting token
func Login(ctx context.Context) error {
	cfg, err := oauthConfig()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", ":"+redirectPort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", redirectPort, err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
	}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer srv.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize StudyDesk:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return saveToken(tok)
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("authorization timed out, try again")
	}
}
