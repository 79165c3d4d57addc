package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/trihoang/studydesk/internal/config"
)

// Session holds the persistence server credentials, stored at
// ~/.studydesk/session.json
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
}

func sessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoadSession reads the stored session, falling back to the configured
// server URL when no session file exists
func LoadSession(serverURL string) *Session {
	s := &Session{ServerURL: serverURL}

	path, err := sessionPath()
	if err != nil {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(data, s)
	if s.ServerURL == "" {
		s.ServerURL = serverURL
	}
	return s
}

func (s *Session) save() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// IsLoggedIn returns true if a session token is present
func (s *Session) IsLoggedIn() bool {
	return s.Token != ""
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (s *Session) postAuth(client *http.Client, endpoint string, payload map[string]string) error {
	body, _ := json.Marshal(payload)

	resp, err := client.Post(s.ServerURL+endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s", string(respBody))
	}

	var result authResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	s.Token = result.Token
	s.UserID = result.UserID
	return s.save()
}

// Register creates an account on the persistence server and stores the session
func (s *Session) Register(client *http.Client, username, email, password string) error {
	return s.postAuth(client, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates with the persistence server and stores the session
func (s *Session) Login(client *http.Client, username, password string) error {
	return s.postAuth(client, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Logout clears the stored session
func (s *Session) Logout() error {
	s.Token = ""
	s.UserID = ""
	return s.save()
}
