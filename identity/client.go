package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kota-backend/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("identity service unavailable")
)

// Client verifies credentials against the external identity endpoint. Raw
// credentials are never stored; only the returned token and profile survive
// the call. When the upstream is unreachable a single locally seeded demo
// user can still sign in, so the storefront stays usable offline.
type Client struct {
	baseURL     string
	http        *http.Client
	demoUser    string
	demoHash    []byte
	demoProfile models.Profile
}

// NewClient seeds the offline fallback user from DEMO_USER / DEMO_PASSWORD,
// defaulting to the public demo account.
func NewClient(baseURL, demoUser, demoPassword string) *Client {
	if demoUser == "" {
		demoUser = "johnd"
	}
	if demoPassword == "" {
		demoPassword = "m38rmF$"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("identity: failed to hash demo password, offline login disabled: %v", err)
		hash = nil
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		demoUser: demoUser,
		demoHash: hash,
		demoProfile: models.Profile{
			ID:       1,
			Username: demoUser,
			Name:     "John Doe",
			Email:    "john@example.com",
		},
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges credentials for an upstream token and a profile.
// A rejected login is ErrInvalidCredentials; an unreachable or failing
// upstream with no matching fallback user is ErrUnavailable.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, models.Profile, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", models.Profile{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", models.Profile{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("identity: upstream unreachable, trying offline fallback: %v", err)
		return c.fallback(username, password)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Token == "" {
			return "", models.Profile{}, fmt.Errorf("%w: malformed login response", ErrUnavailable)
		}
		return body.Token, c.lookupProfile(ctx, username), nil
	case resp.StatusCode >= 500:
		log.Printf("identity: upstream returned %d, trying offline fallback", resp.StatusCode)
		return c.fallback(username, password)
	default:
		// 4xx from the identity endpoint means the credentials were rejected.
		return "", models.Profile{}, ErrInvalidCredentials
	}
}

func (c *Client) fallback(username, password string) (string, models.Profile, error) {
	if c.demoHash == nil || username != c.demoUser {
		return "", models.Profile{}, ErrUnavailable
	}
	if bcrypt.CompareHashAndPassword(c.demoHash, []byte(password)) != nil {
		return "", models.Profile{}, ErrInvalidCredentials
	}
	return "offline-" + uuid.NewString(), c.demoProfile, nil
}

type upstreamUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
	} `json:"name"`
}

// lookupProfile enriches the session with the upstream user record. The login
// endpoint only returns a token, so the profile comes from the user listing;
// if that degrades, a username-only profile stands in.
func (c *Client) lookupProfile(ctx context.Context, username string) models.Profile {
	degraded := models.Profile{Username: username, Name: username}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return degraded
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("identity: profile lookup failed: %v", err)
		return degraded
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return degraded
	}

	var users []upstreamUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		log.Printf("identity: malformed user listing: %v", err)
		return degraded
	}

	for _, u := range users {
		if u.Username == username {
			name := strings.TrimSpace(u.Name.Firstname + " " + u.Name.Lastname)
			if name == "" {
				name = username
			}
			return models.Profile{ID: u.ID, Username: u.Username, Name: name, Email: u.Email}
		}
	}
	return degraded
}
