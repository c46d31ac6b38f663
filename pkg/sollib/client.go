package sollib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production SolAPI endpoint.
const DefaultBaseURL = "https://aplikace.skolaonline.cz/solapi/api"

// DefaultRequestTimeout bounds every remote call; exceeding it surfaces
// as AuthError or FetchError, never as a hang.
const DefaultRequestTimeout = 15 * time.Second

// clientID is the OAuth client identifier the mobile application uses.
const clientID = "test_client"

// Client talks to the SolAPI. It covers the token exchange and the two
// schedule endpoints; all calls are bounded by the underlying
// http.Client timeout.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a SolAPI client. A nil httpClient gets a default
// client with DefaultRequestTimeout; an empty baseURL means
// DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ExchangeToken trades a refresh token for a short-lived access token.
// The response may carry a rotated refresh token; callers must persist
// it before using the access token downstream.
func (c *Client) ExchangeToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"client_id":     {clientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/connect/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var tr TokenResponse
	if err := decodeBody(resp.Body, &tr); err != nil {
		return nil, &AuthError{Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &AuthError{Err: fmt.Errorf("response missing access_token")}
	}
	return &tr, nil
}

// FetchIdentity retrieves the account's person and school-year ids.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (Identity, error) {
	var ur UserResponse
	if err := c.getJSON(ctx, accessToken, "/v1/user", nil, &ur); err != nil {
		return Identity{}, &FetchError{Op: "identity fetch", Err: err}
	}
	if ur.PersonID == "" || ur.SchoolYearID == "" {
		return Identity{}, &IncompleteProfileError{
			PersonID:     ur.PersonID,
			SchoolYearID: ur.SchoolYearID,
		}
	}
	return Identity{PersonID: ur.PersonID, SchoolYearID: ur.SchoolYearID}, nil
}

// FetchTimetable retrieves the raw schedule for the inclusive
// Monday-Friday window starting at weekStart.
func (c *Client) FetchTimetable(ctx context.Context, accessToken string, id Identity, weekStart time.Time) (*TimetableDocument, error) {
	query := url.Values{
		"StudentId":    {id.PersonID},
		"SchoolYearId": {id.SchoolYearID},
		"DateFrom":     {weekStart.Format(apiQueryLayout)},
		"DateTo":       {WeekEnd(weekStart).Format(apiQueryLayout)},
	}
	var doc TimetableDocument
	if err := c.getJSON(ctx, accessToken, "/v1/timeTable", query, &doc); err != nil {
		return nil, &FetchError{Op: "timetable fetch", Err: err}
	}
	return &doc, nil
}

// getJSON performs an authorized GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, accessToken, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return decodeBody(resp.Body, out)
}

func decodeBody(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("malformed response body: %w", err)
	}
	return nil
}
