package enka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const DefaultBaseURL = "https://enka.network"

var uidRe = regexp.MustCompile(`^([1,2,5-9])\d{8}$`)

// ValidateUID checks that uid looks like a game account id (9 digits).
func ValidateUID(uid string) error {
	if !uidRe.MatchString(strings.TrimSpace(uid)) {
		return fmt.Errorf("invalid uid %q (expected 9 digits, e.g. 123456789)", uid)
	}
	return nil
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 25 * time.Second},
		userAgent:  userAgent,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL points the client at another host (used by tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type UIDResponse struct {
	AvatarInfoList []AvatarInfo `json:"avatarInfoList"`
	PlayerInfo     *struct {
		Nickname string `json:"nickname"`
	} `json:"playerInfo"`
}

// FetchAvatars returns the showcase characters of uid and the profile nickname.
func (c *Client) FetchAvatars(ctx context.Context, uid string) ([]AvatarInfo, string, error) {
	if err := ValidateUID(uid); err != nil {
		return nil, "", err
	}
	uidURL := fmt.Sprintf("%s/api/uid/%s", c.baseURL, strings.TrimSpace(uid))
	var uidResp UIDResponse
	if err := c.getJSON(ctx, uidURL, &uidResp); err != nil {
		return nil, "", err
	}

	profileName := ""
	if uidResp.PlayerInfo != nil {
		profileName = uidResp.PlayerInfo.Nickname
	}
	return uidResp.AvatarInfoList, profileName, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("enka api status %d for %s: %s", resp.StatusCode, url, string(b))
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode json from %s: %w", url, err)
	}
	return nil
}
