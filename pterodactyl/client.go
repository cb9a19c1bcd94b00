package pterodactyl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the panel Application API with a bearer token.
// Every call is bounded by the HTTP client timeout so a hung panel
// cannot stall a purchase forever.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/application",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError carries the panel's own error detail so operators see what
// the panel rejected, not just a status code.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("panel returned %d: %s", e.StatusCode, e.Detail)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// errorDetail pulls errors[0].detail out of the panel's error payload,
// falling back to the raw body when the shape is unexpected.
func errorDetail(raw []byte) string {
	var body struct {
		Errors []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Errors) > 0 && body.Errors[0].Detail != "" {
		return body.Errors[0].Detail
	}
	return string(raw)
}

// FindUserByEmail returns nil without error when no panel user matches.
func (c *Client) FindUserByEmail(email string) (*PanelUser, error) {
	var out userListResponse
	if err := c.do("GET", "/users?filter[email]="+url.QueryEscape(email), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	user := out.Data[0].Attributes
	return &user, nil
}

func (c *Client) CreateUser(req CreateUserRequest) (*PanelUser, error) {
	var out userEnvelope
	if err := c.do("POST", "/users", req, &out); err != nil {
		return nil, err
	}
	if out.Attributes.ID == 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Detail: "panel returned a user without an id"}
	}
	user := out.Attributes
	return &user, nil
}

func (c *Client) GetEgg(nestID, eggID int) (*Egg, error) {
	var out eggEnvelope
	path := fmt.Sprintf("/nests/%d/eggs/%d?include=variables", nestID, eggID)
	if err := c.do("GET", path, nil, &out); err != nil {
		return nil, err
	}

	egg := &Egg{
		ID:          out.Attributes.ID,
		Name:        out.Attributes.Name,
		DockerImage: out.Attributes.DockerImage,
		Startup:     out.Attributes.Startup,
	}
	for _, v := range out.Attributes.Relationships.Variables.Data {
		egg.Variables = append(egg.Variables, v.Attributes)
	}
	return egg, nil
}

func (c *Client) CreateServer(req CreateServerRequest) (*Server, error) {
	var out serverEnvelope
	if err := c.do("POST", "/servers", req, &out); err != nil {
		return nil, err
	}
	if out.Attributes.ID == 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Detail: "panel returned a server without an id"}
	}
	server := out.Attributes
	return &server, nil
}

func (c *Client) UpdateServerStartup(serverID int, req StartupRequest) error {
	return c.do("PATCH", fmt.Sprintf("/servers/%d/startup", serverID), req, nil)
}

func (c *Client) ReinstallServer(serverID int) error {
	return c.do("POST", fmt.Sprintf("/servers/%d/reinstall", serverID), nil, nil)
}

func (c *Client) DeleteServer(serverID int) error {
	return c.do("DELETE", fmt.Sprintf("/servers/%d", serverID), nil, nil)
}

func (c *Client) ListServers() ([]Server, error) {
	var out serverListResponse
	if err := c.do("GET", "/servers", nil, &out); err != nil {
		return nil, err
	}
	servers := make([]Server, 0, len(out.Data))
	for _, s := range out.Data {
		servers = append(servers, s.Attributes)
	}
	return servers, nil
}

// ListNests returns the nest -> eggs tree shown in the shop.
func (c *Client) ListNests() ([]Nest, error) {
	var out nestListResponse
	if err := c.do("GET", "/nests?include=eggs", nil, &out); err != nil {
		return nil, err
	}
	nests := make([]Nest, 0, len(out.Data))
	for _, n := range out.Data {
		nest := Nest{ID: n.Attributes.ID, Name: n.Attributes.Name}
		for _, e := range n.Attributes.Relationships.Eggs.Data {
			nest.Eggs = append(nest.Eggs, e.Attributes)
		}
		nests = append(nests, nest)
	}
	return nests, nil
}
