package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"emosense/internal/dao"
	"emosense/internal/vision"
)

// Client is the bearer-token HTTP client the capture agent uses to talk
// to the serve API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token and keeps it for
// subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*dao.LoginResponse, error) {
	var resp dao.LoginResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/login",
		&dao.LoginSpec{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) GetProfile(ctx context.Context) (*dao.PsychologistSpec, error) {
	var resp dao.PsychologistSpec
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetPatient(ctx context.Context, patientId int) (*dao.PatientSpec, error) {
	var resp dao.PatientSpec
	path := fmt.Sprintf("/api/v1/patient/%d", patientId)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateSession(ctx context.Context, spec *dao.CreateSessionSpec) (*dao.SessionSpec, error) {
	var resp dao.SessionSpec
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sessions", spec, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddEmotion(ctx context.Context, sessionId int, spec *dao.AddEmotionSpec) error {
	path := fmt.Sprintf("/api/v1/session/%d/emotions", sessionId)
	return c.doRequest(ctx, http.MethodPost, path, spec, nil)
}

type predictRequest struct {
	Image string `json:"image"`
}

type predictResponse struct {
	Predictions []vision.Prediction `json:"predictions"`
}

// Predict sends one JPEG frame to the prediction endpoint. Implements
// the loop's Predictor interface.
func (c *Client) Predict(ctx context.Context, jpeg []byte) ([]vision.Prediction, error) {
	req := &predictRequest{
		Image: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg),
	}
	var resp predictResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/predict", req, &resp); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}
