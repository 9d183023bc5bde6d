package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/common"
	"github.com/iysravet/iyscli/internal/logging"
)

const (
	signinPath       = "/auth/signin"
	eventsPath       = "/iys/events"
	regDetailsPath   = "/iys/eventRegDetails"
	registrationPath = "/iys/registration"
)

// RESTClient talks to the IYS backend over HTTP. All endpoint paths are
// appended to a single base URL resolved from configuration.
type RESTClient struct {
	baseURL string
	timeout time.Duration
	log     logging.Logger

	// A bearer request must not also carry ambient cookies, so two
	// underlying clients: plain has no cookie jar, ambient owns one.
	plain   *http.Client
	ambient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration, log logging.Logger) (*RESTClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     log,
		plain:   &http.Client{},
		ambient: &http.Client{Jar: jar},
	}, nil
}

func (c *RESTClient) url(path string) string {
	return c.baseURL + path
}

// mapTransportError converts low-level transport failures into the shared
// network sentinel. Caller-initiated cancellation passes through untouched:
// an abandoned request is not an error condition.
func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrNetworkFailure, err)
}

func statusError(code int, message string) error {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return common.ErrUnauthorized
	}
	return &ServerError{StatusCode: code, Message: message}
}

// messageFrom extracts the server's message field from an error body,
// falling back to the raw text.
func messageFrom(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}

func (c *RESTClient) SignIn(ctx context.Context, email, password string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(signinPath), bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug(ctx, "http request", "method", req.Method, "path", signinPath)

	resp, err := c.plain.Do(req)
	if err != nil {
		return "", "", mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", statusError(resp.StatusCode, messageFrom(raw))
	}

	var out struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrInvalidResponseShape, err)
	}
	if out.Token == "" {
		return "", "", fmt.Errorf("%w: missing token in sign-in response", common.ErrInvalidResponseShape)
	}
	return out.Token, out.Username, nil
}

func (c *RESTClient) Events(ctx context.Context, bearer string) ([]models.EventRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(eventsPath), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	c.log.Debug(ctx, "http request", "method", req.Method, "path", eventsPath)

	resp, err := c.plain.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, messageFrom(raw))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, fmt.Errorf("%w: unexpected content type %q", common.ErrInvalidResponseShape, ct)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", common.ErrInvalidResponseShape)
	}

	var events []models.EventRecord
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidResponseShape, err)
	}
	return events, nil
}

func (c *RESTClient) EventRegDetails(ctx context.Context) (*models.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(regDetailsPath), nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug(ctx, "http request", "method", req.Method, "path", regDetailsPath)

	resp, err := c.plain.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, messageFrom(raw))
	}

	// An empty body means the organizer has not configured anything yet;
	// callers handle that through EventDetails.Empty.
	details := &models.EventDetails{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return details, nil
	}
	if err := json.Unmarshal(raw, details); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidResponseShape, err)
	}
	return details, nil
}

func (c *RESTClient) SubmitRegistration(ctx context.Context, bearer string, sub models.RegistrationSubmission) (*models.RegistrationAck, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("amount", strconv.FormatFloat(sub.Amount, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if err := w.WriteField("paymentId", sub.PaymentID); err != nil {
		return nil, err
	}
	if len(sub.Screenshot) > 0 {
		name := sub.ScreenshotName
		if name == "" {
			name = "screenshot"
		}
		part, err := w.CreateFormFile("screenshot", name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(sub.Screenshot); err != nil {
			return nil, err
		}
	}
	if err := w.WriteField("yatraId", sub.EventID); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(registrationPath), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	httpClient := c.ambient
	if bearer != "" {
		httpClient = c.plain
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	c.log.Debug(ctx, "http request", "method", req.Method, "path", registrationPath,
		"bearer", bearer != "", "screenshot", len(sub.Screenshot) > 0)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(err)
	}

	// The body is usually JSON but plain-text responses are tolerated:
	// their text becomes the message.
	ack := &models.RegistrationAck{}
	if err := json.Unmarshal(raw, ack); err != nil {
		ack = &models.RegistrationAck{Message: strings.TrimSpace(string(raw))}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, ack.Message)
	}
	return ack, nil
}
