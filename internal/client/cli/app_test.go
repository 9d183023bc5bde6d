package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/registration"
	"github.com/iysravet/iyscli/internal/session"

	_ "modernc.org/sqlite"
)

// ------------ helpers ------------

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	lines := &[]string{}
	printlnFn = func(args ...any) (int, error) {
		*lines = append(*lines, strings.TrimRight(fmt.Sprintln(args...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return lines
}

func outputContains(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func stubTextInputs(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		a := answers[i]
		i++
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw []byte) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

func newTestSessionStore(t *testing.T) (*session.Store, *session.Broadcaster) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE creds (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)

	b := session.NewBroadcaster()
	return session.NewStore(db, b, discardLogger()), b
}

func mintToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

// fakeAPI implements api.Client with pluggable behavior per method.
type fakeAPI struct {
	signInFn  func(ctx context.Context, email, password string) (string, string, error)
	eventsFn  func(ctx context.Context, bearer string) ([]models.EventRecord, error)
	detailsFn func(ctx context.Context) (*models.EventDetails, error)
	submitFn  func(ctx context.Context, bearer string, sub models.RegistrationSubmission) (*models.RegistrationAck, error)
}

func (f *fakeAPI) SignIn(ctx context.Context, email, password string) (string, string, error) {
	return f.signInFn(ctx, email, password)
}

func (f *fakeAPI) Events(ctx context.Context, bearer string) ([]models.EventRecord, error) {
	return f.eventsFn(ctx, bearer)
}

func (f *fakeAPI) EventRegDetails(ctx context.Context) (*models.EventDetails, error) {
	return f.detailsFn(ctx)
}

func (f *fakeAPI) SubmitRegistration(ctx context.Context, bearer string, sub models.RegistrationSubmission) (*models.RegistrationAck, error) {
	return f.submitFn(ctx, bearer, sub)
}

func yatraDetails() *models.EventDetails {
	return &models.EventDetails{
		ID:          "ev-1",
		Title:       "Char Dham Yatra",
		Description: "12 days across the four dhams",
		Departure:   "2026-05-10",
		Duration:    "12 days",
		Fees:        &models.FeeSchedule{Installments: []float64{5000, 10000}, CurrencySymbol: "₹"},
		UPIID:       "org@upi",
		QRURL:       "https://example.org/qr.png",
	}
}

// ------------ tests ------------

func TestYatra_BindsWorkflowAndPrintsOffer(t *testing.T) {
	lines := capturePrintln(t)
	store, _ := newTestSessionStore(t)

	client := &fakeAPI{
		detailsFn: func(context.Context) (*models.EventDetails, error) { return yatraDetails(), nil },
	}
	a := &App{
		apiClient: client,
		workflow:  registration.NewWorkflow(client, store, discardLogger()),
		store:     store,
		log:       discardLogger(),
	}

	require.NoError(t, a.Yatra(context.Background()))

	require.NotNil(t, a.details)
	assert.Equal(t, "ev-1", a.details.ID)
	assert.Equal(t, []float64{5000, 10000}, a.workflow.SelectableAmounts())
	assert.True(t, outputContains(*lines, "Char Dham Yatra"))
	assert.True(t, outputContains(*lines, "org@upi"))
	assert.True(t, outputContains(*lines, "₹5000"))
}

func TestYatra_EmptyDetails(t *testing.T) {
	lines := capturePrintln(t)
	store, _ := newTestSessionStore(t)

	client := &fakeAPI{
		detailsFn: func(context.Context) (*models.EventDetails, error) { return &models.EventDetails{}, nil },
	}
	a := &App{
		apiClient: client,
		workflow:  registration.NewWorkflow(client, store, discardLogger()),
		store:     store,
		log:       discardLogger(),
	}

	require.NoError(t, a.Yatra(context.Background()))
	assert.Nil(t, a.details)
	assert.True(t, outputContains(*lines, "not available yet"))
}

func TestWhoAmI(t *testing.T) {
	lines := capturePrintln(t)
	store, _ := newTestSessionStore(t)
	a := &App{store: store}

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.True(t, outputContains(*lines, "Not signed in"))

	store.SetAuth(context.Background(), mintToken(t, "radha@example.com"), "Radha")
	*lines = (*lines)[:0]

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.True(t, outputContains(*lines, "Radha"))
}

func TestRenderStatus_FollowsSession(t *testing.T) {
	store, b := newTestSessionStore(t)
	a := &App{store: store}
	a.status = a.renderStatus()
	b.Subscribe(func(session.Event) { a.status = a.renderStatus() })

	assert.Equal(t, "", a.status)

	store.SetAuth(context.Background(), mintToken(t, "radha@example.com"), "Radha")
	assert.Equal(t, "(Radha)", a.status)

	store.SetAuth(context.Background(), "", "")
	assert.Equal(t, "", a.status)
}
