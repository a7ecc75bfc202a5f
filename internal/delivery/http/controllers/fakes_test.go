package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inviteticketing/internal/delivery/http/helpers"
	"inviteticketing/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var errDB = errors.New("pq: connection refused")

// envelope decodes the response body with Data kept raw for typed decoding.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type fakeAuthService struct {
	token string
	staff *domain.Staff
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.Staff, error) {
	return f.token, f.staff, f.err
}

func (f *fakeAuthService) EnsureStaff(ctx context.Context, email, password string) error {
	return f.err
}

type fakeEventService struct {
	event     *domain.Event
	events    []*domain.Event
	err       error
	lastName  string
	lastLoc   string
	lastDate  *time.Time
	lastGetID string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, name string, dateTime *time.Time, location string) (*domain.Event, error) {
	f.lastName, f.lastDate, f.lastLoc = name, dateTime, location
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: "ev-created", Name: name, DateTime: dateTime, Location: location}, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastGetID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

type fakeInvitationService struct {
	result      *domain.SendInvitationResult
	invitation  *domain.Invitation
	list        []*domain.Invitation
	total       int
	err         error
	lastEmail   string
	lastPhone   string
	lastSearch  string
	lastParams  domain.PaginationParams
	lastEventID string
}

func (f *fakeInvitationService) SendInvitation(ctx context.Context, email, phone string) (*domain.SendInvitationResult, error) {
	f.lastEmail, f.lastPhone = email, phone
	return f.result, f.err
}

func (f *fakeInvitationService) GetInvitation(ctx context.Context, id string) (*domain.Invitation, error) {
	return f.invitation, f.err
}

func (f *fakeInvitationService) ListInvitations(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	f.lastSearch, f.lastParams = search, params
	return f.list, f.total, f.err
}

func (f *fakeInvitationService) OpenInvitation(ctx context.Context, eventID string) (*domain.Invitation, error) {
	f.lastEventID = eventID
	return f.invitation, f.err
}

type fakeRSVPService struct {
	outcome    *domain.RSVPOutcome
	err        error
	lastSubmit domain.SubmitRSVPInput
	lastPublic domain.PublicRSVPInput
}

func (f *fakeRSVPService) Submit(ctx context.Context, in domain.SubmitRSVPInput) (*domain.RSVPOutcome, error) {
	f.lastSubmit = in
	return f.outcome, f.err
}

func (f *fakeRSVPService) SubmitPublic(ctx context.Context, in domain.PublicRSVPInput) (*domain.RSVPOutcome, error) {
	f.lastPublic = in
	return f.outcome, f.err
}

type fakeCheckoutService struct {
	session          *domain.CheckoutSession
	err              error
	lastInvitationID string
}

func (f *fakeCheckoutService) CreateSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	return f.session, f.err
}

func (f *fakeCheckoutService) CreateForInvitation(ctx context.Context, invitationID string) (*domain.CheckoutSession, error) {
	f.lastInvitationID = invitationID
	return f.session, f.err
}

type fakeWebhookService struct {
	result        *domain.WebhookResult
	err           error
	lastPayload   []byte
	lastSignature string
	called        bool
}

func (f *fakeWebhookService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (*domain.WebhookResult, error) {
	f.called = true
	f.lastPayload, f.lastSignature = payload, signature
	return f.result, f.err
}

type fakeTicketService struct {
	ticket    *domain.Ticket
	created   bool
	issueErr  error
	verdict   *domain.VerificationResult
	verifyErr error
	holder    *domain.TicketWithHolder
	getErr    error
	png       []byte
	qrErr     error
	list      []*domain.TicketWithHolder
	total     int
	listErr   error
	export    []byte
	exportErr error
	lastIssue domain.IssueTicketInput
	lastCode  string
}

func (f *fakeTicketService) Issue(ctx context.Context, in domain.IssueTicketInput) (*domain.Ticket, bool, error) {
	f.lastIssue = in
	return f.ticket, f.created, f.issueErr
}

func (f *fakeTicketService) Verify(ctx context.Context, code string) (*domain.VerificationResult, error) {
	f.lastCode = code
	return f.verdict, f.verifyErr
}

func (f *fakeTicketService) GetTicket(ctx context.Context, code string) (*domain.TicketWithHolder, error) {
	f.lastCode = code
	return f.holder, f.getErr
}

func (f *fakeTicketService) RenderQR(ctx context.Context, code string) ([]byte, error) {
	return f.png, f.qrErr
}

func (f *fakeTicketService) ListTickets(ctx context.Context, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	return f.list, f.total, f.listErr
}

func (f *fakeTicketService) ExportTickets(ctx context.Context) ([]byte, error) {
	return f.export, f.exportErr
}
