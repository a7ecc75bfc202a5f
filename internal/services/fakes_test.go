package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inviteticketing/internal/domain"
)

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockEventRepository struct {
	events map[string]*domain.Event
	err    error
}

func newMockEventRepository(events ...*domain.Event) *mockEventRepository {
	m := &mockEventRepository{events: map[string]*domain.Event{}}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = uuid.NewString()
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*domain.Event{}
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

// mockInvitationRepository enforces the (event_id, email) uniqueness of the real table.
type mockInvitationRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.Invitation
	err     error
	usedErr error
}

func newMockInvitationRepository(invs ...*domain.Invitation) *mockInvitationRepository {
	m := &mockInvitationRepository{byID: map[string]*domain.Invitation{}}
	for _, inv := range invs {
		m.byID[inv.ID] = inv
	}
	return m
}

func (m *mockInvitationRepository) findByEmail(eventID, email string) *domain.Invitation {
	for _, inv := range m.byID {
		if inv.EventID == eventID && inv.Email == email {
			return inv
		}
	}
	return nil
}

func (m *mockInvitationRepository) Upsert(ctx context.Context, inv *domain.Invitation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if existing := m.findByEmail(inv.EventID, inv.Email); existing != nil {
		if inv.Phone != nil {
			p := *inv.Phone
			existing.Phone = &p
		}
		*inv = *existing
		return false, nil
	}
	inv.ID = uuid.NewString()
	stored := *inv
	m.byID[inv.ID] = &stored
	return true, nil
}

func (m *mockInvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.findByEmail(inv.EventID, inv.Email) != nil {
		return domain.ErrDuplicateEmail
	}
	inv.ID = uuid.NewString()
	stored := *inv
	m.byID[inv.ID] = &stored
	return nil
}

func (m *mockInvitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	inv, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvitationRepository) BindContact(ctx context.Context, id, email string, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.Used {
		return domain.ErrInvitationUsed
	}
	if other := m.findByEmail(inv.EventID, email); other != nil && other.ID != id {
		return domain.ErrDuplicateEmail
	}
	inv.Email = email
	if phone != nil {
		p := *phone
		inv.Phone = &p
	}
	return nil
}

func (m *mockInvitationRepository) MarkUsed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usedErr != nil {
		return m.usedErr
	}
	inv, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Used = true
	return nil
}

func (m *mockInvitationRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var all []*domain.Invitation
	for _, inv := range m.byID {
		if inv.EventID == eventID && strings.Contains(inv.Email, search) {
			all = append(all, inv)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return all, len(all), nil
}

func (m *mockInvitationRepository) get(id string) *domain.Invitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *mockInvitationRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type mockRSVPRepository struct {
	mu           sync.Mutex
	byInvitation map[string]*domain.RSVP
	err          error
}

func newMockRSVPRepository() *mockRSVPRepository {
	return &mockRSVPRepository{byInvitation: map[string]*domain.RSVP{}}
}

func (m *mockRSVPRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if existing, ok := m.byInvitation[rsvp.InvitationID]; ok {
		rsvp.ID = existing.ID
		rsvp.CreatedAt = existing.CreatedAt
	} else {
		rsvp.ID = uuid.NewString()
	}
	stored := *rsvp
	m.byInvitation[rsvp.InvitationID] = &stored
	return nil
}

func (m *mockRSVPRepository) GetByInvitationID(ctx context.Context, invitationID string) (*domain.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byInvitation[invitationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type mockUserRepository struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	err     error
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{byEmail: map[string]*domain.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepository) UpsertByEmail(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if existing, ok := m.byEmail[u.Email]; ok {
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
	} else {
		u.ID = uuid.NewString()
	}
	stored := *u
	m.byEmail[u.Email] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// mockTicketRepository enforces UNIQUE(session_id) and the conditional redeem
// and delivery updates.
type mockTicketRepository struct {
	mu        sync.Mutex
	bySession map[string]*domain.Ticket
	holders   *mockUserRepository
	createErr error
	inserts   int
}

func newMockTicketRepository(holders *mockUserRepository) *mockTicketRepository {
	return &mockTicketRepository{bySession: map[string]*domain.Ticket{}, holders: holders}
}

func (m *mockTicketRepository) CreateForSession(ctx context.Context, t *domain.Ticket) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return false, m.createErr
	}
	if existing, ok := m.bySession[t.SessionID]; ok {
		*t = *existing
		return false, nil
	}
	m.inserts++
	t.ID = uuid.NewString()
	stored := *t
	m.bySession[t.SessionID] = &stored
	return true, nil
}

func (m *mockTicketRepository) find(code string) *domain.Ticket {
	for _, t := range m.bySession {
		if t.TicketCode == code {
			return t
		}
	}
	return nil
}

func (m *mockTicketRepository) withHolder(t *domain.Ticket) *domain.TicketWithHolder {
	tw := &domain.TicketWithHolder{Ticket: *t}
	if m.holders != nil {
		if u, err := m.holders.GetByID(context.Background(), t.UserID); err == nil {
			tw.HolderName = u.Name
			tw.HolderEmail = u.Email
		}
	}
	return tw
}

func (m *mockTicketRepository) GetByCode(ctx context.Context, code string) (*domain.TicketWithHolder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.find(code)
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return m.withHolder(t), nil
}

func (m *mockTicketRepository) Redeem(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.bySession {
		if t.ID == id {
			if t.RedeemedAt != nil {
				return false, nil
			}
			t.RedeemedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTicketRepository) ClaimDelivery(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.bySession {
		if t.ID == id {
			if t.DeliveredAt != nil {
				return false, nil
			}
			t.DeliveredAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTicketRepository) ReleaseDelivery(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.bySession {
		if t.ID == id {
			t.DeliveredAt = nil
		}
	}
	return nil
}

func (m *mockTicketRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.TicketWithHolder{}
	for _, t := range m.bySession {
		if t.EventID == eventID {
			out = append(out, m.withHolder(t))
		}
	}
	return out, len(out), nil
}

func (m *mockTicketRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySession)
}

type mockStaffRepository struct {
	byEmail map[string]*domain.Staff
	err     error
}

func (m *mockStaffRepository) Upsert(ctx context.Context, s *domain.Staff) error {
	if m.err != nil {
		return m.err
	}
	if existing, ok := m.byEmail[s.Email]; ok {
		s.ID = existing.ID
	} else {
		s.ID = uuid.NewString()
	}
	cp := *s
	m.byEmail[s.Email] = &cp
	return nil
}

func (m *mockStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type mockGateway struct {
	mu       sync.Mutex
	created  []domain.CheckoutSessionParams
	event    *domain.PaymentEvent
	parseErr error
	err      error
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, p domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, p)
	id := "cs_test_" + p.Metadata[domain.MetadataInvitationID]
	return &domain.CheckoutSession{ID: id, URL: "https://checkout.example.com/" + id}, nil
}

func (m *mockGateway) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	if signature != "valid" {
		return nil, domain.ErrInvalidSignature
	}
	return m.event, nil
}

type mockDedup struct {
	seen    map[string]bool
	seenErr error
}

func (m *mockDedup) Seen(ctx context.Context, id string) (bool, error) {
	if m.seenErr != nil {
		return false, m.seenErr
	}
	return m.seen[id], nil
}

func (m *mockDedup) Remember(ctx context.Context, id string) error {
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	m.seen[id] = true
	return nil
}

type mockEmailService struct {
	mu          sync.Mutex
	invitations []*domain.InvitationEmailData
	tickets     []*domain.TicketEmailData
	err         error
}

func (m *mockEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.invitations = append(m.invitations, data)
	return nil
}

func (m *mockEmailService) SendTicket(ctx context.Context, data *domain.TicketEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tickets = append(m.tickets, data)
	return nil
}

type sentSMS struct{ to, body string }

type mockSMSSender struct {
	sent []sentSMS
	err  error
}

func (m *mockSMSSender) Send(ctx context.Context, to, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentSMS{to: to, body: body})
	return nil
}

// mockPhoneNormalizer treats a leading 0 as a Swiss national prefix.
type mockPhoneNormalizer struct{}

func (mockPhoneNormalizer) Normalize(phone string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if strings.HasPrefix(p, "0") {
		p = "+41" + p[1:]
	}
	if !strings.HasPrefix(p, "+") || len(p) < 8 {
		return "", domain.ErrInvalidInput
	}
	for _, r := range p[1:] {
		if r < '0' || r > '9' {
			return "", domain.ErrInvalidInput
		}
	}
	return p, nil
}

type mockQRRenderer struct {
	err error
}

func (m mockQRRenderer) PNG(content string, size int) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte("png:" + content), nil
}

type mockExporter struct {
	event   *domain.Event
	tickets []*domain.TicketWithHolder
}

func (m *mockExporter) Export(event *domain.Event, tickets []*domain.TicketWithHolder) ([]byte, error) {
	m.event = event
	m.tickets = tickets
	return []byte("xlsx"), nil
}
