package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/config"
	"github.com/tharsan/event-booking-api/internal/googleauth"
	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/queue"
	"github.com/tharsan/event-booking-api/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "handler-test-secret",
		TokenTTLHours:  48,
		BcryptCost:     4,
		OTPTTLMin:      10,
		CookieSecure:   false,
		CookieSameSite: "lax",
	}
}

// doJSON runs a handler against an in-memory request and returns the
// recorded response.
func doJSON(t *testing.T, h echo.HandlerFunc, method string, body any, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// findCookie returns the named Set-Cookie entry, or nil.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ----- in-memory user store -----

type fakeUserStore struct {
	users   map[uint64]*model.User
	nextID  uint64
	failAll bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

var errFakeStore = errors.New("store down")

func (s *fakeUserStore) Create(_ context.Context, username, email, passwordHash, role string) (model.User, error) {
	if s.failAll {
		return model.User{}, errFakeStore
	}
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Username == username {
			return model.User{}, repository.ErrUsernameExists
		}
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	s.nextID++
	hash := passwordHash
	u := &model.User{
		ID: s.nextID, Username: username, Email: email,
		PasswordHash: &hash, Role: role,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return *u, nil
}

func (s *fakeUserStore) CreateFederated(_ context.Context, username, email string, profileImage *string) (model.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	s.nextID++
	u := &model.User{
		ID: s.nextID, Username: username, Email: email,
		Role: model.RoleUser, ProfileImage: profileImage,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return *u, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) SetResetCode(_ context.Context, userID uint64, code string, expiresAt time.Time) error {
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetCode = &code
	u.ResetCodeExpiresAt = &expiresAt
	return nil
}

func (s *fakeUserStore) ClearResetCode(_ context.Context, userID uint64) error {
	if u, ok := s.users[userID]; ok {
		u.ResetCode = nil
		u.ResetCodeExpiresAt = nil
	}
	return nil
}

func (s *fakeUserStore) GetByResetCode(_ context.Context, code string) (model.User, error) {
	for _, u := range s.users {
		if u.ResetCode != nil && *u.ResetCode == code {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrResetCodeInvalid
}

func (s *fakeUserStore) ResetPassword(_ context.Context, userID uint64, code, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok || u.ResetCode == nil || *u.ResetCode != code {
		return repository.ErrResetCodeInvalid
	}
	u.PasswordHash = &passwordHash
	u.ResetCode = nil
	u.ResetCodeExpiresAt = nil
	return nil
}

// ----- in-memory service/category/booking stores -----

type fakeServiceStore struct {
	services map[uint64]*model.Service
	nextID   uint64
}

func newFakeServiceStore() *fakeServiceStore {
	return &fakeServiceStore{services: map[uint64]*model.Service{}}
}

func (s *fakeServiceStore) Create(_ context.Context, name string, description *string) (model.Service, error) {
	s.nextID++
	svc := &model.Service{ID: s.nextID, Name: name, Description: description,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	s.services[svc.ID] = svc
	return *svc, nil
}

func (s *fakeServiceStore) GetByID(_ context.Context, id uint64) (model.Service, error) {
	if svc, ok := s.services[id]; ok {
		return *svc, nil
	}
	return model.Service{}, repository.ErrServiceNotFound
}

func (s *fakeServiceStore) List(_ context.Context) ([]model.Service, error) {
	var out []model.Service
	for _, svc := range s.services {
		out = append(out, *svc)
	}
	return out, nil
}

func (s *fakeServiceStore) Update(_ context.Context, id uint64, name string, description *string) (model.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return model.Service{}, repository.ErrServiceNotFound
	}
	svc.Name, svc.Description = name, description
	return *svc, nil
}

func (s *fakeServiceStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.services[id]; !ok {
		return repository.ErrServiceNotFound
	}
	delete(s.services, id)
	return nil
}

type fakeCategoryStore struct {
	categories map[uint64]*model.Category
	services   *fakeServiceStore
	nextID     uint64
}

func newFakeCategoryStore(services *fakeServiceStore) *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[uint64]*model.Category{}, services: services}
}

func (s *fakeCategoryStore) Create(_ context.Context, serviceID uint64, name string, description *string) (model.Category, error) {
	if _, ok := s.services.services[serviceID]; !ok {
		return model.Category{}, repository.ErrServiceNotFound
	}
	s.nextID++
	cat := &model.Category{ID: s.nextID, ServiceID: serviceID, Name: name, Description: description,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	s.categories[cat.ID] = cat
	return *cat, nil
}

func (s *fakeCategoryStore) GetByID(_ context.Context, id uint64) (model.Category, error) {
	if cat, ok := s.categories[id]; ok {
		return *cat, nil
	}
	return model.Category{}, repository.ErrCategoryNotFound
}

func (s *fakeCategoryStore) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, cat := range s.categories {
		out = append(out, *cat)
	}
	return out, nil
}

func (s *fakeCategoryStore) ListByService(_ context.Context, serviceID uint64) ([]model.Category, error) {
	var out []model.Category
	for _, cat := range s.categories {
		if cat.ServiceID == serviceID {
			out = append(out, *cat)
		}
	}
	return out, nil
}

func (s *fakeCategoryStore) Update(_ context.Context, id, serviceID uint64, name string, description *string) (model.Category, error) {
	cat, ok := s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrCategoryNotFound
	}
	if _, ok := s.services.services[serviceID]; !ok {
		return model.Category{}, repository.ErrServiceNotFound
	}
	cat.ServiceID, cat.Name, cat.Description = serviceID, name, description
	return *cat, nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

type fakeBookingStore struct {
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[uint64]*model.Booking{}}
}

func (s *fakeBookingStore) Create(_ context.Context, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error) {
	s.nextID++
	b := &model.Booking{ID: s.nextID, Username: username, TelephoneNumber: telephone,
		ServiceID: serviceID, CategoryID: categoryID, EventDate: eventDate,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	s.bookings[b.ID] = b
	return *b, nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		return *b, nil
	}
	return model.Booking{}, repository.ErrBookingNotFound
}

func (s *fakeBookingStore) ListDetailed(_ context.Context) ([]model.BookingDetail, error) {
	var out []model.BookingDetail
	for _, b := range s.bookings {
		out = append(out, model.BookingDetail{ID: b.ID, Username: b.Username,
			TelephoneNumber: b.TelephoneNumber, EventDate: b.EventDate})
	}
	return out, nil
}

func (s *fakeBookingStore) Update(_ context.Context, id uint64, username, telephone string, serviceID, categoryID uint64, eventDate time.Time) (model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	b.Username, b.TelephoneNumber = username, telephone
	b.ServiceID, b.CategoryID, b.EventDate = serviceID, categoryID, eventDate
	return *b, nil
}

func (s *fakeBookingStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

// ----- collaborator fakes -----

type fakeMailer struct {
	sentTo   []string
	sentCode []string
	fail     bool
}

func (m *fakeMailer) SendPasswordReset(to, code string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sentTo = append(m.sentTo, to)
	m.sentCode = append(m.sentCode, code)
	return nil
}

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	if len(m.sentCode) == 0 {
		t.Fatal("no reset mail sent")
	}
	return m.sentCode[len(m.sentCode)-1]
}

type fakeGoogle struct {
	profile googleauth.Profile
	err     error
}

func (g *fakeGoogle) Verify(context.Context, string) (googleauth.Profile, error) {
	return g.profile, g.err
}

type fakePublisher struct {
	events []queue.BookingCreatedEvent
	fail   bool
}

func (p *fakePublisher) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, ev)
	return nil
}
