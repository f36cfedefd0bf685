package handler

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"
)

func bookingBody() map[string]any {
	return map[string]any{
		"username":         "alice",
		"telephone_number": "0771234567",
		"service_id":       1,
		"category_id":      2,
		"event_date":       "2026-10-12",
	}
}

func TestBookingCreatePublishesEvent(t *testing.T) {
	bookings := newFakeBookingStore()
	events := &fakePublisher{}
	h := NewBookingHandler(bookings, events, zerolog.Nop())

	rec := doJSON(t, h.Create, http.MethodPost, bookingBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	if len(events.events) != 1 {
		t.Fatalf("got %d published events, want 1", len(events.events))
	}
	ev := events.events[0]
	if ev.Username != "alice" || ev.ServiceID != 1 || ev.CategoryID != 2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestBookingCreateBrokerFailureStillCreates(t *testing.T) {
	bookings := newFakeBookingStore()
	h := NewBookingHandler(bookings, &fakePublisher{fail: true}, zerolog.Nop())

	rec := doJSON(t, h.Create, http.MethodPost, bookingBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201 despite broker failure", rec.Code)
	}
	if len(bookings.bookings) != 1 {
		t.Error("booking was not stored")
	}
}

func TestBookingCreateWithoutPublisher(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), nil, zerolog.Nop())
	rec := doJSON(t, h.Create, http.MethodPost, bookingBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201 with no publisher wired", rec.Code)
	}
}

func TestBookingCreateRequiresAllFields(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), &fakePublisher{}, zerolog.Nop())
	for _, field := range []string{"username", "telephone_number", "service_id", "category_id", "event_date"} {
		body := bookingBody()
		delete(body, field)
		rec := doJSON(t, h.Create, http.MethodPost, body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("missing %s: got status %d, want 400", field, rec.Code)
		}
	}
}

func TestBookingCreateRejectsBadDate(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), &fakePublisher{}, zerolog.Nop())
	body := bookingBody()
	body["event_date"] = "12/10/2026"
	rec := doJSON(t, h.Create, http.MethodPost, body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestBookingCreateAcceptsRFC3339(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), &fakePublisher{}, zerolog.Nop())
	body := bookingBody()
	body["event_date"] = "2026-10-12T14:30:00Z"
	rec := doJSON(t, h.Create, http.MethodPost, body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestBookingGetMissing(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), nil, zerolog.Nop())
	rec := doJSON(t, h.GetByID, http.MethodGet, nil, map[string]string{"id": "7"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestBookingUpdateReplacesFields(t *testing.T) {
	bookings := newFakeBookingStore()
	h := NewBookingHandler(bookings, nil, zerolog.Nop())

	rec := doJSON(t, h.Create, http.MethodPost, bookingBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d", rec.Code)
	}

	update := bookingBody()
	update["username"] = "bob"
	update["category_id"] = 5
	rec = doJSON(t, h.Update, http.MethodPut, update, map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got status %d, body %s", rec.Code, rec.Body.String())
	}
	b := bookings.bookings[1]
	if b.Username != "bob" || b.CategoryID != 5 {
		t.Errorf("stored booking = %+v", b)
	}
}

func TestBookingUpdateMissing(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), nil, zerolog.Nop())
	rec := doJSON(t, h.Update, http.MethodPut, bookingBody(), map[string]string{"id": "9"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestBookingDeleteMissing(t *testing.T) {
	h := NewBookingHandler(newFakeBookingStore(), nil, zerolog.Nop())
	rec := doJSON(t, h.Delete, http.MethodDelete, nil, map[string]string{"id": "9"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}
