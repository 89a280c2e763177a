package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medischedule/medischedule/internal/aivalidate"
	"github.com/medischedule/medischedule/internal/api"
	"github.com/medischedule/medischedule/internal/notify"
	redisclient "github.com/medischedule/medischedule/internal/redis"
	"github.com/medischedule/medischedule/internal/scheduling"
	"github.com/medischedule/medischedule/internal/store"
)

type stubQueue struct {
	docs []notify.Document
}

func (q *stubQueue) Enqueue(ctx context.Context, doc notify.Document) error {
	q.docs = append(q.docs, doc)
	return nil
}

func setup(t *testing.T, aiURL string) (*httptest.Server, *stubQueue) {
	t.Helper()

	st := store.New(store.NewMemoryKV())
	if err := st.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	q := &stubQueue{}
	svc := scheduling.NewService(st, redisclient.NoopLocker{}, q, scheduling.NoopRecorder{})

	router := api.NewRouter(api.RouterConfig{
		Service:  svc,
		AIClient: aivalidate.NewClient(aiURL, 5*time.Second),
		Env:      "test",
		Version:  "test",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, q
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (int, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, raw
}

func patientHeaders() map[string]string {
	return map[string]string{"X-User-ID": "user-1", "X-User-Name": "Alex Johnson", "X-Role": "patient"}
}

func adminHeaders() map[string]string {
	return map[string]string{"X-User-ID": "user-3", "X-User-Name": "Maria Garcia", "X-Role": "admin"}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

// ----- booking tests -----

func TestBookAppointmentEndpoint(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments", api.BookAppointmentRequest{
		DoctorID: "doc-2",
		Date:     tomorrow(),
		Time:     "02:00 PM",
	}, patientHeaders())
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, raw)
	}

	var appt scheduling.Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.Status != scheduling.StatusPending {
		t.Fatalf("expected Pending, got %s", appt.Status)
	}
	if appt.PatientID != "user-1" {
		t.Fatalf("patient identity not taken from headers: %q", appt.PatientID)
	}
}

func TestBookAppointmentConflict(t *testing.T) {
	srv, _ := setup(t, "")

	req := api.BookAppointmentRequest{DoctorID: "doc-2", Date: tomorrow(), Time: "02:00 PM"}

	if status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments", req, patientHeaders()); status != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d: %s", status, raw)
	}

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments", req, patientHeaders())
	if status != http.StatusConflict {
		t.Fatalf("second booking: expected 409, got %d: %s", status, raw)
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error != "slot_unavailable" {
		t.Fatalf("expected slot_unavailable, got %q", errResp.Error)
	}
}

func TestBookAppointmentAdminNeedsPatientName(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments", api.BookAppointmentRequest{
		DoctorID: "doc-1",
		Date:     tomorrow(),
		Time:     "09:00 AM",
	}, adminHeaders())
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", status, raw)
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error != "missing_patient_name" {
		t.Fatalf("expected missing_patient_name, got %q", errResp.Error)
	}
}

// ----- slot listing tests -----

func TestSlotsEndpointExcludesBooked(t *testing.T) {
	srv, _ := setup(t, "")

	// Seeded: doc-1 holds 10:00 AM (Confirmed) and 11:00 AM (Pending) two days out.
	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	status, raw := doJSON(t, http.MethodGet, srv.URL+"/slots?doctorId=doc-1&date="+date, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}

	var resp api.SlotsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, slot := range resp.Slots {
		if slot == "10:00 AM" || slot == "11:00 AM" {
			t.Fatalf("booked slot %s leaked into the open list", slot)
		}
	}
	if len(resp.Slots) != 11 {
		t.Fatalf("expected 11 open slots, got %d: %v", len(resp.Slots), resp.Slots)
	}
}

func TestSlotsEndpointRequiresParams(t *testing.T) {
	srv, _ := setup(t, "")
	if status, _ := doJSON(t, http.MethodGet, srv.URL+"/slots?doctorId=doc-1", nil, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ----- status transition tests -----

func TestConfirmEndpointQueuesMail(t *testing.T) {
	srv, q := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments/apt-2/status", api.StatusUpdateRequest{Status: "Confirmed"},
		map[string]string{"X-User-ID": "doc-1", "X-User-Name": "Dr. Evelyn Reed", "X-Role": "doctor"})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}

	var resp api.StatusUpdateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Appointment.Status != scheduling.StatusConfirmed {
		t.Fatalf("expected Confirmed, got %s", resp.Appointment.Status)
	}
	// apt-2's patient is a walk-in with no account, so no mail goes out.
	if len(q.docs) != 0 {
		t.Fatalf("expected no mail for walk-in patient, got %d", len(q.docs))
	}

	// apt-1 is already Confirmed; completing it belongs to staff.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/appointments/apt-1/status", api.StatusUpdateRequest{Status: "Completed"},
		map[string]string{"X-User-ID": "doc-1", "X-Role": "doctor"})
	if status != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", status, raw)
	}
}

func TestIllegalTransitionEndpoint(t *testing.T) {
	srv, _ := setup(t, "")

	// apt-5 is seeded Completed; no further transitions exist.
	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments/apt-5/status", api.StatusUpdateRequest{Status: "Cancelled"}, adminHeaders())
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", status, raw)
	}
}

func TestPatientCannotConfirmEndpoint(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments/apt-4/status", api.StatusUpdateRequest{Status: "Confirmed"}, patientHeaders())
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", status, raw)
	}
}

// ----- resource tests -----

func TestResourceEndpointsRequireAdmin(t *testing.T) {
	srv, _ := setup(t, "")

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/resources", api.AddResourceRequest{Name: "Ward B, Bed 201", Type: "Bed"}, patientHeaders())
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for patient, got %d", status)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/resources", api.AddResourceRequest{Name: "Ward B, Bed 201", Type: "Bed"}, adminHeaders())
	if status != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", status)
	}
}

func TestLastBedAlertOverHTTP(t *testing.T) {
	srv, _ := setup(t, "")

	// Seed has beds 101 (Available), 102 (Occupied), 103 (Available).
	status, raw := doJSON(t, http.MethodPost, srv.URL+"/resources/bed-103/status", api.ResourceStatusRequest{Status: "Occupied"}, adminHeaders())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	var first api.ResourceStatusResponse
	if err := json.Unmarshal(raw, &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(first.Alerts) != 0 {
		t.Fatalf("one bed still free, expected no alerts, got %v", first.Alerts)
	}

	status, raw = doJSON(t, http.MethodPost, srv.URL+"/resources/bed-101/status", api.ResourceStatusRequest{Status: "Occupied"}, adminHeaders())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	var second api.ResourceStatusResponse
	if err := json.Unmarshal(raw, &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(second.Alerts) != 1 {
		t.Fatalf("expected 1 alert for last bed, got %v", second.Alerts)
	}
}

// ----- notification tests -----

func TestNotifyEndpoint(t *testing.T) {
	srv, q := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/notifications", api.NotifyRequest{
		PatientID: "user-1",
		Message:   "Please bring your insurance card.",
	}, adminHeaders())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	if len(q.docs) != 1 {
		t.Fatalf("expected 1 queued document, got %d", len(q.docs))
	}
	if q.docs[0].To[0] != "patient@example.com" {
		t.Fatalf("unexpected recipient %v", q.docs[0].To)
	}
}

// ----- AI validation tests -----

func TestValidateSlotEndpoint(t *testing.T) {
	var forwarded aivalidate.Request
	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&forwarded); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(aivalidate.Result{
			IsValid: false,
			Reason:  "slot taken",
			AlternativeSlots: []string{
				fmt.Sprintf("%s at 09:00 AM", tomorrow()),
				fmt.Sprintf("%s at 09:30 AM", tomorrow()),
				fmt.Sprintf("%s at 01:00 PM", tomorrow()),
			},
		})
	}))
	defer ai.Close()

	srv, _ := setup(t, ai.URL)

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments/validate-slot", api.ValidateSlotRequest{
		DoctorID:      "doc-1",
		PatientID:     "user-1",
		RequestedSlot: fmt.Sprintf("%s at 10:00 AM", tomorrow()),
	}, patientHeaders())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}

	var result aivalidate.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.IsValid || len(result.AlternativeSlots) != 3 {
		t.Fatalf("unexpected result %+v", result)
	}

	// The handler supplies the doctor's booked slots to the service.
	if len(forwarded.ExistingAppointments) == 0 {
		t.Fatal("existing appointments not forwarded")
	}
}

func TestValidateSlotServiceDown(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/appointments/validate-slot", api.ValidateSlotRequest{
		DoctorID:      "doc-1",
		RequestedSlot: "whenever",
	}, patientHeaders())
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", status, raw)
	}
}

// ----- account tests -----

func TestSignupAndLoginEndpoints(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/signup", api.SignupRequest{
		Name: "New Patient", Email: "new@example.com", Role: "patient",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodPost, srv.URL+"/signup", api.SignupRequest{
		Name: "Dup", Email: "new@example.com", Role: "patient",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d: %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodPost, srv.URL+"/login", api.LoginRequest{Email: "new@example.com"}, nil)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", status, raw)
	}

	var user scheduling.User
	if err := json.Unmarshal(raw, &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Name != "New Patient" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestSessionEndpoint(t *testing.T) {
	srv, _ := setup(t, "")

	status, raw := doJSON(t, http.MethodGet, srv.URL+"/session", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("fresh session: expected 401, got %d: %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodPost, srv.URL+"/login", api.LoginRequest{Email: "patient@example.com"}, nil)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodGet, srv.URL+"/session", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("session after login: expected 200, got %d: %s", status, raw)
	}
	var user scheduling.User
	if err := json.Unmarshal(raw, &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("unexpected session user %+v", user)
	}

	status, raw = doJSON(t, http.MethodPost, srv.URL+"/logout", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", status, raw)
	}
	status, raw = doJSON(t, http.MethodGet, srv.URL+"/session", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("session after logout: expected 401, got %d: %s", status, raw)
	}
}

func TestHealthLiveness(t *testing.T) {
	srv, _ := setup(t, "")
	status, raw := doJSON(t, http.MethodGet, srv.URL+"/health/live", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
}
