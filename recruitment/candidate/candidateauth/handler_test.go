package candidateauth

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/hirehub/pkg/httpx"
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/hirehub/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/hirehub/recruitment/candidate"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobinfra"
	"github.com/gofiber/fiber/v2"
)

type candidateServer struct {
	app  *fiber.App
	jobs *jobinfra.MemoryJobRepository
}

func newCandidateServer(t *testing.T) *candidateServer {
	t.Helper()

	tokens := NewCandidateTokenService(auth.NewJWTService("test-secret", "hirehub"), time.Hour)
	candidates := candidateinfra.NewMemoryCandidateRepository()
	jobs := jobinfra.NewMemoryJobRepository()
	store := applicationinfra.NewMemoryStore()

	candidateService := candidatesrv.NewCandidateService(candidates, fsxmem.New(), nil)
	projector := applicationsrv.NewProjector(store.Applications(), store.Views(), candidates, jobs)
	applicationService := applicationsrv.NewApplicationService(store.Applications(), store.Views(), jobs, projector, nil)
	delivery := applicationsrv.NewDeliveryService(store.Deliveries(candidates, jobs), applicationsrv.DeliveryLimits{})

	handlers := NewHandlers(
		NewCandidateAuthService(candidateinfra.NewDevIdentityProvider(), candidateService, tokens),
		candidateService,
		applicationService,
		delivery,
		applicationinfra.NewMemorySubmitGuard(time.Minute),
	)

	app := httpx.NewApp("candidateauth-test")
	RegisterRoutes(app, handlers, Middleware(tokens))
	return &candidateServer{app: app, jobs: jobs}
}

func (s *candidateServer) send(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (s *candidateServer) register(t *testing.T, subject, name string) candidate.CandidateSession {
	t.Helper()
	resp := s.send(t, http.MethodPost, "/api/auth/register", "", `{"code":"dev-`+subject+`","name":"`+name+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	var session candidate.CandidateSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func (s *candidateServer) openJob(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	err := s.jobs.Create(context.Background(), &job.Job{
		ID: kernel.JobID(id), Title: "Engineer", Type: "engineering", SalaryRange: "10-20k",
		Status: job.JobStatusOpen, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
}

func TestLoginBeforeRegistration(t *testing.T) {
	s := newCandidateServer(t)

	resp := s.send(t, http.MethodPost, "/api/auth/login", "", `{"code":"dev-alice"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 not registered, got %d", resp.StatusCode)
	}

	s.register(t, "alice", "Alice")
	resp = s.send(t, http.MethodPost, "/api/auth/login", "", `{"code":"dev-alice"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login after registration: expected 200, got %d", resp.StatusCode)
	}

	if resp := s.send(t, http.MethodPost, "/api/auth/login", "", `{"code":"bogus"}`); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad code: expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginRefreshesProfileFields(t *testing.T) {
	s := newCandidateServer(t)
	s.register(t, "bob", "Bob")

	resp := s.send(t, http.MethodPost, "/api/auth/login", "",
		`{"code":"dev-bob","name":"Bobby","avatar_url":"https://cdn.example.com/bob.png","phone":"13900000000"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var session candidate.CandidateSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Profile.Name != "Bobby" || session.Profile.AvatarURL != "https://cdn.example.com/bob.png" || session.Profile.Phone != "13900000000" {
		t.Fatalf("login should refresh the profile, got %+v", session.Profile)
	}

	if resp := s.send(t, http.MethodPost, "/api/auth/login", "", `{"code":"dev-bob","phone":"123"}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid phone on login: expected 400, got %d", resp.StatusCode)
	}

	resp = s.send(t, http.MethodPost, "/api/auth/login", "", `{"code":"dev-bob"}`)
	session = candidate.CandidateSession{}
	_ = json.NewDecoder(resp.Body).Decode(&session)
	if session.Profile.Name != "Bobby" {
		t.Fatalf("a bare login must leave the profile alone, got %q", session.Profile.Name)
	}
}

func TestProfileRequiresSession(t *testing.T) {
	s := newCandidateServer(t)
	if resp := s.send(t, http.MethodGet, "/api/me", "", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	session := s.register(t, "bob", "Bob")
	resp := s.send(t, http.MethodPatch, "/api/me", session.Token, `{"region":"Hangzhou"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch profile: expected 200, got %d", resp.StatusCode)
	}
	var profile candidate.CandidateResponse
	_ = json.NewDecoder(resp.Body).Decode(&profile)
	if profile.Region != "Hangzhou" || profile.Name != "Bob" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestApplyDebounceListAndWithdraw(t *testing.T) {
	s := newCandidateServer(t)
	session := s.register(t, "carol", "Carol")
	s.openJob(t, "job-1")

	resp := s.send(t, http.MethodPost, "/api/me/applications", session.Token, `{"job_id":"job-1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("apply: expected 201, got %d", resp.StatusCode)
	}

	// same pair inside the debounce window
	resp = s.send(t, http.MethodPost, "/api/me/applications", session.Token, `{"job_id":"job-1"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("double submit: expected 429, got %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["code"] != string(application.CodeSubmitInProgress) {
		t.Fatalf("expected submit in progress, got %v", body)
	}

	resp = s.send(t, http.MethodGet, "/api/me/applications", session.Token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var page application.CandidateDeliveryPage
	_ = json.NewDecoder(resp.Body).Decode(&page)
	if page.Total != 1 || len(page.Rows) != 1 || page.Rows[0].JobID != "job-1" || page.PageSize != 10 {
		t.Fatalf("unexpected page %+v", page)
	}

	if resp := s.send(t, http.MethodDelete, "/api/me/applications/job-1", session.Token, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("withdraw: expected 204, got %d", resp.StatusCode)
	}
	if resp := s.send(t, http.MethodDelete, "/api/me/applications/job-1", session.Token, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second withdraw: expected 404, got %d", resp.StatusCode)
	}
}

func TestFailedApplyReleasesGuard(t *testing.T) {
	s := newCandidateServer(t)
	session := s.register(t, "dave", "Dave")

	if resp := s.send(t, http.MethodPost, "/api/me/applications", session.Token, `{"job_id":"job-9"}`); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown job: expected 404, got %d", resp.StatusCode)
	}

	s.openJob(t, "job-9")
	if resp := s.send(t, http.MethodPost, "/api/me/applications", session.Token, `{"job_id":"job-9"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("retry after failure: expected 201, got %d", resp.StatusCode)
	}
}

func TestUploadTempResume(t *testing.T) {
	s := newCandidateServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("resume", "cv.pdf")
	_, _ = part.Write([]byte("%PDF-1.4"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/resume", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if !strings.HasPrefix(body["file_id"], "tmp/") {
		t.Fatalf("unexpected file id %q", body["file_id"])
	}
}
