package jobapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/httpx"
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/Abraxas-365/hirehub/recruitment/candidate/candidateauth"
	"github.com/Abraxas-365/hirehub/recruitment/job"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobinfra"
	"github.com/Abraxas-365/hirehub/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

type fakeResolver struct {
	lastCandidate kernel.CandidateID
}

func (f *fakeResolver) Resolve(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*application.StatusResolution, error) {
	f.lastCandidate = candidateID
	status := application.ApplicantNotApplied
	if candidateID.IsEmpty() {
		status = application.ApplicantNotAuthenticated
	}
	return &application.StatusResolution{JobID: jobID, JobStatus: "open", ApplicantStatus: status}, nil
}

type testServer struct {
	app      *fiber.App
	tokens   *auth.JWTService
	service  *jobsrv.JobService
	resolver *fakeResolver
}

func newTestServer() *testServer {
	tokens := auth.NewJWTService("test-secret", "hirehub")
	service := jobsrv.NewJobService(jobinfra.NewMemoryJobRepository(), nil)
	resolver := &fakeResolver{}

	app := httpx.NewApp("jobapi-test")
	RegisterRoutes(app, NewHandlers(service, resolver), auth.NewAuthMiddleware(tokens),
		candidateauth.NewCandidateTokenService(tokens, time.Hour))

	return &testServer{app: app, tokens: tokens, service: service, resolver: resolver}
}

func (s *testServer) operatorToken(t *testing.T, scopes ...string) string {
	t.Helper()
	token, err := s.tokens.GenerateAccessToken("op-1", auth.SubjectOperator, scopes, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
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

func TestCreateJobRequiresWriteScope(t *testing.T) {
	s := newTestServer()
	body := `{"title":"Backend Engineer","type":"engineering","salary_range":"20-30k"}`

	if resp := s.do(t, http.MethodPost, "/api/jobs", "", body); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", resp.StatusCode)
	}
	if resp := s.do(t, http.MethodPost, "/api/jobs", s.operatorToken(t, auth.ScopeJobsRead), body); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("read-only create: expected 403, got %d", resp.StatusCode)
	}

	resp := s.do(t, http.MethodPost, "/api/jobs", s.operatorToken(t, auth.ScopeJobsWrite), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created job.JobResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != job.JobStatusOpen || created.Title != "Backend Engineer" {
		t.Fatalf("unexpected job %+v", created)
	}
}

func TestCreateJobValidatesBody(t *testing.T) {
	s := newTestServer()
	resp := s.do(t, http.MethodPost, "/api/jobs", s.operatorToken(t, auth.ScopeJobsAll), `{"type":"engineering"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["code"] != string(job.CodeValidationFailed) {
		t.Fatalf("expected validation failure, got %v", body)
	}
}

func TestGetJobEmbedsViewerStatus(t *testing.T) {
	s := newTestServer()
	created, err := s.service.CreateJob(context.Background(), job.CreateJobRequest{
		Title: "Designer", Type: "design", SalaryRange: "10-15k",
	}, "op-1")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	resp := s.do(t, http.MethodGet, "/api/jobs/"+created.ID.String(), "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var detail JobDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Status.ApplicantStatus != application.ApplicantNotAuthenticated {
		t.Fatalf("anonymous viewer: got %s", detail.Status.ApplicantStatus)
	}

	candidateToken, _ := s.tokens.GenerateAccessToken("cand-7", auth.SubjectCandidate, nil, time.Hour)
	resp = s.do(t, http.MethodGet, "/api/jobs/"+created.ID.String(), candidateToken, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if s.resolver.lastCandidate != "cand-7" {
		t.Fatalf("expected resolver to see cand-7, got %q", s.resolver.lastCandidate)
	}

	// an operator token is not a candidate session; the page stays anonymous
	s.do(t, http.MethodGet, "/api/jobs/"+created.ID.String(), s.operatorToken(t, auth.ScopeAll), "")
	if !s.resolver.lastCandidate.IsEmpty() {
		t.Fatalf("operator token must not identify a candidate, got %q", s.resolver.lastCandidate)
	}
}

func TestCloseAndReopenJob(t *testing.T) {
	s := newTestServer()
	created, _ := s.service.CreateJob(context.Background(), job.CreateJobRequest{
		Title: "Analyst", Type: "data", SalaryRange: "8-12k",
	}, "op-1")
	token := s.operatorToken(t, auth.ScopeJobsWrite)

	if resp := s.do(t, http.MethodPost, "/api/jobs/"+created.ID.String()+"/close", token, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("close: expected 200, got %d", resp.StatusCode)
	}
	if resp := s.do(t, http.MethodPost, "/api/jobs/"+created.ID.String()+"/close", token, ""); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second close: expected 409, got %d", resp.StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/jobs", "", "")
	var page job.PaginatedJobsResponse
	_ = json.NewDecoder(resp.Body).Decode(&page)
	if len(page.Items) != 0 {
		t.Fatalf("closed job must not be listed, got %d", len(page.Items))
	}

	if resp := s.do(t, http.MethodPost, "/api/jobs/"+created.ID.String()+"/reopen", token, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("reopen: expected 200, got %d", resp.StatusCode)
	}
}
