package server

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

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/card"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/export"
	"github.com/joseph-ayodele/cardscan/internal/repository"
)

type memRepo struct {
	byID   map[uuid.UUID]*entity.Contact
	byHash map[string]*entity.Contact
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:   map[uuid.UUID]*entity.Contact{},
		byHash: map[string]*entity.Contact{},
	}
}

func (m *memRepo) Save(_ context.Context, c *entity.Contact) error {
	m.byID[c.ID] = c
	m.byHash[c.SourceHash] = c
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Contact, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (m *memRepo) FindBySourceHash(_ context.Context, hash string) (*entity.Contact, error) {
	c, ok := m.byHash[hash]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (m *memRepo) List(_ context.Context, _, _ *time.Time) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func newTestServer(repo *memRepo) http.Handler {
	parser := card.NewParser(nil)
	var contacts repository.ContactRepository
	var exporter *export.Service
	if repo != nil {
		contacts = repo
		exporter = export.NewService(repo, nil)
	}
	srv := New(parser, contacts, exporter, nil, 0, nil, nil)
	return srv.Routes()
}

func postExtract(t *testing.T, h http.Handler, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"text": text})
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpoint(t *testing.T) {
	h := newTestServer(newMemRepo())

	rec := postExtract(t, h, "Johnny Tsunami\nSenior Surfer\njohnny@disneychannel.com\n(123) 456-1231")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}

	var c entity.Contact
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.GetName() != "Johnny Tsunami" {
		t.Errorf("name = %q", c.GetName())
	}
	if c.GetPhoneNumber() != "1234561231" {
		t.Errorf("phone = %q", c.GetPhoneNumber())
	}
	if c.GetEmailAddress() != "johnny@disneychannel.com" {
		t.Errorf("email = %q", c.GetEmailAddress())
	}
	if c.ID == uuid.Nil {
		t.Error("id missing")
	}
}

func TestExtractEndpointBadRequests(t *testing.T) {
	h := newTestServer(newMemRepo())

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status = %d; want 400", rec.Code)
	}

	if rec := postExtract(t, h, "   "); rec.Code != http.StatusBadRequest {
		t.Errorf("blank text: status = %d; want 400", rec.Code)
	}
}

func TestExtractEndpointNoFieldsStill200(t *testing.T) {
	h := newTestServer(newMemRepo())

	rec := postExtract(t, h, "nothing recognizable here")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var c entity.Contact
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.Name != nil || c.Phone != nil || c.Email != nil {
		t.Errorf("fields should be absent: %+v", c)
	}
}

func postExtractFile(t *testing.T, h http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpointMultipart(t *testing.T) {
	h := newTestServer(newMemRepo())

	rec := postExtractFile(t, h, "card.txt", "Mike Smith\nmsmith@asymmetrik.com\n(410) 555-1234")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}
	var c entity.Contact
	if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.GetName() != "Mike Smith" || c.GetPhoneNumber() != "4105551234" {
		t.Errorf("unexpected contact: %+v", c)
	}

	if rec := postExtractFile(t, h, "scan.pdf", "binary"); rec.Code != http.StatusBadRequest {
		t.Errorf("disallowed extension: status = %d; want 400", rec.Code)
	}
	if rec := postExtractFile(t, h, "card.txt", "   "); rec.Code != http.StatusBadRequest {
		t.Errorf("blank upload: status = %d; want 400", rec.Code)
	}
}

func TestExtractEndpointDedupes(t *testing.T) {
	h := newTestServer(newMemRepo())
	text := "Mike Smith\nmsmith@asymmetrik.com\n(410) 555-1234"

	first := postExtract(t, h, text)
	second := postExtract(t, h, text)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d / %d", first.Code, second.Code)
	}

	var a, b entity.Contact
	_ = json.NewDecoder(first.Body).Decode(&a)
	_ = json.NewDecoder(second.Body).Decode(&b)
	if a.ID != b.ID {
		t.Errorf("same card produced two records: %v vs %v", a.ID, b.ID)
	}
}

func TestListContacts(t *testing.T) {
	repo := newMemRepo()
	h := newTestServer(repo)

	postExtract(t, h, "Mike Smith\nmsmith@asymmetrik.com\n(410) 555-1234")

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Contacts []*entity.Contact `json:"contacts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Contacts) != 1 {
		t.Errorf("contacts = %d; want 1", len(resp.Contacts))
	}
}

func TestListContactsBadDate(t *testing.T) {
	h := newTestServer(newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts?from=03-10-2026", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestListContactsWithoutStorage(t *testing.T) {
	h := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}
}

func TestGetContact(t *testing.T) {
	repo := newMemRepo()
	h := newTestServer(repo)

	rec := postExtract(t, h, "Mike Smith\nmsmith@asymmetrik.com\n(410) 555-1234")
	var created entity.Contact
	_ = json.NewDecoder(rec.Body).Decode(&created)

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts/"+created.ID.String(), nil)
	got := httptest.NewRecorder()
	h.ServeHTTP(got, req)
	if got.Code != http.StatusOK {
		t.Fatalf("status = %d", got.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/contacts/"+uuid.NewString(), nil)
	missing := httptest.NewRecorder()
	h.ServeHTTP(missing, req)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing contact: status = %d; want 404", missing.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/contacts/not-a-uuid", nil)
	bad := httptest.NewRecorder()
	h.ServeHTTP(bad, req)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d; want 400", bad.Code)
	}
}

func TestExportContacts(t *testing.T) {
	repo := newMemRepo()
	h := newTestServer(repo)

	postExtract(t, h, "Mike Smith\nmsmith@asymmetrik.com\n(410) 555-1234")

	req := httptest.NewRequest(http.MethodGet, "/v1/contacts/export", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status["status"] != "ok" {
		t.Errorf("status = %q", status["status"])
	}
}
