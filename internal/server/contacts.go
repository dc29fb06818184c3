package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/cache"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/ingest"
	"github.com/joseph-ayodele/cardscan/internal/schema"
	"github.com/joseph-ayodele/cardscan/internal/utils"
)

// maxCardUpload bounds multipart card uploads; OCR transcriptions are tiny.
const maxCardUpload = 1 << 20

type extractRequest struct {
	Text string `json:"text"`
}

// handleExtract runs the extraction heuristics over an OCR transcription,
// posted either as {"text": "..."} or as a multipart card file upload.
// Extraction misses are not errors: a card with no recognizable fields
// still returns 200 with the fields absent.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	text, ok := s.extractInput(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	key := cache.Key(ingest.HashText(text))
	if s.cache != nil {
		var cached entity.Contact
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.logger.Debug("extract served from cache", "key", key)
			s.respondJSON(w, http.StatusOK, &cached)
			return
		}
	}

	c := s.parser.ExtractText(text)

	payload, err := json.Marshal(c)
	if err != nil {
		common.InternalError(w, "encode contact")
		return
	}
	if err := schema.ValidateContact(payload); err != nil {
		s.logger.Error("extraction result failed schema validation", "error", err)
		common.InternalError(w, "extraction result invalid")
		return
	}

	if s.contacts != nil {
		if existing, err := s.contacts.FindBySourceHash(ctx, c.SourceHash); err == nil {
			s.logger.Info("card already extracted", "contact_id", existing.ID)
			s.respondJSON(w, http.StatusOK, existing)
			return
		} else if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("dedupe lookup failed", "error", err)
			common.InternalError(w, "storage failure")
			return
		}
		if err := s.contacts.Save(ctx, c); err != nil {
			s.logger.Error("failed to save contact", "contact_id", c.ID, "error", err)
			common.InternalError(w, "storage failure")
			return
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, c, s.cacheTTL); err != nil {
			s.logger.Warn("cache set failed", "key", key, "error", err)
		}
	}

	s.logger.Info("card extracted",
		"contact_id", c.ID,
		"name_found", c.Name != nil,
		"phone_found", c.Phone != nil,
		"email_found", c.Email != nil,
		"confidence", c.Confidence,
	)
	s.respondJSON(w, http.StatusOK, c)
}

// extractInput pulls the card text out of the request: either a JSON body
// with a text field, or a multipart upload under "file". Writes the error
// response itself and returns ok=false on bad input.
func (s *Server) extractInput(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCardUpload); err != nil {
			common.InvalidArgumentError(w, "malformed multipart body")
			return "", false
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			common.InvalidArgumentError(w, "multipart body must carry a file field")
			return "", false
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				s.logger.Warn("close upload", "error", cerr)
			}
		}()
		if !ingest.AllowedExt(filepath.Ext(hdr.Filename)) {
			common.InvalidArgumentErrorf(w, "unsupported card file type %q", filepath.Ext(hdr.Filename))
			return "", false
		}
		data, err := io.ReadAll(io.LimitReader(f, maxCardUpload))
		if err != nil {
			common.InternalError(w, "read upload")
			return "", false
		}
		if strings.TrimSpace(string(data)) == "" {
			common.InvalidArgumentError(w, "card file is empty")
			return "", false
		}
		return string(data), true
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.InvalidArgumentError(w, "body must be JSON with a text field")
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		common.InvalidArgumentError(w, "text is required")
		return "", false
	}
	return req.Text, true
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	if s.contacts == nil {
		common.UnavailableError(w, "contact storage is not configured")
		return
	}

	fromDate, toDate, err := dateWindow(r)
	if err != nil {
		common.InvalidArgumentError(w, err.Error())
		return
	}

	contacts, err := s.contacts.List(r.Context(), fromDate, toDate)
	if err != nil {
		s.logger.Error("failed to list contacts", "error", err)
		common.InternalError(w, "list contacts")
		return
	}
	if contacts == nil {
		contacts = []*entity.Contact{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	if s.contacts == nil {
		common.UnavailableError(w, "contact storage is not configured")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.InvalidArgumentError(w, "id must be a UUID")
		return
	}

	c, err := s.contacts.GetByID(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		common.NotFoundError(w, "contact not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get contact", "contact_id", id, "error", err)
		common.InternalError(w, "get contact")
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleExportContacts(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		common.UnavailableError(w, "contact storage is not configured")
		return
	}

	fromDate, toDate, err := dateWindow(r)
	if err != nil {
		common.InvalidArgumentError(w, err.Error())
		return
	}

	data, err := s.exporter.ExportContactsXLSX(r.Context(), fromDate, toDate)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		common.InternalError(w, "export contacts")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "contacts-"+time.Now().UTC().Format("20060102")+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write export response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			s.respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	s.respondJSON(w, http.StatusOK, status)
}

func dateWindow(r *http.Request) (fromDate, toDate *time.Time, err error) {
	if fd := strings.TrimSpace(r.URL.Query().Get("from")); fd != "" {
		from, perr := utils.ParseYMD(fd)
		if perr != nil {
			return nil, nil, fmt.Errorf("from invalid (YYYY-MM-DD): %v", perr)
		}
		fromDate = &from
	}
	if td := strings.TrimSpace(r.URL.Query().Get("to")); td != "" {
		to, perr := utils.ParseYMD(td)
		if perr != nil {
			return nil, nil, fmt.Errorf("to invalid (YYYY-MM-DD): %v", perr)
		}
		// inclusive upper bound
		end := to.Add(24*time.Hour - time.Nanosecond)
		toDate = &end
	}
	return fromDate, toDate, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}
