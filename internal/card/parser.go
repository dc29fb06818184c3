// Package card is the public facade over the extraction core: it loads a
// transcribed business card and returns the contact record found on it.
package card

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/extract"
	"github.com/joseph-ayodele/cardscan/internal/ingest"
	"github.com/joseph-ayodele/cardscan/internal/ocr"
)

type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// GetContactInfo loads the card file at path and extracts contact fields
// from it. File-access errors surface to the caller; extraction itself
// never fails, missing fields are simply absent on the returned record.
func (p *Parser) GetContactInfo(ctx context.Context, path string) (*entity.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := ingest.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("load card %q: %w", path, err)
	}

	c := contactFromFields(extract.Extract(lines))
	c.SourcePath = path
	c.SourceHash = ingest.HashText(strings.Join(lines, "\n"))

	p.logger.Debug("card parsed",
		"path", path,
		"name_found", c.Name != nil,
		"phone_found", c.Phone != nil,
		"email_found", c.Email != nil,
		"confidence", c.Confidence,
	)
	return c, nil
}

// ExtractText runs the extraction heuristics over an already-loaded OCR
// transcription. Pure except for ID and timestamp assignment.
func (p *Parser) ExtractText(text string) *entity.Contact {
	lines := ocr.SplitLines(text)
	c := contactFromFields(extract.Extract(lines))
	c.SourceHash = ingest.HashText(strings.Join(lines, "\n"))
	return c
}

func contactFromFields(f extract.ContactFields) *entity.Contact {
	c := &entity.Contact{
		ID:         uuid.New(),
		Confidence: f.Confidence,
		CreatedAt:  time.Now().UTC(),
	}
	if f.Name != "" {
		c.Name = &f.Name
	}
	if f.Phone != "" {
		c.Phone = &f.Phone
	}
	if f.Email != "" {
		c.Email = &f.Email
	}
	return c
}
