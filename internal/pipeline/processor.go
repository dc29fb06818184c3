// Package pipeline orchestrates the card stages: load + extract, dedupe,
// persist. Jobs arrive from the drop-folder watcher via the async queue.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/cardscan/internal/async"
	"github.com/joseph-ayodele/cardscan/internal/card"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/repository"
)

type Processor struct {
	Parser       *card.Parser
	ContactsRepo repository.ContactRepository
	Logger       *slog.Logger
}

func NewProcessor(parser *card.Parser, repo repository.ContactRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Parser: parser, ContactsRepo: repo, Logger: logger}
}

// Process parses one card file and stores the contact. Cards whose content
// hash is already stored are skipped unless the job is forced.
func (p *Processor) Process(ctx context.Context, job async.Job) error {
	c, err := p.Parser.GetContactInfo(ctx, job.Path)
	if err != nil {
		return fmt.Errorf("parse card: %w", err)
	}

	if !job.Force {
		existing, err := p.ContactsRepo.FindBySourceHash(ctx, c.SourceHash)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("dedupe lookup: %w", err)
		}
		if existing != nil {
			p.Logger.Info("card already ingested",
				"path", job.Path, "contact_id", existing.ID, "source_hash", c.SourceHash)
			return nil
		}
	}

	if err := p.ContactsRepo.Save(ctx, c); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}

	p.Logger.Info("card ingested",
		"path", job.Path,
		"contact_id", c.ID,
		"name", c.GetName(),
		"phone", c.GetPhoneNumber(),
		"email", c.GetEmailAddress(),
		"confidence", c.Confidence,
	)
	return nil
}
