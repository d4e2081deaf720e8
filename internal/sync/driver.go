package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/transcriptgraph/internal/data/repos"
	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the typed result of one company cycle. Exactly one of the three
// statuses applies; Err is set only for StatusFailed.
type Outcome struct {
	CompanyID int64
	Status    Status
	Err       error
	Stats     LoadStats
}

type Summary struct {
	Processed int
	Succeeded int
	Skipped   int
	Failed    int
}

// Driver composes extract → transform → stage → load for one company inside
// a single failure boundary, and runs the forward and replay passes over the
// worklist. One company at a time, strictly sequential.
type Driver struct {
	companies   repos.CompanyRepo
	extractor   *Extractor
	transformer *Transformer
	staging     *Store
	loader      *Loader
	checkpoint  *Checkpoint
	log         *logger.Logger
}

func NewDriver(
	companies repos.CompanyRepo,
	extractor *Extractor,
	transformer *Transformer,
	staging *Store,
	loader *Loader,
	checkpoint *Checkpoint,
	baseLog *logger.Logger,
) *Driver {
	return &Driver{
		companies:   companies,
		extractor:   extractor,
		transformer: transformer,
		staging:     staging,
		loader:      loader,
		checkpoint:  checkpoint,
		log:         baseLog.With("component", "Driver"),
	}
}

// ProcessCompany runs one full cycle. Nothing in here terminates the run:
// every fault is folded into the returned Outcome.
func (d *Driver) ProcessCompany(ctx context.Context, company *types.Company) Outcome {
	log := d.log.With("companyid", company.CompanyID, "company", company.Name)
	log.Info("processing company")

	rows, err := d.extractor.Extract(ctx, company.CompanyID)
	if errors.Is(err, ErrNoData) {
		log.Info("no data returned, skipping")
		return Outcome{CompanyID: company.CompanyID, Status: StatusSkipped}
	}
	if err != nil {
		return Outcome{CompanyID: company.CompanyID, Status: StatusFailed, Err: err}
	}

	batch := d.transformer.Transform(company.CompanyID, rows)
	if err := d.staging.WriteBatch(batch); err != nil {
		return Outcome{CompanyID: company.CompanyID, Status: StatusFailed, Err: err}
	}

	stats, err := d.loader.Load(ctx, batch)
	if err != nil {
		return Outcome{CompanyID: company.CompanyID, Status: StatusFailed, Err: err, Stats: stats}
	}

	log.Info("company loaded",
		"components", len(batch.Components),
		"participations", len(batch.Participations),
		"participants", len(batch.Participants),
	)
	return Outcome{CompanyID: company.CompanyID, Status: StatusSucceeded, Stats: stats}
}

// RunForward scans companies with companyid > cursor in ascending order.
// Failed companies land in the ledger; the cursor advances past every
// company whose cycle has been recorded one way or the other.
func (d *Driver) RunForward(ctx context.Context, cursor int64) (Summary, error) {
	companies, err := d.companies.ListAfter(ctx, cursor)
	if err != nil {
		return Summary{}, fmt.Errorf("list companies after %d: %w", cursor, err)
	}
	d.log.Info("forward pass starting", "cursor", cursor, "companies", len(companies))

	var summary Summary
	for _, company := range companies {
		outcome := d.ProcessCompany(ctx, company)
		d.tally(&summary, outcome)

		if outcome.Status == StatusFailed {
			d.log.Error("company failed", "companyid", outcome.CompanyID, "error", outcome.Err)
			if err := d.checkpoint.RecordFailure(outcome.CompanyID); err != nil {
				// A failure that cannot be made durable would be lost to
				// replay; that is the one fault worth stopping for.
				return summary, fmt.Errorf("record failure for company %d: %w", outcome.CompanyID, err)
			}
		}
		if err := d.checkpoint.SetCursor(company.CompanyID); err != nil {
			return summary, fmt.Errorf("advance cursor to %d: %w", company.CompanyID, err)
		}
	}

	d.logSummary("forward pass finished", summary)
	return summary, nil
}

// RunReplay processes only the unresolved ledger entries. The ledger is
// never rewritten; successes (and confirmed no-data skips) are appended to
// the resolved sidecar so the next replay ignores them.
func (d *Driver) RunReplay(ctx context.Context) (Summary, error) {
	ids, err := d.checkpoint.FailedIDs()
	if err != nil {
		return Summary{}, fmt.Errorf("read failure ledger: %w", err)
	}
	d.log.Info("replay pass starting", "companies", len(ids))

	var summary Summary
	for _, id := range ids {
		company, err := d.companies.GetByCompanyID(ctx, id)
		if err != nil {
			return summary, fmt.Errorf("fetch company %d: %w", id, err)
		}
		if company == nil {
			d.log.Warn("ledger entry has no company row, skipping", "companyid", id)
			continue
		}

		outcome := d.ProcessCompany(ctx, company)
		d.tally(&summary, outcome)

		switch outcome.Status {
		case StatusFailed:
			d.log.Error("replay failed again", "companyid", id, "error", outcome.Err)
		default:
			if err := d.checkpoint.MarkResolved(id); err != nil {
				return summary, fmt.Errorf("mark company %d resolved: %w", id, err)
			}
		}
	}

	d.logSummary("replay pass finished", summary)
	return summary, nil
}

func (d *Driver) tally(summary *Summary, outcome Outcome) {
	summary.Processed++
	switch outcome.Status {
	case StatusSucceeded:
		summary.Succeeded++
	case StatusSkipped:
		summary.Skipped++
	case StatusFailed:
		summary.Failed++
	}
}

func (d *Driver) logSummary(msg string, summary Summary) {
	d.log.Info(msg,
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
}
