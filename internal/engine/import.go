package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/staffos-dev/provider-scheduler/backend/internal/csvio"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

type ImportMode string

const (
	// ImportBestEffort commits every row that individually succeeds and
	// reports the rest.
	ImportBestEffort ImportMode = "best_effort"
	// ImportAllOrNothing commits nothing if any row fails parsing or
	// validation.
	ImportAllOrNothing ImportMode = "all_or_nothing"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case ImportBestEffort, ImportAllOrNothing:
		return ImportMode(s), nil
	default:
		return "", fmt.Errorf("unknown import mode %q", s)
	}
}

type RowOutcome struct {
	Line      int      `json:"line"`
	Committed bool     `json:"committed"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`

	// Err carries the typed error for in-process callers; Error mirrors it
	// for the serialized report.
	Err error `json:"-"`
}

type ImportReport struct {
	BatchID   string            `json:"batchId"`
	Entity    domain.EntityType `json:"entity"`
	Mode      ImportMode        `json:"mode"`
	Committed int               `json:"committed"`
	Failed    int               `json:"failed"`
	Rows      []RowOutcome      `json:"rows"`
}

// importRow is one parsed CSV row ready for the commit path. dupKey detects
// identifiers repeated within the batch; stage records a validated row so
// later rows in an all-or-nothing batch validate against it before anything
// is committed.
type importRow struct {
	line     int
	parseErr *domain.RowError
	dupKey   string
	validate func(ctx context.Context) ([]string, error)
	stage    func()
	commit   func(ctx context.Context) error
}

// ImportCSV parses csvText for the given entity type and feeds every valid
// row through the same commit path as the interactive add operations. Rows
// are processed strictly in file order; a later row may conflict with an
// earlier row of the same batch. The returned report maps every data row to
// its outcome regardless of mode.
func (e *Engine) ImportCSV(ctx context.Context, entity domain.EntityType, r io.Reader, mode ImportMode) (*ImportReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		rows []importRow
		err  error
	)
	switch entity {
	case domain.EntityProviders:
		rows, err = e.providerImportRows(r)
	case domain.EntityClients:
		rows, err = e.clientImportRows(r)
	case domain.EntityCredentials:
		rows, err = e.credentialImportRows(r)
	case domain.EntityShifts:
		rows, err = e.shiftImportRows(r)
	default:
		return nil, fmt.Errorf("unknown entity type %q", entity)
	}
	if err != nil {
		return nil, err
	}

	return e.runImport(ctx, entity, mode, rows)
}

func (e *Engine) runImport(ctx context.Context, entity domain.EntityType, mode ImportMode, rows []importRow) (*ImportReport, error) {
	report := &ImportReport{
		BatchID: uuid.New().String(),
		Entity:  entity,
		Mode:    mode,
		Rows:    make([]RowOutcome, 0, len(rows)),
	}

	seen := make(map[string]bool)
	check := func(ctx context.Context, row importRow) ([]string, error) {
		if row.parseErr != nil {
			return nil, row.parseErr
		}
		if seen[row.dupKey] {
			return nil, &domain.RowError{Line: row.line, Reason: fmt.Sprintf("identifier %s repeated within import batch", row.dupKey)}
		}
		seen[row.dupKey] = true
		return row.validate(ctx)
	}

	switch mode {
	case ImportBestEffort:
		for _, row := range rows {
			warnings, err := check(ctx, row)
			if err == nil {
				err = row.commit(ctx)
			}
			report.record(row.line, warnings, err)
		}

	case ImportAllOrNothing:
		failed := false
		outcomes := make([]RowOutcome, 0, len(rows))
		for _, row := range rows {
			warnings, err := check(ctx, row)
			if err != nil {
				failed = true
			} else if row.stage != nil {
				row.stage()
			}
			outcomes = append(outcomes, RowOutcome{Line: row.line, Warnings: warnings, Err: err})
		}

		if failed {
			// nothing commits; rows that passed validation are reported as
			// uncommitted without an error of their own
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					outcome.Error = outcome.Err.Error()
					report.Failed++
				}
				report.Rows = append(report.Rows, outcome)
			}
			return report, nil
		}

		for i, row := range rows {
			report.record(row.line, outcomes[i].Warnings, row.commit(ctx))
		}

	default:
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	return report, nil
}

func (r *ImportReport) record(line int, warnings []string, err error) {
	outcome := RowOutcome{
		Line:      line,
		Committed: err == nil,
		Warnings:  warnings,
		Err:       err,
	}
	if err != nil {
		outcome.Error = err.Error()
		r.Failed++
	} else {
		r.Committed++
	}
	r.Rows = append(r.Rows, outcome)
}

func (e *Engine) providerImportRows(r io.Reader) ([]importRow, error) {
	parsed, err := csvio.ParseProviders(r)
	if err != nil {
		return nil, err
	}

	rows := make([]importRow, 0, len(parsed))
	for _, row := range parsed {
		if row.Err != nil {
			rows = append(rows, importRow{line: row.Line, parseErr: row.Err})
			continue
		}
		p := row.Provider
		rows = append(rows, importRow{
			line:     row.Line,
			dupKey:   strconv.FormatInt(p.ID, 10),
			validate: func(context.Context) ([]string, error) { return nil, nil },
			commit:   func(ctx context.Context) error { return e.store.PutProvider(ctx, p) },
		})
	}
	return rows, nil
}

func (e *Engine) clientImportRows(r io.Reader) ([]importRow, error) {
	parsed, err := csvio.ParseClients(r)
	if err != nil {
		return nil, err
	}

	rows := make([]importRow, 0, len(parsed))
	for _, row := range parsed {
		if row.Err != nil {
			rows = append(rows, importRow{line: row.Line, parseErr: row.Err})
			continue
		}
		c := row.Client
		rows = append(rows, importRow{
			line:     row.Line,
			dupKey:   strconv.FormatInt(c.ID, 10),
			validate: func(context.Context) ([]string, error) { return nil, nil },
			commit:   func(ctx context.Context) error { return e.store.PutClient(ctx, c) },
		})
	}
	return rows, nil
}

func (e *Engine) credentialImportRows(r io.Reader) ([]importRow, error) {
	parsed, err := csvio.ParseCredentials(r)
	if err != nil {
		return nil, err
	}

	rows := make([]importRow, 0, len(parsed))
	for _, row := range parsed {
		if row.Err != nil {
			rows = append(rows, importRow{line: row.Line, parseErr: row.Err})
			continue
		}
		c := row.Credential
		rows = append(rows, importRow{
			line:   row.Line,
			dupKey: fmt.Sprintf("%d/%d", c.ProviderID, c.ClientID),
			validate: func(ctx context.Context) ([]string, error) {
				if _, err := e.store.GetProvider(ctx, c.ProviderID); err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return nil, &domain.ReferenceError{Entity: domain.EntityProviders, ID: c.ProviderID}
					}
					return nil, err
				}
				if _, err := e.store.GetClient(ctx, c.ClientID); err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return nil, &domain.ReferenceError{Entity: domain.EntityClients, ID: c.ClientID}
					}
					return nil, err
				}
				return nil, nil
			},
			commit: func(ctx context.Context) error { return e.store.PutCredential(ctx, c) },
		})
	}
	return rows, nil
}

func (e *Engine) shiftImportRows(r io.Reader) ([]importRow, error) {
	parsed, err := csvio.ParseShifts(r)
	if err != nil {
		return nil, err
	}

	// staged collects rows already validated in an all-or-nothing batch; in
	// best-effort mode earlier rows are committed before later ones validate,
	// so the store itself carries them and staged stays empty.
	staged := make([]*domain.Shift, 0)

	rows := make([]importRow, 0, len(parsed))
	for _, row := range parsed {
		if row.Err != nil {
			rows = append(rows, importRow{line: row.Line, parseErr: row.Err})
			continue
		}
		sh := row.Shift
		rows = append(rows, importRow{
			line:   row.Line,
			dupKey: strconv.FormatInt(sh.ID, 10),
			validate: func(ctx context.Context) ([]string, error) {
				warnings, err := e.validator.Validate(ctx, sh)
				if err != nil {
					return nil, err
				}
				for _, earlier := range staged {
					if earlier.ProviderID == sh.ProviderID && sh.Overlaps(earlier) {
						return nil, &domain.OverlapError{
							ProviderID:    sh.ProviderID,
							ShiftID:       sh.ID,
							ConflictsWith: earlier.ID,
						}
					}
				}
				return warnings, nil
			},
			stage:  func() { staged = append(staged, sh) },
			commit: func(ctx context.Context) error { return e.store.PutShift(ctx, sh) },
		})
	}
	return rows, nil
}
