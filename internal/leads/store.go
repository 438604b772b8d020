// Package leads stores and serves admission leads captured from voice
// calls and manual entry.
package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/voicedesk/internal/db"
)

// ErrDuplicateCall is returned when a lead already exists for a call.
var ErrDuplicateCall = errors.New("lead already recorded for this call")

// Lead is one admission enquiry. Source records how it was captured:
// the voice tool flow, the transcript fallback, a Vapi backfill, or
// the web form.
type Lead struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullName"`
	Age               string    `json:"age"`
	TwelfthPercentage string    `json:"twelfthPercentage"`
	Course            string    `json:"course"`
	City              string    `json:"city"`
	Phone             string    `json:"phone"`
	CallID            string    `json:"callId,omitempty"`
	Source            string    `json:"source"`
	Transcript        string    `json:"transcript,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ListFilter narrows the lead listing.
type ListFilter struct {
	From   string // inclusive date, YYYY-MM-DD or RFC 3339
	To     string // inclusive date
	Search string
	Limit  int
}

// Store persists admission leads.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Insert saves a lead. A lead whose call ID is already recorded fails
// with ErrDuplicateCall; leads without a call ID are never deduped.
func (s *Store) Insert(ctx context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Source == "" {
		lead.Source = "voice"
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admission_leads (id, full_name, age, twelfth_percentage, course, city, phone, call_id, source, transcript, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.FullName, lead.Age, lead.TwelfthPercentage, lead.Course, lead.City,
		lead.Phone, lead.CallID, lead.Source, lead.Transcript, lead.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateCall
		}
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

// FindByCallID returns the lead for a call, or nil.
func (s *Store) FindByCallID(ctx context.Context, callID string) (*Lead, error) {
	if callID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, age, twelfth_percentage, course, city, phone, call_id, source, transcript, created_at
		 FROM admission_leads WHERE call_id = ?`, callID)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding lead by call: %w", err)
	}
	return lead, nil
}

// List returns leads matching the filter, newest first, plus the total
// match count before the limit.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Lead, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admission_leads`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting leads: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, age, twelfth_percentage, course, city, phone, call_id, source, transcript, created_at
		 FROM admission_leads`+where+` ORDER BY created_at DESC LIMIT ?`,
		append(args, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, total, rows.Err()
}

func buildFilter(f ListFilter) (string, []any) {
	var clauses []string
	var args []any
	if f.From != "" {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		// Bare dates cover the whole day.
		to := f.To
		if !strings.Contains(to, "T") && !strings.Contains(to, " ") {
			to += "T23:59:59.999Z"
		}
		clauses = append(clauses, "created_at <= ?")
		args = append(args, to)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		clauses = append(clauses,
			"(LOWER(full_name) LIKE ? OR LOWER(course) LIKE ? OR LOWER(city) LIKE ? OR LOWER(phone) LIKE ?)")
		args = append(args, like, like, like, like)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.FullName, &l.Age, &l.TwelfthPercentage, &l.Course, &l.City,
		&l.Phone, &l.CallID, &l.Source, &l.Transcript, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
