// Package calls records finished calls and serves the admin call
// history, merging local logs with the voice platform's records.
package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/transcript"
)

// Log is one finished call.
type Log struct {
	ID              string               `json:"id"`
	CallID          string               `json:"callId"`
	CallerNumber    string               `json:"callerNumber"`
	CallType        string               `json:"callType"`
	EndedReason     string               `json:"endedReason"`
	StartTime       time.Time            `json:"startTime"`
	EndTime         time.Time            `json:"endTime"`
	Duration        int                  `json:"duration"`
	Transcript      []transcript.Message `json:"transcript"`
	Summary         string               `json:"summary"`
	EnquiryType     string               `json:"enquiryType"`
	Outcome         string               `json:"outcome"`
	AutomationEmail bool                 `json:"automationEmail"`
	AutomationSMS   bool                 `json:"automationSms"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ListFilter narrows the call history.
type ListFilter struct {
	CallType string
	From     string
	To       string
}

// DailyStat is one day's aggregate for the analytics view.
type DailyStat struct {
	Date        string  `json:"date"`
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avgDuration"`
}

// Store persists call logs.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Insert saves a call log. The call ID must be unique; the webhook
// handler relies on this to keep one log per platform call.
func (s *Store) Insert(ctx context.Context, l *Log) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CallType == "" {
		l.CallType = "Web"
	}
	if l.EndedReason == "" {
		l.EndedReason = "Customer Ended Call"
	}
	if l.EnquiryType == "" {
		l.EnquiryType = "general"
	}
	if l.Outcome == "" {
		l.Outcome = "answered"
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.Transcript == nil {
		l.Transcript = []transcript.Message{}
	}
	encoded, err := json.Marshal(l.Transcript)
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO call_logs (id, call_id, caller_number, call_type, ended_reason, start_time, end_time,
		                        duration, transcript, summary, enquiry_type, outcome,
		                        automation_email, automation_sms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CallID, l.CallerNumber, l.CallType, l.EndedReason, l.StartTime, l.EndTime,
		l.Duration, string(encoded), l.Summary, l.EnquiryType, l.Outcome,
		l.AutomationEmail, l.AutomationSMS, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting call log: %w", err)
	}
	return nil
}

// SetAutomationSMS flags that the post-call SMS went out.
func (s *Store) SetAutomationSMS(ctx context.Context, callID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE call_logs SET automation_sms = 1 WHERE call_id = ?`, callID)
	if err != nil {
		return fmt.Errorf("flagging sms automation: %w", err)
	}
	return nil
}

// GetByCallID returns the log for a call, or nil.
func (s *Store) GetByCallID(ctx context.Context, callID string) (*Log, error) {
	row := s.db.QueryRowContext(ctx, selectLogs+` WHERE call_id = ?`, callID)
	l, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading call log: %w", err)
	}
	return l, nil
}

// List returns logs matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Log, error) {
	var clauses []string
	var args []any
	if f.CallType == "Inbound" || f.CallType == "Web" {
		clauses = append(clauses, "call_type = ?")
		args = append(args, f.CallType)
	}
	if f.From != "" {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "start_time <= ?")
		args = append(args, f.To)
	}
	query := selectLogs
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_time DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing call logs: %w", err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning call log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// Analytics returns per-day call counts and average durations,
// oldest day first.
func (s *Store) Analytics(ctx context.Context) ([]DailyStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date(start_time), COUNT(*), AVG(duration)
		 FROM call_logs WHERE start_time IS NOT NULL
		 GROUP BY date(start_time) ORDER BY date(start_time)`)
	if err != nil {
		return nil, fmt.Errorf("aggregating call logs: %w", err)
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var st DailyStat
		if err := rows.Scan(&st.Date, &st.Count, &st.AvgDuration); err != nil {
			return nil, fmt.Errorf("scanning daily stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

const selectLogs = `SELECT id, call_id, caller_number, call_type, ended_reason, start_time, end_time,
       duration, transcript, summary, enquiry_type, outcome, automation_email, automation_sms, created_at
FROM call_logs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*Log, error) {
	var l Log
	var encoded string
	var start, end sql.NullTime
	err := row.Scan(&l.ID, &l.CallID, &l.CallerNumber, &l.CallType, &l.EndedReason, &start, &end,
		&l.Duration, &encoded, &l.Summary, &l.EnquiryType, &l.Outcome,
		&l.AutomationEmail, &l.AutomationSMS, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.StartTime = start.Time
	l.EndTime = end.Time
	if err := json.Unmarshal([]byte(encoded), &l.Transcript); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}
	return &l, nil
}
