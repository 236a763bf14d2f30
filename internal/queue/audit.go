package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AuditLog appends one human-readable line per event to a file, by default
// logs/roster.log.  It is safe for concurrent use by several queues.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

func NewAuditLog(path string) *AuditLog { return &AuditLog{path: path} }

// Handlers returns the consumer handlers for every queue the log records.
func (a *AuditLog) Handlers() map[string]Handler {
	return map[string]Handler{
		RosterChangedQueue:    a.RosterChanged,
		SuspensionIssuedQueue: a.SuspensionIssued,
	}
}

func (a *AuditLog) RosterChanged(_ context.Context, body []byte) error {
	var ev RosterChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Roster changed | reservation_id=%d | pitch=%q | kickoff=%s %s | outcome=%s | user_id=%d | actor_id=%d | promoted=%d | status=%s | lineup=%d/%d | waitlist=%d\n",
		ev.OccurredAt, ev.ReservationID, ev.PitchName, ev.Date, ev.StartTime, ev.Outcome,
		ev.UserID, ev.ActorID, ev.Promoted, ev.Status, ev.LineupSize, ev.MaxPlayers, ev.WaitlistSize)
	return a.append(line)
}

func (a *AuditLog) SuspensionIssued(_ context.Context, body []byte) error {
	var ev SuspensionIssuedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Suspension issued | suspension_id=%s | user_id=%d | reservation_id=%d | days=%d | until=%s | issued_by=%d | reason=%q\n",
		ev.IssuedAt, ev.SuspensionID, ev.UserID, ev.ReservationID, ev.Days, ev.ExpiresAt, ev.IssuedBy, ev.Reason)
	return a.append(line)
}

func (a *AuditLog) append(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
