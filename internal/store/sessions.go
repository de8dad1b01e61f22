package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const sessionColumns = `id, user_id, type, task_name, duration_planned,
	duration_actual, pause_count, focus_score, completed_at, group_id, group_index`

// InsertSession inserts a completed session row.
func (db *DB) InsertSession(s *Session) error {
	_, err := db.conn.Exec(
		`INSERT INTO sessions
		(id, user_id, type, task_name, duration_planned, duration_actual,
		 pause_count, focus_score, completed_at, group_id, group_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, string(s.Type), s.TaskName, s.DurationPlanned,
		s.DurationActual, s.PauseCount, s.FocusScore,
		s.CompletedAt.UTC().Format(time.RFC3339), nullable(s.GroupID), s.GroupIndex,
	)
	return err
}

// CreateSessionWithStats inserts a session and upserts the user's stats
// row in a single transaction, so a stats failure does not leave an
// orphaned session behind.
func (db *DB) CreateSessionWithStats(s *Session, stats *UserStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO sessions
		(id, user_id, type, task_name, duration_planned, duration_actual,
		 pause_count, focus_score, completed_at, group_id, group_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, string(s.Type), s.TaskName, s.DurationPlanned,
		s.DurationActual, s.PauseCount, s.FocusScore,
		s.CompletedAt.UTC().Format(time.RFC3339), nullable(s.GroupID), s.GroupIndex,
	); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	if err := upsertUserStats(tx, stats); err != nil {
		return fmt.Errorf("updating user stats: %w", err)
	}

	return tx.Commit()
}

// RecentSessions returns up to limit sessions for the user, most recent
// first.
func (db *DB) RecentSessions(userID string, limit int) ([]Session, error) {
	rows, err := db.conn.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = ? ORDER BY completed_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// SessionsInRange returns the user's sessions completed in [start, end],
// oldest first.
func (db *DB) SessionsInRange(userID string, start, end time.Time) ([]Session, error) {
	rows, err := db.conn.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = ? AND completed_at >= ? AND completed_at <= ?
		 ORDER BY completed_at ASC`,
		userID, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// SessionsByGroup returns the sibling rows of a multi-task session,
// ordered by their index within the group.
func (db *DB) SessionsByGroup(groupID string) ([]Session, error) {
	rows, err := db.conn.Query(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE group_id = ? ORDER BY group_index ASC`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// CountSessions counts the user's sessions matching the filter.
func (db *DB) CountSessions(userID string, f SessionFilter) (int, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.MinScore != nil {
		where = append(where, "focus_score >= ?")
		args = append(args, *f.MinScore)
	}
	if f.ExactScore != nil {
		where = append(where, "focus_score = ?")
		args = append(args, *f.ExactScore)
	}
	if f.MinPauses != nil {
		where = append(where, "pause_count >= ?")
		args = append(args, *f.MinPauses)
	}
	if f.MaxPauses != nil {
		where = append(where, "pause_count <= ?")
		args = append(args, *f.MaxPauses)
	}
	if f.MinActual != nil {
		where = append(where, "duration_actual >= ?")
		args = append(args, *f.MinActual)
	}
	if f.MaxActual != nil {
		where = append(where, "duration_actual <= ?")
		args = append(args, *f.MaxActual)
	}

	query := "SELECT COUNT(*) FROM sessions WHERE " + strings.Join(where, " AND ")

	var count int
	if err := db.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var s Session
		var completedAt string
		var groupID sql.NullString
		var groupIndex sql.NullInt64

		if err := rows.Scan(
			&s.ID, &s.UserID, (*string)(&s.Type), &s.TaskName,
			&s.DurationPlanned, &s.DurationActual, &s.PauseCount,
			&s.FocusScore, &completedAt, &groupID, &groupIndex,
		); err != nil {
			return nil, err
		}

		s.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		s.CompletedAt = s.CompletedAt.Local()
		if groupID.Valid {
			s.GroupID = groupID.String
		}
		if groupIndex.Valid {
			s.GroupIndex = int(groupIndex.Int64)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// nullable converts an empty string to a NULL parameter.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
