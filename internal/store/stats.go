package store

import (
	"database/sql"
	"time"
)

// GetUserStats returns the user's stats row, or nil if the user has no
// stats yet. Absence is not an error; the aggregator creates the row
// lazily.
func (db *DB) GetUserStats(userID string) (*UserStats, error) {
	row := db.conn.QueryRow(
		`SELECT user_id, total_sessions, total_focus_minutes, current_streak,
		        longest_streak, last_active_date, perfect_score_count,
		        no_pause_session_count, default_duration, default_sound
		 FROM user_stats WHERE user_id = ?`,
		userID,
	)

	var st UserStats
	var lastActive sql.NullString
	err := row.Scan(
		&st.UserID, &st.TotalSessions, &st.TotalFocusMinutes,
		&st.CurrentStreak, &st.LongestStreak, &lastActive,
		&st.PerfectScoreCount, &st.NoPauseSessionCount,
		&st.DefaultDuration, &st.DefaultSound,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		if t, perr := time.Parse(time.RFC3339, lastActive.String); perr == nil {
			local := t.Local()
			st.LastActiveDate = &local
		}
	}
	return &st, nil
}

// SaveUserStats writes the user's stats row, creating it if needed.
func (db *DB) SaveUserStats(st *UserStats) error {
	return upsertUserStats(db.conn, st)
}

// UpdatePreferences sets the user's default session duration (minutes)
// and ambient sound id, creating the stats row if needed. Zero duration
// or empty sound leaves the respective value unchanged.
func (db *DB) UpdatePreferences(userID string, durationMinutes int, soundID string) error {
	st, err := db.GetUserStats(userID)
	if err != nil {
		return err
	}
	if st == nil {
		st = &UserStats{UserID: userID, DefaultDuration: 25, DefaultSound: "off"}
	}
	if durationMinutes > 0 {
		st.DefaultDuration = durationMinutes
	}
	if soundID != "" {
		st.DefaultSound = soundID
	}
	return db.SaveUserStats(st)
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertUserStats(e execer, st *UserStats) error {
	var lastActive any
	if st.LastActiveDate != nil {
		lastActive = st.LastActiveDate.UTC().Format(time.RFC3339)
	}

	_, err := e.Exec(
		`INSERT INTO user_stats
		(user_id, total_sessions, total_focus_minutes, current_streak,
		 longest_streak, last_active_date, perfect_score_count,
		 no_pause_session_count, default_duration, default_sound)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_sessions         = excluded.total_sessions,
			total_focus_minutes    = excluded.total_focus_minutes,
			current_streak         = excluded.current_streak,
			longest_streak         = excluded.longest_streak,
			last_active_date       = excluded.last_active_date,
			perfect_score_count    = excluded.perfect_score_count,
			no_pause_session_count = excluded.no_pause_session_count,
			default_duration       = excluded.default_duration,
			default_sound          = excluded.default_sound`,
		st.UserID, st.TotalSessions, st.TotalFocusMinutes, st.CurrentStreak,
		st.LongestStreak, lastActive, st.PerfectScoreCount,
		st.NoPauseSessionCount, st.DefaultDuration, st.DefaultSound,
	)
	return err
}
