package store

import (
	"database/sql"
	"time"
)

// InsertAwardUnlock records an award unlock for a user. It returns true
// when a new row was created. A duplicate (user, award type) pair hits
// the uniqueness constraint and is reported as a benign false, not an
// error, so concurrent evaluations cannot double-unlock.
func (db *DB) InsertAwardUnlock(userID, awardType string, at time.Time) (bool, error) {
	result, err := db.conn.Exec(
		`INSERT INTO award_unlocks (user_id, award_type, unlocked_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, award_type) DO NOTHING`,
		userID, awardType, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAwardUnlocks returns the user's unlocks, most recent first.
func (db *DB) ListAwardUnlocks(userID string) ([]AwardUnlock, error) {
	rows, err := db.conn.Query(
		`SELECT id, user_id, award_type, unlocked_at FROM award_unlocks
		 WHERE user_id = ? ORDER BY unlocked_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var unlocks []AwardUnlock
	for rows.Next() {
		var u AwardUnlock
		var unlockedAt string
		if err := rows.Scan(&u.ID, &u.UserID, &u.AwardType, &unlockedAt); err != nil {
			return nil, err
		}
		u.UnlockedAt, _ = time.Parse(time.RFC3339, unlockedAt)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// HasAwardUnlock reports whether the user already unlocked the award.
func (db *DB) HasAwardUnlock(userID, awardType string) (bool, error) {
	var id int64
	err := db.conn.QueryRow(
		"SELECT id FROM award_unlocks WHERE user_id = ? AND award_type = ?",
		userID, awardType,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
