// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/classpoll/question"
)

// StudentRow is one student record as stored.
type StudentRow struct {
	UID      int
	Fullname string
	Username sql.NullString
}

// LoadStudents reads the full student roster from the store.
func LoadStudents(db *sql.DB) ([]StudentRow, error) {
	rows, err := db.Query(`SELECT uid, fullname, username FROM student ORDER BY uid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []StudentRow
	for rows.Next() {
		var s StudentRow
		if err := rows.Scan(&s.UID, &s.Fullname, &s.Username); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// InsertStudent adds a student record. addedBy records whether the row came
// from roster import ("admin") or self-registration ("user").
func InsertStudent(db *sql.DB, uid int, fullname, username, addedBy string) error {
	var user any
	if username != "" {
		user = username
	}
	_, err := db.Exec(`
		INSERT INTO student (uid, fullname, username, date_added, added_by)
		VALUES ($1, $2, $3, $4, $5)
	`, uid, fullname, user, time.Now(), addedBy)
	if err != nil {
		return fmt.Errorf("failed to insert student %d: %w", uid, err)
	}
	return nil
}

// BindUsername records a student's one-time username binding.
func BindUsername(db *sql.DB, uid int, username string) error {
	_, err := db.Exec(`UPDATE student SET username = $1 WHERE uid = $2`, username, uid)
	if err != nil {
		return fmt.Errorf("failed to bind username for %d: %w", uid, err)
	}
	return nil
}

// InsertQuestion persists a question and its error models, assigning the
// question's id and error-model row ids.
func InsertQuestion(db *sql.DB, q *question.Question) error {
	err := db.QueryRow(`
		INSERT INTO question (qtype, title, date_added)
		VALUES ($1, $2, $3)
		RETURNING id
	`, q.Kind.String(), q.Title, time.Now()).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	q.ErrorIDs = q.ErrorIDs[:0]
	for _, belief := range q.ErrorModels {
		var id int64
		err := db.QueryRow(`
			INSERT INTO error_model (question_id, belief, date_added)
			VALUES ($1, $2, $3)
			RETURNING id
		`, q.ID, belief, time.Now()).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert error model: %w", err)
		}
		q.ErrorIDs = append(q.ErrorIDs, id)
	}
	return nil
}

// SaveResponses flushes every response of a question to the store and
// returns the number saved. First saves insert and assign row ids (written
// back onto each response after commit); re-saves update in place, so the
// flush is idempotent. The question snapshots its state under its own lock,
// with every cross-reference resolved to an id: the prototype category, the
// partner whose answer was adopted, the final-vote category, and the
// critique target.
func SaveResponses(db *sql.DB, q *question.Question) (int, error) {
	records := q.Records()
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	assigned := make(map[int]int64)
	for _, rec := range records {
		var clusterID, isCorrect, switchedID, confidence2, finalID, finalConf, critiqueID any
		if rec.Clustered {
			clusterID = rec.ClusterID
		}
		if rec.CorrectKnown {
			isCorrect = boolToInt(rec.Correct)
		}
		if rec.Reconsidered {
			switchedID = rec.SwitchedID
			confidence2 = rec.Confidence2
		}
		if rec.HasFinalVote {
			finalID = rec.FinalID
			finalConf = rec.FinalConfidence
		}
		if rec.HasCritique {
			critiqueID = rec.CritiqueID
		}

		if rec.RowID != 0 {
			_, err := tx.Exec(`
				UPDATE response SET
					cluster_id = $1, is_correct = $2, answer = $3, attach_path = $4,
					confidence = $5, submit_time = $6, reasons = $7, assessment = $8,
					switched_id = $9, confidence2 = $10, final_id = $11,
					final_conf = $12, critique_id = $13, criticisms = $14
				WHERE id = $15
			`, clusterID, isCorrect, rec.Answer, nullString(rec.ImagePath),
				rec.Confidence, rec.Submitted, nullString(rec.Reasons),
				nullString(rec.Assessment), switchedID, confidence2,
				finalID, finalConf, critiqueID, nullString(rec.Criticisms), rec.RowID)
			if err != nil {
				return 0, fmt.Errorf("failed to update response for student %d: %w", rec.StudentID, err)
			}
			continue
		}

		var rowID int64
		err := tx.QueryRow(`
			INSERT INTO response (uid, question_id, cluster_id, is_correct,
			                      answer, attach_path, confidence, submit_time,
			                      reasons, assessment, switched_id, confidence2,
			                      final_id, final_conf, critique_id, criticisms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id
		`, rec.StudentID, q.ID, clusterID, isCorrect,
			rec.Answer, nullString(rec.ImagePath), rec.Confidence, rec.Submitted,
			nullString(rec.Reasons), nullString(rec.Assessment), switchedID, confidence2,
			finalID, finalConf, critiqueID, nullString(rec.Criticisms)).Scan(&rowID)
		if err != nil {
			return 0, fmt.Errorf("failed to save response for student %d: %w", rec.StudentID, err)
		}
		assigned[rec.StudentID] = rowID

		// First save also records the student's reported errors.
		for _, errID := range rec.ErrorIDs {
			_, err := tx.Exec(`
				INSERT INTO student_error (error_id, uid, submit_time)
				VALUES ($1, $2, $3)
			`, errID, rec.StudentID, rec.Submitted)
			if err != nil {
				return 0, fmt.Errorf("failed to save student error: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit responses: %w", err)
	}

	// Record committed row ids only after a successful commit.
	q.AssignRowIDs(assigned)
	return len(records), nil
}

// ResponseRow is one persisted response, as stored.
type ResponseRow struct {
	ID          int64
	UID         int
	QuestionID  int64
	ClusterID   sql.NullInt64
	IsCorrect   sql.NullInt64
	Answer      string
	AttachPath  sql.NullString
	Confidence  int
	SubmitTime  time.Time
	Reasons     sql.NullString
	Assessment  sql.NullString
	SwitchedID  sql.NullInt64
	Confidence2 sql.NullInt64
	FinalID     sql.NullInt64
	FinalConf   sql.NullInt64
	CritiqueID  sql.NullInt64
	Criticisms  sql.NullString
}

// LoadResponses reads all persisted responses for a question, ordered by
// cluster then student id.
func LoadResponses(db *sql.DB, questionID int64) ([]ResponseRow, error) {
	rows, err := db.Query(`
		SELECT id, uid, question_id, cluster_id, is_correct, answer,
		       attach_path, confidence, submit_time, reasons, assessment,
		       switched_id, confidence2, final_id, final_conf, critique_id,
		       criticisms
		FROM response
		WHERE question_id = $1
		ORDER BY cluster_id, uid
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var out []ResponseRow
	for rows.Next() {
		var r ResponseRow
		err := rows.Scan(&r.ID, &r.UID, &r.QuestionID, &r.ClusterID, &r.IsCorrect,
			&r.Answer, &r.AttachPath, &r.Confidence, &r.SubmitTime, &r.Reasons,
			&r.Assessment, &r.SwitchedID, &r.Confidence2, &r.FinalID, &r.FinalConf,
			&r.CritiqueID, &r.Criticisms)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
