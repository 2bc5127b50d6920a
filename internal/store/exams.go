package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gradeassist/internal/manager"
	"gradeassist/pkg/types"
)

// CreateExam inserts an exam with its questions and options in one transaction.
func (s *Store) CreateExam(ctx context.Context, e types.Exam) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO exams (title, subject, year, course_code, instructions, duration)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			e.Title, orDefault(e.Subject, "none"), orDefault(e.Year, "none"), orDefault(e.CourseCode, "NONE"), e.Instructions, e.Duration,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert exam: %w", err)
		}
		for qi, q := range e.Questions {
			var qid int64
			err := tx.QueryRow(ctx,
				`INSERT INTO questions (exam_id, position, text, type, points, model_answer)
				 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
				id, qi, q.Text, q.Type, q.Points, q.ModelAnswer,
			).Scan(&qid)
			if err != nil {
				return fmt.Errorf("insert question %d: %w", qi, err)
			}
			if len(q.Options) == 0 {
				continue
			}
			batch := &pgx.Batch{}
			for oi, o := range q.Options {
				batch.Queue(`INSERT INTO options (question_id, position, text, is_correct) VALUES ($1, $2, $3, $4)`, qid, oi, o.Text, o.IsCorrect)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert options of question %d: %w", qi, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetExam loads an exam with its questions and options in their original order.
func (s *Store) GetExam(ctx context.Context, id int64) (types.Exam, error) {
	var e types.Exam
	err := s.pool.QueryRow(ctx,
		`SELECT title, subject, year, course_code, instructions, duration FROM exams WHERE id = $1`, id,
	).Scan(&e.Title, &e.Subject, &e.Year, &e.CourseCode, &e.Instructions, &e.Duration)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Exam{}, manager.ErrNotFound(fmt.Sprintf("exam %d", id))
	}
	if err != nil {
		return types.Exam{}, fmt.Errorf("select exam: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, text, type, points, model_answer FROM questions WHERE exam_id = $1 ORDER BY position`, id)
	if err != nil {
		return types.Exam{}, fmt.Errorf("select questions: %w", err)
	}
	var qids []int64
	e.Questions = []types.Question{}
	for rows.Next() {
		var qid int64
		q := types.Question{Options: []types.Option{}}
		if err := rows.Scan(&qid, &q.Text, &q.Type, &q.Points, &q.ModelAnswer); err != nil {
			rows.Close()
			return types.Exam{}, err
		}
		qids = append(qids, qid)
		e.Questions = append(e.Questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return types.Exam{}, err
	}
	if len(qids) == 0 {
		return e, nil
	}

	index := make(map[int64]int, len(qids))
	for i, qid := range qids {
		index[qid] = i
	}
	rows, err = s.pool.Query(ctx,
		`SELECT question_id, text, is_correct FROM options WHERE question_id = ANY($1) ORDER BY question_id, position`, qids)
	if err != nil {
		return types.Exam{}, fmt.Errorf("select options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qid int64
		var o types.Option
		if err := rows.Scan(&qid, &o.Text, &o.IsCorrect); err != nil {
			return types.Exam{}, err
		}
		i := index[qid]
		e.Questions[i].Options = append(e.Questions[i].Options, o)
	}
	return e, rows.Err()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
