package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/shigotoba/internal/model"
)

// PostgresJobRepo はPostgreSQLを使用した仕事リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

const jobColumns = `id, title, description, location, budget, images, video,
	status, close_requested_by, closed_at, created_by, latitude, longitude,
	skills, created_at, updated_at`

// scanJob は1行をmodel.Jobにスキャンする。
func scanJob(row interface{ Scan(dest ...any) error }) (*model.Job, error) {
	job := &model.Job{}
	var imagesJSON, skillsJSON string
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.Location, &job.Budget,
		&imagesJSON, &job.Video, &job.Status, &job.CloseRequestedBy,
		&job.ClosedAt, &job.CreatedBy, &job.Latitude, &job.Longitude,
		&skillsJSON, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if job.Images, err = unmarshalStringSlice(imagesJSON); err != nil {
		return nil, err
	}
	if job.Skills, err = unmarshalStringSlice(skillsJSON); err != nil {
		return nil, err
	}

	return job, nil
}

// FindByID は指定IDの仕事を取得する。見つからない場合はnilを返す。
func (r *PostgresJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job by ID: %w", err)
	}
	return job, nil
}

// List は指定ステータスの仕事一覧を作成日時の降順で返す。
// statusが空文字列の場合は全件を返す。
func (r *PostgresJobRepo) List(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC`,
			status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListByCreator は指定ユーザーが作成した仕事一覧を作成日時の降順で返す。
func (r *PostgresJobRepo) ListByCreator(ctx context.Context, userID string) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE created_by = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by creator: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListByAcceptedBidder は指定ユーザーのオファーがacceptedとなっている
// 仕事一覧を作成日時の降順で返す。
func (r *PostgresJobRepo) ListByAcceptedBidder(ctx context.Context, userID string) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT j.id, j.title, j.description, j.location, j.budget, j.images, j.video,
		 j.status, j.close_requested_by, j.closed_at, j.created_by, j.latitude, j.longitude,
		 j.skills, j.created_at, j.updated_at
		 FROM jobs j
		 INNER JOIN offers o ON o.job_id = j.id
		 WHERE o.user_id = $1 AND o.status = 'accepted'
		 ORDER BY j.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by accepted bidder: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// collectJobs は結果セットの全行をスキャンして返す。
func collectJobs(rows *sql.Rows) ([]*model.Job, error) {
	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// Create は仕事を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	imagesJSON, err := marshalStringSlice(job.Images)
	if err != nil {
		return err
	}
	skillsJSON, err := marshalStringSlice(job.Skills)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, location, budget, images, video,
		 status, close_requested_by, closed_at, created_by, latitude, longitude,
		 skills, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		job.ID, job.Title, job.Description, job.Location, job.Budget,
		imagesJSON, job.Video, job.Status, job.CloseRequestedBy, job.ClosedAt,
		job.CreatedBy, job.Latitude, job.Longitude, skillsJSON,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// Update は仕事の可変フィールドとupdated_atを上書き更新する。
// status、close_requested_by、closed_atは専用メソッド経由でのみ変更する。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	imagesJSON, err := marshalStringSlice(job.Images)
	if err != nil {
		return err
	}
	skillsJSON, err := marshalStringSlice(job.Skills)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET title = $2, description = $3, location = $4, budget = $5,
		 images = $6, video = $7, latitude = $8, longitude = $9, skills = $10,
		 updated_at = $11
		 WHERE id = $1`,
		job.ID, job.Title, job.Description, job.Location, job.Budget,
		imagesJSON, job.Video, job.Latitude, job.Longitude, skillsJSON,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	return nil
}

// UpdateCloseRequest はclose_requested_byのみを更新する。
func (r *PostgresJobRepo) UpdateCloseRequest(ctx context.Context, jobID string, requestedBy *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET close_requested_by = $2, updated_at = $3 WHERE id = $1`,
		jobID, requestedBy, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update close request: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// Close はstatus=closed、closed_at、close_requested_by=NULLを
// 単一のUPDATEで原子的に設定する。
func (r *PostgresJobRepo) Close(ctx context.Context, jobID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = 'closed', closed_at = now(),
		 close_requested_by = NULL, updated_at = now()
		 WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// DeleteByID は指定IDの仕事を削除する。関連するオファーはCASCADE削除される。
// 仕事を参照する通知は削除されず、宙づりのjob_id参照が残る（許容）。
func (r *PostgresJobRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)
