package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/shigotoba/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, name, email, role, avatar_url, location, bio, skills,
	years_of_experience, company_name, profile_completed, created_at, updated_at`

// scanUser は1行をmodel.Userにスキャンする。
func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	user := &model.User{}
	var skillsJSON string
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Role,
		&user.AvatarURL, &user.Location, &user.Bio, &skillsJSON,
		&user.YearsOfExperience, &user.CompanyName, &user.ProfileCompleted,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Skills, err = unmarshalStringSlice(skillsJSON)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByNameAndEmail は名前とメールアドレスの組でユーザーを検索する。
// サインイン照合用。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByNameAndEmail(ctx context.Context, name, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE name = $1 AND email = $2`, name, email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by name and email: %w", err)
	}
	return user, nil
}

// List は全ユーザーを登録日時の降順で返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	skillsJSON, err := marshalStringSlice(user.Skills)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, avatar_url, location, bio, skills,
		 years_of_experience, company_name, profile_completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Name, user.Email, user.Role,
		user.AvatarURL, user.Location, user.Bio, skillsJSON,
		user.YearsOfExperience, user.CompanyName, user.ProfileCompleted,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Update はユーザーのプロフィールを更新する。
func (r *PostgresUserRepo) Update(ctx context.Context, user *model.User) error {
	skillsJSON, err := marshalStringSlice(user.Skills)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, avatar_url = $3, location = $4, bio = $5,
		 skills = $6, years_of_experience = $7, company_name = $8,
		 profile_completed = $9, updated_at = $10
		 WHERE id = $1`,
		user.ID, user.Name, user.AvatarURL, user.Location, user.Bio,
		skillsJSON, user.YearsOfExperience, user.CompanyName,
		user.ProfileCompleted, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", user.ID)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
