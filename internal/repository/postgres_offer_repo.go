package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/shigotoba/internal/model"
)

// PostgresOfferRepo はPostgreSQLを使用したオファーリポジトリ。
type PostgresOfferRepo struct {
	db *sql.DB
}

// NewPostgresOfferRepo はPostgresOfferRepoを生成する。
func NewPostgresOfferRepo(db *sql.DB) *PostgresOfferRepo {
	return &PostgresOfferRepo{db: db}
}

const offerColumns = `id, job_id, user_id, proposed_price, message, status, created_at`

// scanOffer は1行をmodel.Offerにスキャンする。
func scanOffer(row interface{ Scan(dest ...any) error }) (*model.Offer, error) {
	offer := &model.Offer{}
	err := row.Scan(
		&offer.ID, &offer.JobID, &offer.UserID,
		&offer.ProposedPrice, &offer.Message, &offer.Status, &offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// FindByID は指定IDのオファーを取得する。見つからない場合はnilを返す。
func (r *PostgresOfferRepo) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)

	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find offer by ID: %w", err)
	}
	return offer, nil
}

// FindPendingByJobAndUser は指定(job, user)のpendingオファーを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresOfferRepo) FindPendingByJobAndUser(ctx context.Context, jobID, userID string) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers
		 WHERE job_id = $1 AND user_id = $2 AND status = 'pending'`,
		jobID, userID)

	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending offer: %w", err)
	}
	return offer, nil
}

// FindAcceptedByJob は指定仕事のacceptedオファーを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresOfferRepo) FindAcceptedByJob(ctx context.Context, jobID string) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers
		 WHERE job_id = $1 AND status = 'accepted'`,
		jobID)

	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find accepted offer: %w", err)
	}
	return offer, nil
}

// ListByJobWithBidder は指定仕事のオファー一覧を入札者情報付きで
// 作成日時の降順で返す。IDは一意のため作成日時以外のタイブレークは不要。
func (r *PostgresOfferRepo) ListByJobWithBidder(ctx context.Context, jobID string) ([]model.OfferWithBidder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.job_id, o.user_id, o.proposed_price, o.message, o.status,
		 o.created_at, u.name, u.avatar_url, u.skills
		 FROM offers o
		 INNER JOIN users u ON u.id = o.user_id
		 WHERE o.job_id = $1
		 ORDER BY o.created_at DESC`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers by job: %w", err)
	}
	defer rows.Close()

	var offers []model.OfferWithBidder
	for rows.Next() {
		var ob model.OfferWithBidder
		var skillsJSON string
		err := rows.Scan(
			&ob.ID, &ob.JobID, &ob.UserID, &ob.ProposedPrice, &ob.Message,
			&ob.Status, &ob.CreatedAt,
			&ob.BidderName, &ob.BidderAvatarURL, &skillsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer with bidder: %w", err)
		}
		if ob.BidderSkills, err = unmarshalStringSlice(skillsJSON); err != nil {
			return nil, err
		}
		offers = append(offers, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}

	return offers, nil
}

// Create はオファーを作成する。
func (r *PostgresOfferRepo) Create(ctx context.Context, offer *model.Offer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO offers (id, job_id, user_id, proposed_price, message, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		offer.ID, offer.JobID, offer.UserID,
		offer.ProposedPrice, offer.Message, offer.Status, offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

// UpdateStatus はオファーの状態を更新する。
func (r *PostgresOfferRepo) UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE offers SET status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("offer not found: %s", id)
	}
	return nil
}

// AcceptAndReserve は採用処理を単一トランザクションで実行する。
// 仕事行をFOR UPDATEでロックして並行する採用操作を直列化し、
// ロック取得後に対象オファーがpendingであることを再検証する。
// 兄弟オファーの一括rejected、本オファーのaccepted、仕事のreservedが
// すべて成功した場合のみコミットする。
func (r *PostgresOfferRepo) AcceptAndReserve(ctx context.Context, offerID, jobID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 仕事行をロックして並行する採用操作を直列化する
	var jobStatus model.JobStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM jobs WHERE id = $1 FOR UPDATE`,
		jobID,
	).Scan(&jobStatus)
	if err != nil {
		return fmt.Errorf("failed to lock job row: %w", err)
	}

	// ロック取得後の再検証: 先行する採用操作が完了していれば
	// 対象オファーはもはやpendingではない
	var offerStatus model.OfferStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM offers WHERE id = $1`,
		offerID,
	).Scan(&offerStatus)
	if err != nil {
		return fmt.Errorf("failed to reload offer status: %w", err)
	}
	if offerStatus != model.OfferStatusPending {
		return &OfferNotPendingError{Status: offerStatus}
	}

	// 兄弟オファーを一括rejected（pendingのもののみ）
	_, err = tx.ExecContext(ctx,
		`UPDATE offers SET status = 'rejected'
		 WHERE job_id = $1 AND id <> $2 AND status = 'pending'`,
		jobID, offerID,
	)
	if err != nil {
		return fmt.Errorf("failed to reject sibling offers: %w", err)
	}

	// 本オファーをacceptedにする
	_, err = tx.ExecContext(ctx,
		`UPDATE offers SET status = 'accepted' WHERE id = $1`,
		offerID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept offer: %w", err)
	}

	// 仕事をreservedにする
	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status = 'reserved', updated_at = now() WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ OfferRepository = (*PostgresOfferRepo)(nil)
