// Package user はユーザー登録・サインイン・プロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/shigotoba/internal/model"
	"github.com/hitoshi/shigotoba/internal/repository"
	"github.com/hitoshi/shigotoba/internal/security"
)

// SignUpInput はユーザー登録リクエストの正規化済み入力。
type SignUpInput struct {
	Name  string
	Email string
	Role  string
}

// Service はユーザーのドメインサービス。
// 認証は名前とメールアドレスの照合のみで、パスワードやセッションは扱わない。
// 呼び出し元の識別はヘッダ由来の不透明なIDに委ねられる。
type Service struct {
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{userRepo: userRepo, sanitizer: sanitizer}
}

// SignUp はユーザーを登録する。
// 役割はclient/labourのみを受け付け、メールアドレスの重複は許さない。
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*model.User, error) {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewInvalidRequestError("名前は必須です")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, model.NewInvalidRequestError("メールアドレスは必須です")
	}

	role := model.Role(strings.TrimSpace(input.Role))
	if !role.IsValid() {
		return nil, model.NewInvalidRoleError(input.Role)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError(email)
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.RecomputeProfileCompleted()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	return user, nil
}

// SignIn は名前とメールアドレスの組でユーザーを照合する。
// 組み合わせが一致しない場合は認証エラーを返す。
func (s *Service) SignIn(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByNameAndEmail(ctx, name, email)
	if err != nil {
		return nil, fmt.Errorf("サインイン照合に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewSignInMismatchError()
	}

	return user, nil
}

// Get は指定IDのユーザーを取得する。
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// List は全ユーザーを登録日時の降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// UpdateProfile はプロフィールの部分更新を行う。本人のみが実行できる。
// チェンジセットに存在しないフィールドは変更されず、
// nullが明示されたフィールドはクリアされる（名前はクリア不能）。
// 更新後にプロフィール完成状態を再計算する。
func (s *Service) UpdateProfile(ctx context.Context, userID, callerID string, update model.UserUpdate) (*model.User, error) {
	if userID != callerID {
		return nil, model.NewForbiddenError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	if err := s.applyUpdate(user, update); err != nil {
		return nil, err
	}

	user.RecomputeProfileCompleted()
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	return user, nil
}

// applyUpdate はチェンジセットをユーザーに適用する。
func (s *Service) applyUpdate(user *model.User, update model.UserUpdate) error {
	if update.Name.Set {
		if !update.Name.Valid {
			return model.NewInvalidRequestError("nameはnullにできません")
		}
		name := s.sanitizer.Sanitize(update.Name.Value)
		if name == "" {
			return model.NewInvalidRequestError("名前は必須です")
		}
		user.Name = name
	}
	if update.AvatarURL.Set {
		if !update.AvatarURL.Valid {
			user.AvatarURL = ""
		} else {
			user.AvatarURL = strings.TrimSpace(update.AvatarURL.Value)
		}
	}
	if update.Location.Set {
		if !update.Location.Valid {
			user.Location = ""
		} else {
			user.Location = s.sanitizer.Sanitize(update.Location.Value)
		}
	}
	if update.Bio.Set {
		if !update.Bio.Valid {
			user.Bio = ""
		} else {
			user.Bio = s.sanitizer.Sanitize(update.Bio.Value)
		}
	}
	if update.Skills.Set {
		if !update.Skills.Valid {
			user.Skills = nil
		} else {
			skills := make([]string, 0, len(update.Skills.Value))
			for _, skill := range update.Skills.Value {
				skill = strings.TrimSpace(skill)
				if skill != "" {
					skills = append(skills, skill)
				}
			}
			user.Skills = skills
		}
	}
	if update.YearsOfExperience.Set {
		if !update.YearsOfExperience.Valid {
			user.YearsOfExperience = 0
		} else {
			if update.YearsOfExperience.Value < 0 {
				return model.NewInvalidRequestError("経験年数は0以上で指定してください")
			}
			user.YearsOfExperience = update.YearsOfExperience.Value
		}
	}
	if update.CompanyName.Set {
		if !update.CompanyName.Valid {
			user.CompanyName = ""
		} else {
			user.CompanyName = s.sanitizer.Sanitize(update.CompanyName.Value)
		}
	}
	return nil
}
