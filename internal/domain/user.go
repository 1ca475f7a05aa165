package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/jwt"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Resolve(ctx context.Context, req *model.ResolveUserRequest) (*model.ResolveUserResponse, error)
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

// Resolve exchanges a transport identity for the matching user and an access
// token, creating the user on first contact. The name and avatar in the
// request are hints; they refresh the stored profile when they differ.
func (d *userDomain) Resolve(
	ctx context.Context, req *model.ResolveUserRequest,
) (*model.ResolveUserResponse, error) {
	if req.Identity == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an empty identity")
	}

	user, err := d.userRepo.GetByIdentity(ctx, req.Identity)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by identity: %v", err)
			return nil, errorx.Unknown
		}

		user = &entity.User{
			Base:      entity.Base{ID: uuid.NewString()},
			Identity:  req.Identity,
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			// Another request for the same identity may have won the
			// insert. The unique index arbitrates; fall back to its row.
			user, err = d.userRepo.GetByIdentity(ctx, req.Identity)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
				return nil, errorx.Unknown
			}
		}
	} else if needProfileRefresh(user, req) {
		err := d.userRepo.UpdateProfile(ctx, user.ID, &entity.User{
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot refresh user profile: %v", err)
			return nil, errorx.Unknown
		}

		if req.Name != "" {
			user.Name = req.Name
		}

		if req.AvatarURL != "" {
			user.AvatarURL = req.AvatarURL
		}
	}

	cfg := xcontext.Configs(ctx)
	engine := jwt.NewEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)
	token, err := engine.Generate(user.ID, model.AccessToken{
		ID:       user.ID,
		Identity: user.Identity,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ResolveUserResponse{
		User:        model.ConvertUser(user),
		AccessToken: token,
	}, nil
}

func needProfileRefresh(user *entity.User, req *model.ResolveUserRequest) bool {
	if req.Name != "" && req.Name != user.Name {
		return true
	}

	if req.AvatarURL != "" && req.AvatarURL != user.AvatarURL {
		return true
	}

	return false
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user))
	return &resp, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertShortUser(user))
	return &resp, nil
}
