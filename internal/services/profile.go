package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/contractpay-backend/internal/data/repos"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// ProfileService resolves the acting profile for a request.
type ProfileService interface {
	// SetContextFromProfileID loads the profile named by raw and attaches it as request data.
	SetContextFromProfileID(ctx context.Context, raw string) (context.Context, error)
	GetMe(ctx context.Context) (*types.Profile, error)
}

type profileService struct {
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewProfileService(log *logger.Logger, profiles repos.ProfileRepo) ProfileService {
	return &profileService{log: log.With("service", "ProfileService"), profiles: profiles}
}

func (s *profileService) SetContextFromProfileID(ctx context.Context, raw string) (context.Context, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return ctx, ErrUnauthorized
	}
	p, err := s.profiles.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return ctx, err
	}
	if p == nil {
		return ctx, ErrUnauthorized
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{ProfileID: p.ID, ProfileType: p.Type}), nil
}

func (s *profileService) GetMe(ctx context.Context) (*types.Profile, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	p, err := s.profiles.GetByID(dbctx.Context{Ctx: ctx}, rd.ProfileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
