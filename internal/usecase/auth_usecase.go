package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cabinet-medical-api/internal/converter"
	"cabinet-medical-api/internal/delivery/dto"
	"cabinet-medical-api/internal/delivery/http/middleware"
	"cabinet-medical-api/internal/domain/entity"
	"cabinet-medical-api/internal/domain/repository"
	"cabinet-medical-api/internal/service"
	"cabinet-medical-api/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrMedecinNotFound    = errors.New("medecin not found")
)

type AuthUsecase interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentMedecin(ctx context.Context) (*dto.MedecinResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	medecinRepo  repository.MedecinRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medecinRepo repository.MedecinRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		medecinRepo:  medecinRepo,
		auditService: auditService,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	medecin := &entity.Medecin{
		Email:       req.Email,
		Password:    string(hashedPassword),
		FullName:    req.FullName,
		Speciality:  req.Speciality,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		Price:       req.Price,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.medecinRepo.Create(tx, medecin); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create medecin: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &medecin.ID, entity.AuditActionMedecinSignup, "medecin", medecin.ID.String(), map[string]interface{}{
		"email": medecin.Email,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, medecin)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	medecin, err := u.medecinRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find medecin by email: %+v", err)
		return nil, err
	}
	if medecin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(medecin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	u.auditService.LogCreate(ctx, u.db.WithContext(ctx), &medecin.ID, entity.AuditActionMedecinLogin, "medecin", medecin.ID.String(), nil)

	return u.issueTokens(ctx, medecin)
}

func (u *authUsecase) Logout(ctx context.Context) error {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return ErrMedecinNotInContext
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrInvalidToken
	}

	tokenKey := fmt.Sprintf("access_token:%s:%s", medecinID.String(), tokenID)
	if err := u.redisClient.Del(ctx, tokenKey).Err(); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	u.auditService.LogCreate(ctx, u.db.WithContext(ctx), &medecinID, entity.AuditActionMedecinLogout, "medecin", medecinID.String(), nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.MedecinID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	medecin, err := u.medecinRepo.FindByID(u.db.WithContext(ctx), claims.MedecinID)
	if err != nil {
		u.log.Warnf("Failed to find medecin %s: %+v", claims.MedecinID, err)
		return nil, err
	}
	if medecin == nil {
		return nil, ErrMedecinNotFound
	}

	// Rotate: the old refresh token is single-use.
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to rotate refresh token: %+v", err)
	}

	return u.issueTokens(ctx, medecin)
}

func (u *authUsecase) GetCurrentMedecin(ctx context.Context) (*dto.MedecinResponse, error) {
	medecinID, ok := middleware.GetMedecinIDFromContext(ctx)
	if !ok {
		return nil, ErrMedecinNotInContext
	}

	medecin, err := u.medecinRepo.FindByID(u.db.WithContext(ctx), medecinID)
	if err != nil {
		u.log.Warnf("Failed to find medecin %s: %+v", medecinID, err)
		return nil, err
	}
	if medecin == nil {
		return nil, ErrMedecinNotFound
	}

	return converter.MedecinToResponse(medecin), nil
}

// issueTokens generates an access/refresh pair and registers both in Redis
// so they can be revoked before expiry.
func (u *authUsecase) issueTokens(ctx context.Context, medecin *entity.Medecin) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(medecin.ID, medecin.FullName)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(medecin.ID, medecin.FullName)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", medecin.ID.String(), accessTokenID)
	if err := u.redisClient.Set(ctx, accessKey, "1", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", medecin.ID.String(), refreshTokenID)
	if err := u.redisClient.Set(ctx, refreshKey, "1", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Medecin:      *converter.MedecinToResponse(medecin),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key
// violation containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
