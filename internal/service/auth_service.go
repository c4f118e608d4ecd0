package service

import (
	"context"
	"errors"
	"strings"

	"adhub/config"
	"adhub/internal/auth"
	"adhub/internal/domain"
	"adhub/internal/models"
	"adhub/internal/repository"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	cfg     *config.Config
	db      *gorm.DB
	users   *repository.UserRepository
	wallets *repository.WalletRepository
	gateway payment.Gateway
	log     *logger.Logger
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewAuthService(cfg *config.Config, db *gorm.DB, users *repository.UserRepository, wallets *repository.WalletRepository, gateway payment.Gateway, log *logger.Logger) *AuthService {
	return &AuthService{cfg: cfg, db: db, users: users, wallets: wallets, gateway: gateway, log: log.Named("auth")}
}

// Register creates the user and an empty wallet together, then attaches a
// processor customer. A user without a customer can still deposit.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	return s.register(ctx, email, password, domain.RoleClient)
}

// CreateAdmin registers an operator account.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	u, _, err := s.register(ctx, email, password, domain.RoleAdmin)
	return u, err
}

func (s *AuthService) register(ctx context.Context, email, password, role string) (*models.User, *Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	u := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, u); err != nil {
			return err
		}
		_, err := s.wallets.WithTx(tx).Create(ctx, u.ID, nil, s.cfg.Stripe.Currency)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Infow("user registered", "user_id", u.ID, "role", role)
	s.attachCustomer(ctx, u)
	tokens, err := s.issue(u)
	if err != nil {
		return u, nil, err
	}
	return u, tokens, nil
}

// attachCustomer runs after the user is committed so a failed registration
// never leaves a customer behind at the processor.
func (s *AuthService) attachCustomer(ctx context.Context, u *models.User) {
	if s.gateway == nil {
		return
	}
	id, err := s.gateway.CreateCustomer(ctx, u.Email, u.ID)
	if err != nil {
		s.log.Warnw("payment customer not created", "user_id", u.ID, "error", err)
		return
	}
	if err := s.wallets.SetExternalCustomerID(ctx, u.ID, id); err != nil {
		s.log.Reconcile("payment customer created but not stored", "user_id", u.ID, "customer_id", id, "error", err)
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCreds
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCreds
	}
	tokens, err := s.issue(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) SetFCMToken(ctx context.Context, userID uint, token string) error {
	return s.users.SetFCMToken(ctx, userID, token)
}

func (s *AuthService) issue(u *models.User) (*Tokens, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}
