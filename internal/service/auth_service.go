package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"veggie-kart/internal/model"
	"veggie-kart/internal/notify"
	"veggie-kart/internal/repository"
	"veggie-kart/internal/scheduler"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// expiryTimeout bounds the store call made when a challenge timer fires.
const expiryTimeout = 5 * time.Second

// authService implements AuthService.
type authService struct {
	challenges repository.ChallengeRepository
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokens     SessionService
	timers     *scheduler.Scheduler
	sender     notify.Sender
	ttl        time.Duration
	pricing    Pricing
	logger     zerolog.Logger

	now        func() time.Time
	newCode    func() (string, error)
	bcryptCost int
}

// NewAuthService creates a new OTP authentication service.
func NewAuthService(
	challenges repository.ChallengeRepository,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens SessionService,
	timers *scheduler.Scheduler,
	sender notify.Sender,
	ttl time.Duration,
	pricing Pricing,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		challenges: challenges,
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		timers:     timers,
		sender:     sender,
		ttl:        ttl,
		pricing:    pricing,
		logger:     logger.With().Str("service", "auth").Logger(),
		now:        clock,
		newCode:    generateCode,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Issue sends a fresh code for the purpose and phone, replacing any pending one.
func (s *authService) Issue(ctx context.Context, req *model.IssueRequest) (*model.IssueResponse, error) {
	if req == nil || !req.Purpose.Valid() {
		return nil, model.ErrInvalidPurpose
	}
	if req.Purpose == model.PurposeSignup && (req.Name == "" || req.Phone == "") {
		s.logger.Warn().Msg("signup request missing fields")
		return nil, model.ErrMissingFields
	}
	if !model.ValidPhone(req.Phone) {
		s.logger.Warn().Str("purpose", string(req.Purpose)).Msg("invalid phone number")
		return nil, model.ErrInvalidPhone
	}

	code, err := s.newCode()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate code")
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash code")
		return nil, fmt.Errorf("failed to hash code: %w", err)
	}

	challenge := &model.Challenge{
		Purpose:  req.Purpose,
		Phone:    req.Phone,
		CodeHash: string(hash),
		IssuedAt: s.now(),
		TTL:      s.ttl,
	}
	if req.Purpose == model.PurposeSignup {
		challenge.Profile = model.ProfileDraft{Name: req.Name, Email: req.Email}
	}

	if err := s.challenges.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to issue challenge: %w", err)
	}

	s.scheduleExpiry(challenge)

	if err := s.sender.Send(ctx, req.Phone, notify.OTPMessage(req.Purpose, code)); err != nil {
		s.logger.Warn().Err(err).Str("purpose", string(req.Purpose)).Msg("failed to deliver OTP")
	}

	s.logger.Info().Str("purpose", string(req.Purpose)).Msg("challenge issued")

	return &model.IssueResponse{
		Purpose:   challenge.Purpose,
		Phone:     challenge.Phone,
		ExpiresAt: challenge.ExpiresAt(),
		ExpiresIn: int(s.ttl / time.Second),
	}, nil
}

// scheduleExpiry replaces any pending expiry timer for the pair. A timer that
// fires after the challenge was consumed or superseded changes nothing.
func (s *authService) scheduleExpiry(c *model.Challenge) {
	purpose, phone, issuedAt := c.Purpose, c.Phone, c.IssuedAt

	s.timers.Schedule(expiryKey(purpose, phone), c.TTL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), expiryTimeout)
		defer cancel()

		expired, err := s.challenges.Expire(ctx, purpose, phone, issuedAt)
		if err != nil {
			s.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to expire challenge")
			return
		}
		if expired {
			s.logger.Debug().Str("purpose", string(purpose)).Msg("challenge expired")
		}
	})
}

// Verify checks a submitted code and opens a session on success.
func (s *authService) Verify(ctx context.Context, req *model.VerifyRequest) (*model.AuthResponse, error) {
	if req == nil || !req.Purpose.Valid() {
		return nil, model.ErrInvalidPurpose
	}
	if !model.ValidCode(req.Code) {
		return nil, model.ErrMalformedCode
	}
	if !model.ValidPhone(req.Phone) {
		return nil, model.ErrInvalidPhone
	}

	challenge, err := s.challenges.Get(ctx, req.Purpose, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if challenge == nil {
		return nil, model.ErrNoActiveChallenge
	}

	now := s.now()
	if challenge.Purged() || challenge.Expired(now) {
		s.logger.Debug().Str("purpose", string(req.Purpose)).Msg("challenge expired")
		return nil, model.ErrChallengeExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(req.Code)); err != nil {
		s.logger.Warn().Str("purpose", string(req.Purpose)).Msg("code mismatch")
		return nil, model.ErrCodeMismatch
	}

	existing, err := s.users.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}

	var user *model.User
	switch req.Purpose {
	case model.PurposeLogin:
		if existing == nil {
			return nil, model.ErrAccountNotFound
		}
		user = existing
		user.LastLogin = &now
	case model.PurposeSignup:
		if existing != nil {
			s.logger.Warn().Msg("signup for existing account")
			return nil, model.ErrAccountAlreadyExists
		}
		user = &model.User{
			ID:            uuid.New(),
			Name:          challenge.Profile.Name,
			Email:         challenge.Profile.Email,
			Phone:         req.Phone,
			JoinedAt:      now,
			LastLogin:     &now,
			LoyaltyPoints: s.pricing.WelcomeBonus,
			TotalSpent:    decimal.Zero,
			Addresses:     []model.Address{},
			OrderIDs:      []uuid.UUID{},
		}
	}

	session := &model.Session{
		ID:              uuid.New(),
		Phone:           req.Phone,
		AuthenticatedAt: now,
	}

	if err := s.complete(ctx, challenge, user, session); err != nil {
		return nil, err
	}

	s.timers.Cancel(expiryKey(challenge.Purpose, challenge.Phone))

	token, expiresAt, err := s.tokens.Token(session)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info().
		Str("purpose", string(req.Purpose)).
		Str("user_id", user.ID.String()).
		Msg("challenge verified")

	return &model.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Created:   req.Purpose == model.PurposeSignup,
	}, nil
}

// complete consumes the challenge, applies the account change and opens the
// session in one transaction.
func (s *authService) complete(ctx context.Context, challenge *model.Challenge, user *model.User, session *model.Session) (err error) {
	tx, err := s.users.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify code: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	consumed, err := s.challenges.Consume(ctx, tx, challenge.Purpose, challenge.Phone, challenge.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		// Superseded, expired or used by a concurrent request.
		err = model.ErrNoActiveChallenge
		return err
	}

	if challenge.Purpose == model.PurposeSignup {
		if err = s.users.Create(ctx, tx, user); err != nil {
			return err
		}
	} else {
		if err = s.users.TouchLastLogin(ctx, tx, user.Phone, *user.LastLogin); err != nil {
			return err
		}
	}

	if err = s.sessions.Create(ctx, tx, session); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to verify code: %w", err)
	}

	return nil
}

// Countdown returns how long the pending code stays valid.
func (s *authService) Countdown(ctx context.Context, purpose model.Purpose, phone string) (time.Duration, error) {
	if !purpose.Valid() {
		return 0, model.ErrInvalidPurpose
	}
	if !model.ValidPhone(phone) {
		return 0, model.ErrInvalidPhone
	}

	challenge, err := s.challenges.Get(ctx, purpose, phone)
	if err != nil {
		return 0, fmt.Errorf("failed to read challenge: %w", err)
	}
	if challenge == nil || challenge.Purged() {
		return 0, nil
	}

	return challenge.Remaining(s.now()), nil
}

// Logout destroys the session.
func (s *authService) Logout(ctx context.Context, session *model.Session) error {
	if session == nil {
		return model.ErrNotAuthenticated
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	s.logger.Info().Str("session_id", session.ID.String()).Msg("session closed")

	return nil
}

func expiryKey(purpose model.Purpose, phone string) string {
	return "otp:" + string(purpose) + ":" + phone
}

var codeRange = big.NewInt(900000)

// generateCode returns a uniformly random code in 100000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
