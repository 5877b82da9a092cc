package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"galpe/internal/domain"
	"galpe/internal/metrics"
)

// Operation names used in logs and metrics
const (
	OpResetPassword = "reset_password"
	OpChangeEmail   = "change_email"
	OpRegister      = "register"
	OpAuthenticate  = "authenticate"
)

// AccountService validates and applies account mutations against the record store.
// Every mutation runs its fetch -> validate -> mutate -> save cycle under one lock,
// so two in-process cycles never interleave their saves.
type AccountService struct {
	store          domain.RecordStore
	sessions       *SessionSynchronizer
	validate       *validator.Validate
	starterBalance decimal.Decimal
	log            logrus.FieldLogger
	now            func() time.Time

	mu sync.Mutex
}

// NewAccountService creates a new AccountService.
// starterBalance is credited in USDT to newly registered accounts.
func NewAccountService(
	store domain.RecordStore,
	sessions *SessionSynchronizer,
	starterBalance decimal.Decimal,
	log logrus.FieldLogger,
) *AccountService {
	return &AccountService{
		store:          store,
		sessions:       sessions,
		validate:       validator.New(),
		starterBalance: starterBalance,
		log:            log.WithField("component", "accounts"),
		now:            time.Now,
	}
}

// ResetPassword sets a new password on the account identified by email.
// session is the caller's current projection (may be nil); the returned result
// carries the projection the caller should keep.
func (s *AccountService) ResetPassword(ctx context.Context, session *domain.SessionProjection, req domain.ResetPasswordRequest) (domain.MutationResult, error) {
	res := domain.MutationResult{Session: session}

	if s.hasMissingFields(req) {
		return s.finish(OpResetPassword, res, domain.ReasonMissingFields), nil
	}
	if req.NewPassword != req.ConfirmPassword {
		return s.finish(OpResetPassword, res, domain.ReasonPasswordMismatch), nil
	}
	if tooShort(req.NewPassword) {
		return s.finish(OpResetPassword, res, domain.ReasonPasswordTooShort), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return s.unavailable(OpResetPassword, res, err)
	}

	idx := indexByEmail(records, req.Email)
	if idx < 0 {
		return s.finish(OpResetPassword, res, domain.ReasonUserNotFound), nil
	}

	updated := records[idx].Clone()
	updated.Password = req.NewPassword
	records[idx] = updated

	if err := s.store.SaveAll(ctx, records); err != nil {
		s.log.WithError(err).WithField("user_id", updated.ID).Error("Failed to save password change")
		return s.finish(OpResetPassword, res, domain.ReasonPersistFailed), nil
	}

	res.Record = updated.Project()
	res.Session = s.sessions.Resync(session, req.Email, updated)

	s.log.WithField("user_id", updated.ID).Info("Password changed")
	return s.finish(OpResetPassword, res, domain.ReasonSuccess), nil
}

// ChangeEmail moves the account identified by CurrentEmail to NewEmail after
// checking its password and that no other account already uses NewEmail.
func (s *AccountService) ChangeEmail(ctx context.Context, session *domain.SessionProjection, req domain.ChangeEmailRequest) (domain.MutationResult, error) {
	res := domain.MutationResult{Session: session}

	if s.hasMissingFields(req) {
		return s.finish(OpChangeEmail, res, domain.ReasonMissingFields), nil
	}
	if !looksLikeEmail(req.NewEmail) {
		return s.finish(OpChangeEmail, res, domain.ReasonInvalidEmailFormat), nil
	}
	if req.NewEmail == req.CurrentEmail {
		return s.finish(OpChangeEmail, res, domain.ReasonEmailUnchanged), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return s.unavailable(OpChangeEmail, res, err)
	}

	idx := indexByEmail(records, req.CurrentEmail)
	if idx < 0 {
		return s.finish(OpChangeEmail, res, domain.ReasonUserNotFound), nil
	}
	if records[idx].Password != req.Password {
		return s.finish(OpChangeEmail, res, domain.ReasonWrongPassword), nil
	}

	// self is excluded by identity, not by email
	selfID := records[idx].ID
	for _, r := range records {
		if r.ID != selfID && r.Email == req.NewEmail {
			return s.finish(OpChangeEmail, res, domain.ReasonEmailInUse), nil
		}
	}

	updated := records[idx].Clone()
	updated.Email = req.NewEmail
	records[idx] = updated

	if err := s.store.SaveAll(ctx, records); err != nil {
		s.log.WithError(err).WithField("user_id", updated.ID).Error("Failed to save email change")
		return s.finish(OpChangeEmail, res, domain.ReasonPersistFailed), nil
	}

	res.Record = updated.Project()
	res.Session = s.sessions.Resync(session, req.CurrentEmail, updated)

	s.log.WithField("user_id", updated.ID).Info("Email changed")
	return s.finish(OpChangeEmail, res, domain.ReasonSuccess), nil
}

// Register creates a new account and signs it in.
// The returned Session is the new user's projection.
func (s *AccountService) Register(ctx context.Context, req domain.RegisterRequest) (domain.MutationResult, error) {
	res := domain.MutationResult{}

	if s.hasMissingFields(req) {
		return s.finish(OpRegister, res, domain.ReasonMissingFields), nil
	}
	if !looksLikeEmail(req.Email) {
		return s.finish(OpRegister, res, domain.ReasonInvalidEmailFormat), nil
	}
	if req.Password != req.ConfirmPassword {
		return s.finish(OpRegister, res, domain.ReasonPasswordMismatch), nil
	}
	if tooShort(req.Password) {
		return s.finish(OpRegister, res, domain.ReasonPasswordTooShort), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return s.unavailable(OpRegister, res, err)
	}

	if indexByEmail(records, req.Email) >= 0 {
		return s.finish(OpRegister, res, domain.ReasonEmailInUse), nil
	}

	record := &domain.UserRecord{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  req.Password,
		Assets:    []domain.Asset{},
		CreatedAt: s.now().UTC(),
	}
	if s.starterBalance.IsPositive() {
		record.Assets = append(record.Assets, domain.Asset{
			Symbol: domain.DefaultStarterSymbol,
			Amount: s.starterBalance,
		})
	}

	if err := s.store.SaveAll(ctx, append(records, record)); err != nil {
		s.log.WithError(err).Error("Failed to save new account")
		return s.finish(OpRegister, res, domain.ReasonPersistFailed), nil
	}

	res.Record = record.Project()
	res.Session = record.Project()

	s.log.WithField("user_id", record.ID).Info("Account registered")
	return s.finish(OpRegister, res, domain.ReasonSuccess), nil
}

// Authenticate checks credentials and returns the session projection to sign in with.
// Unknown emails and wrong passwords both yield ReasonInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.MutationResult, error) {
	res := domain.MutationResult{}

	if email == "" || password == "" {
		return s.finish(OpAuthenticate, res, domain.ReasonMissingFields), nil
	}

	records, err := s.load(ctx)
	if err != nil {
		return s.unavailable(OpAuthenticate, res, err)
	}

	idx := indexByEmail(records, email)
	if idx < 0 || records[idx].Password != password {
		return s.finish(OpAuthenticate, res, domain.ReasonInvalidCredentials), nil
	}

	res.Record = records[idx].Project()
	res.Session = records[idx].Project()
	return s.finish(OpAuthenticate, res, domain.ReasonSuccess), nil
}

// GetByID returns the projection of the stored record with the given ID
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SessionProjection, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}

	for _, r := range records {
		if r.ID == id {
			return r.Project(), nil
		}
	}

	return nil, domain.ErrUserNotFound
}

// load fetches the collection and refuses one it cannot safely index
func (s *AccountService) load(ctx context.Context) ([]*domain.UserRecord, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *AccountService) hasMissingFields(req any) bool {
	err := s.validate.Struct(req)
	if err == nil {
		return false
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return true
			}
		}
		return false
	}

	// InvalidValidationError means a programming mistake, not user input
	s.log.WithError(err).Error("Request validation failed")
	return true
}

func (s *AccountService) unavailable(op string, res domain.MutationResult, err error) (domain.MutationResult, error) {
	s.log.WithError(err).WithField("operation", op).Error("Record store unavailable")
	res = s.finish(op, res, domain.ReasonStoreUnavailable)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return res, fmt.Errorf("failed to load user records: %w", err)
}

func (s *AccountService) finish(op string, res domain.MutationResult, reason domain.Reason) domain.MutationResult {
	res.Reason = reason
	metrics.RecordAccountOperation(op, string(reason))
	if reason != domain.ReasonSuccess {
		s.log.WithFields(logrus.Fields{"operation": op, "reason": reason}).Debug("Account operation rejected")
	}
	return res
}

// indexByEmail finds a record by exact, case-sensitive email match
func indexByEmail(records []*domain.UserRecord, email string) int {
	for i, r := range records {
		if r.Email == email {
			return i
		}
	}
	return -1
}

func looksLikeEmail(email string) bool {
	return strings.Contains(email, "@")
}

func tooShort(password string) bool {
	return utf8.RuneCountInString(password) < domain.MinPasswordLength
}
