package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/distr-sh/recoverd/internal/apierrors"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/mail"
	"github.com/distr-sh/recoverd/internal/security"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerScope = "github.com/distr-sh/recoverd/internal/recovery"

type Config struct {
	// Host is the base URL used in recovery mails.
	Host string
	// TokenValidDuration of 0 issues tokens that never expire.
	TokenValidDuration time.Duration
}

type Service struct {
	store  Store
	parser KeyParser
	mailer mail.Mailer
	config Config
	tracer trace.Tracer
}

type Option func(*Service)

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = provider.Tracer(tracerScope) }
}

func NewService(store Store, parser KeyParser, mailer mail.Mailer, config Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		parser: parser,
		mailer: mailer,
		config: config,
		tracer: otel.Tracer(tracerScope),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Request struct {
	Token string
	Key   string
}

type Result struct {
	AccountID uuid.UUID
	Key       types.KeyDescriptor
	State     State
}

// attempt tracks the state of a single CompleteRecovery call.
type attempt struct {
	state State
	log   *zap.Logger
}

func (a *attempt) advance(next State) {
	a.log.Debug("recovery state changed", zap.Stringer("from", a.state), zap.Stringer("to", next))
	a.state = next
}

// CompleteRecovery consumes the recovery token of the account and binds the
// submitted public key to it. Every failure is returned as *RejectedError and
// leaves token and key binding untouched.
func (s *Service) CompleteRecovery(ctx context.Context, accountIDRaw string, request Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "CompleteRecovery", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	a := &attempt{state: StateRequested, log: internalctx.GetLogger(ctx)}
	result, err := s.completeRecovery(ctx, a, accountIDRaw, request)
	span.SetAttributes(attribute.String("recovery.state", a.state.String()))
	if err != nil {
		rejectedFrom := a.state
		a.advance(StateRejected)
		logRejection(a.log, rejectedFrom, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "recovery rejected")
		return nil, err
	}
	span.SetStatus(codes.Ok, "recovery completed")
	a.log.Info("account recovery completed",
		zap.Stringer("accountId", result.AccountID),
		zap.String("fingerprint", result.Key.Fingerprint))
	return result, nil
}

func (s *Service) completeRecovery(ctx context.Context, a *attempt, accountIDRaw string, request Request) (*Result, error) {
	accountID, err := parseAccountID(accountIDRaw)
	if err != nil {
		return nil, err
	}
	a.log = a.log.With(zap.Stringer("accountId", accountID))

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	secret := security.NormalizeTokenSecret(request.Token)
	if secret == "" || strings.TrimSpace(request.Key) == "" {
		return nil, reject(ReasonNoData, nil)
	}

	if err := s.validateToken(ctx, secret, account.ID); err != nil {
		return nil, err
	}
	a.advance(StateTokenValidated)

	key, err := s.parser.Parse(request.Key)
	if err != nil {
		return nil, reject(ReasonMalformedKey, err)
	}
	a.advance(StateKeyParsed)

	if !KeyBelongsToAccount(key, *account) {
		return nil, reject(ReasonKeyOwnership, nil)
	}
	a.advance(StateOwnershipVerified)

	// The token is consumed before the key is bound so that a lost race never
	// binds a key. Both writes share one transaction.
	err = s.store.RunTx(ctx, func(ctx context.Context) error {
		if err := s.store.ConsumeToken(ctx, secret, account.ID, types.AuthenticationTokenKindRecovery); err != nil {
			if errors.Is(err, apierrors.ErrTokenNotFound) {
				return reject(ReasonTokenConsumed, err)
			}
			return reject(ReasonDependencyFailure, err)
		}
		a.advance(StateTokenConsumed)
		if _, err := s.store.BindKey(ctx, account.ID, key); err != nil {
			return reject(ReasonDependencyFailure, err)
		}
		return nil
	})
	if err != nil {
		if rejected := new(RejectedError); errors.As(err, &rejected) {
			return nil, rejected
		}
		return nil, reject(ReasonDependencyFailure, err)
	}
	a.advance(StateKeyBound)

	return &Result{AccountID: account.ID, Key: key, State: a.state}, nil
}

// CheckToken reports whether secret is a usable recovery token of the account
// without consuming it.
func (s *Service) CheckToken(ctx context.Context, accountIDRaw string, secret string) (*types.Account, error) {
	accountID, err := parseAccountID(accountIDRaw)
	if err != nil {
		return nil, err
	}
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	secret = security.NormalizeTokenSecret(secret)
	if secret == "" {
		return nil, reject(ReasonNoData, nil)
	}
	if err := s.validateToken(ctx, secret, account.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// IssueRecoveryToken creates a recovery token for the account with the given
// username without notifying the account holder.
func (s *Service) IssueRecoveryToken(ctx context.Context, username string) (*types.Account, *types.AuthenticationToken, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, reject(ReasonNoData, nil)
	}
	account, err := s.store.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, nil, reject(ReasonAccountNotFound, err)
		}
		return nil, nil, reject(ReasonDependencyFailure, err)
	}
	if !account.Active {
		return nil, nil, reject(ReasonAccountInactive, nil)
	}
	token, err := s.store.GenerateToken(
		ctx, account.ID, types.AuthenticationTokenKindRecovery, s.config.TokenValidDuration,
	)
	if err != nil {
		if errors.Is(err, apierrors.ErrInvalidAccount) {
			return nil, nil, reject(ReasonAccountNotFound, err)
		}
		return nil, nil, reject(ReasonDependencyFailure, err)
	}
	return account, token, nil
}

// RequestRecovery issues a recovery token and mails the recovery link to the
// account holder.
func (s *Service) RequestRecovery(ctx context.Context, username string) (*types.AuthenticationToken, error) {
	ctx, span := s.tracer.Start(ctx, "RequestRecovery", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	log := internalctx.GetLogger(ctx)

	account, token, err := s.IssueRecoveryToken(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recovery request rejected")
		return nil, err
	}
	log = log.With(zap.Stringer("accountId", account.ID))

	if m, err := mail.RecoveryMail(s.config.Host, *account, *token); err != nil {
		return nil, reject(ReasonDependencyFailure, err)
	} else if err := s.mailer.Send(ctx, m); err != nil {
		log.Warn("could not send recovery mail", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "recovery mail failed")
		return nil, reject(ReasonDependencyFailure, err)
	}

	log.Info("recovery token issued", zap.Timep("expiresAt", token.ExpiresAt))
	span.SetStatus(codes.Ok, "recovery requested")
	return token, nil
}

func parseAccountID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, reject(ReasonMissingID, nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, reject(ReasonInvalidID, err)
	}
	return id, nil
}

func (s *Service) findAccount(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	account, err := s.store.FindAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, reject(ReasonAccountNotFound, err)
		}
		return nil, reject(ReasonDependencyFailure, err)
	}
	return account, nil
}

func (s *Service) validateToken(ctx context.Context, secret string, accountID uuid.UUID) error {
	if !security.IsWellFormedTokenSecret(secret) {
		return reject(ReasonInvalidToken, nil)
	}
	valid, err := s.store.IsTokenValid(ctx, secret, accountID, types.AuthenticationTokenKindRecovery)
	if err != nil {
		return reject(ReasonDependencyFailure, err)
	}
	if !valid {
		return reject(ReasonInvalidToken, nil)
	}
	return nil
}

func logRejection(log *zap.Logger, from State, err error) {
	rejected := new(RejectedError)
	if !errors.As(err, &rejected) {
		log.Error("recovery failed", zap.Error(err))
		return
	}
	fields := []zap.Field{
		zap.Stringer("state", from),
		zap.String("reason", string(rejected.Reason)),
		zap.Stringer("kind", rejected.Kind),
	}
	if rejected.Kind == KindDependency {
		log.Error("recovery rejected", append(fields, zap.Error(rejected.Err))...)
	} else {
		log.Info("recovery rejected", fields...)
	}
}
