package bank

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/simbank/errors"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/observability"
)

// SwapChecker reports when the SIM behind a phone number was last changed.
// The simswap client satisfies this; tests substitute fakes.
type SwapChecker interface {
	RetrieveDate(ctx context.Context, accessToken, phoneNumber string) (time.Time, error)
}

// Service is the demo bank: one account, one stored customer configuration.
type Service struct {
	cfg     Config
	checker SwapChecker
	log     *logger.Logger

	mu         sync.Mutex
	balance    float64
	msisdn     string
	configType string
}

// NewService creates the bank with its starting balance and stored config.
// checker may be nil, in which case the risk check is skipped with a warning.
func NewService(cfg Config, checker SwapChecker, log *logger.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bank config: %w", err)
	}
	return &Service{
		cfg:        cfg,
		checker:    checker,
		log:        log.WithComponent("bank"),
		balance:    cfg.InitialBalance,
		msisdn:     cfg.DefaultMSISDN,
		configType: "sim_swap",
	}, nil
}

// Snapshot is the read model for the landing page.
type Snapshot struct {
	Balance    float64 `json:"balance"`
	MSISDN     string  `json:"msisdn"`
	ConfigType string  `json:"config_type"`
}

// Snapshot returns the current account state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Balance: s.balance, MSISDN: s.msisdn, ConfigType: s.configType}
}

// SubmitConfig replaces the stored customer configuration.
func (s *Service) SubmitConfig(msisdn, configType string) error {
	if msisdn == "" {
		return errors.MissingField("msisdn")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msisdn = msisdn
	if configType != "" {
		s.configType = configType
	}
	s.log.Info("Stored customer configuration updated", logger.Fields(
		"msisdn", msisdn,
		"config_type", s.configType,
	))
	return nil
}

// Transfer debits amount from the account. Amounts above the risk threshold
// first run a SIM-swap recency check with the caller's access token: a swap
// inside the swap window blocks the transfer. A failing check is logged and
// does not block, matching the demo's permissive posture.
func (s *Service) Transfer(ctx context.Context, amount float64, accessToken string) (float64, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanBankTransfer)
	defer span.End()

	if amount <= 0 {
		return 0, errors.InvalidInput("amount", "please enter a positive value")
	}

	s.mu.Lock()
	balance := s.balance
	msisdn := s.msisdn
	s.mu.Unlock()

	if amount > balance {
		return 0, errors.Conflict("Insufficient funds.")
	}

	if amount > s.cfg.RiskThreshold {
		if err := s.riskCheck(ctx, accessToken, msisdn); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if amount > s.balance {
		// balance changed while the risk check ran
		return 0, errors.Conflict("Insufficient funds.")
	}
	s.balance -= amount
	s.log.Info("Transfer completed", logger.Fields(
		"amount", amount,
		"balance", s.balance,
	))
	return s.balance, nil
}

func (s *Service) riskCheck(ctx context.Context, accessToken, msisdn string) error {
	if s.checker == nil || accessToken == "" {
		s.log.Warn("SIM swap check skipped", logger.Fields(
			"has_checker", s.checker != nil,
			"has_token", accessToken != "",
		))
		return nil
	}

	swapped, err := s.checker.RetrieveDate(ctx, accessToken, msisdn)
	if err != nil {
		// check failure must not block the transfer
		s.log.Error("SIM swap check failed", logger.ErrorFields("sim swap check", err))
		return nil
	}
	if swapped.IsZero() {
		return nil
	}

	if time.Since(swapped) < s.cfg.SwapWindow {
		s.log.Warn("Transfer blocked by recent SIM swap", logger.Fields(
			"swapped_at", swapped.Format(time.RFC3339),
			"window", s.cfg.SwapWindow.String(),
		))
		return errors.New(errors.ErrCodeForbidden,
			"Transfer blocked due to recent SIM swap. Please contact customer service.",
			http.StatusForbidden)
	}
	return nil
}
