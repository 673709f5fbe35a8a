package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"plate-service/internal/metrics"
	"plate-service/internal/model"
	"plate-service/internal/repository"
	"plate-service/internal/sidecode"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedSideCode = errors.New("unsupported sidecode")
	ErrStoreNotConfigured  = errors.New("sidecode store is not configured")
)

const maxCheckListLimit = 500

type SideCodeStore interface {
	LoadRegistry(ctx context.Context) (map[string][]string, error)
	ReplaceCountry(ctx context.Context, country string, sideCodes []string) error
}

type CheckStore interface {
	Create(ctx context.Context, check *model.PlateCheck) error
	List(ctx context.Context, filter repository.PlateCheckListFilter) ([]model.PlateCheck, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PlateCheck, error)
}

type PlateInput struct {
	Plate        string
	Country      string
	IgnoreDashes bool
}

type ValidateResult struct {
	Plate   string `json:"plate"`
	Country string `json:"country"`
	Valid   bool   `json:"valid"`
}

type FormatResult struct {
	Plate     string `json:"plate"`
	Country   string `json:"country"`
	Formatted string `json:"formatted"`
	SideCode  string `json:"side_code"`
}

type SideCodeResult struct {
	Plate    string `json:"plate"`
	Country  string `json:"country"`
	SideCode string `json:"side_code"`
}

type CountrySideCodes struct {
	Country   string   `json:"country"`
	SideCodes []string `json:"side_codes"`
}

type PlateService struct {
	validator atomic.Pointer[sidecode.Validator]
	sideCodes SideCodeStore
	checks    CheckStore
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewPlateService serves plates from validator. sideCodes, checks and m may be
// nil; without a SideCodeStore the registry cannot be changed at runtime and
// without a CheckStore no check log is kept.
func NewPlateService(validator *sidecode.Validator, sideCodes SideCodeStore, checks CheckStore, m *metrics.Metrics, log zerolog.Logger) *PlateService {
	s := &PlateService{
		sideCodes: sideCodes,
		checks:    checks,
		metrics:   m,
		log:       log,
	}
	s.validator.Store(validator)
	return s
}

func (s *PlateService) Validate(ctx context.Context, principal model.Principal, input PlateInput) (*ValidateResult, error) {
	start := time.Now()
	v := s.validator.Load()

	valid, err := v.IsValidPlate(input.Plate, input.Country, input.IgnoreDashes)

	check := s.newCheck(principal, model.PlateOperationValidate, input)
	check.Valid = valid
	s.finish(ctx, check, err, start)
	if err != nil {
		return nil, mapError(err)
	}

	return &ValidateResult{
		Plate:   input.Plate,
		Country: countryCode(input.Country),
		Valid:   valid,
	}, nil
}

func (s *PlateService) Format(ctx context.Context, principal model.Principal, input PlateInput) (*FormatResult, error) {
	start := time.Now()
	v := s.validator.Load()

	sideCode, err := v.FindSideCode(input.Plate, input.Country, input.IgnoreDashes)
	var formatted string
	if err == nil {
		formatted, err = v.FormatPlate(input.Plate, input.Country, input.IgnoreDashes)
	}

	check := s.newCheck(principal, model.PlateOperationFormat, input)
	if err == nil {
		check.Valid = true
		check.SideCode = &sideCode
		check.Formatted = &formatted
	}
	s.finish(ctx, check, err, start)
	if err != nil {
		return nil, mapError(err)
	}

	return &FormatResult{
		Plate:     input.Plate,
		Country:   countryCode(input.Country),
		Formatted: formatted,
		SideCode:  sideCode,
	}, nil
}

func (s *PlateService) FindSideCode(ctx context.Context, principal model.Principal, input PlateInput) (*SideCodeResult, error) {
	start := time.Now()
	v := s.validator.Load()

	sideCode, err := v.FindSideCode(input.Plate, input.Country, input.IgnoreDashes)

	check := s.newCheck(principal, model.PlateOperationSideCode, input)
	if err == nil {
		check.Valid = true
		check.SideCode = &sideCode
	}
	s.finish(ctx, check, err, start)
	if err != nil {
		return nil, mapError(err)
	}

	return &SideCodeResult{
		Plate:    input.Plate,
		Country:  countryCode(input.Country),
		SideCode: sideCode,
	}, nil
}

func (s *PlateService) Countries() []string {
	return s.validator.Load().Countries()
}

func (s *PlateService) SideCodes(country string) (*CountrySideCodes, error) {
	codes, err := s.validator.Load().SideCodes(country)
	if err != nil {
		return nil, mapError(err)
	}
	return &CountrySideCodes{Country: countryCode(country), SideCodes: codes}, nil
}

// ReplaceSideCodes stores a new ordered sidecode list for country and swaps in
// a validator built from the stored registry. An empty list removes the country.
// Templates are stored as given apart from surrounding whitespace; a template
// with symbols outside X, 9, ? and - fails when a plate of its length is
// evaluated. When the list is stored but the reload fails, the error is logged
// and returned while the previous validator keeps serving until the next
// successful Reload.
func (s *PlateService) ReplaceSideCodes(ctx context.Context, principal model.Principal, country string, sideCodes []string) (*CountrySideCodes, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if s.sideCodes == nil {
		return nil, ErrStoreNotConfigured
	}

	country = countryCode(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country is required", ErrInvalidInput)
	}
	cleaned := make([]string, 0, len(sideCodes))
	for _, code := range sideCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty sidecode", ErrInvalidInput)
		}
		cleaned = append(cleaned, code)
	}

	if err := s.sideCodes.ReplaceCountry(ctx, country, cleaned); err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		s.log.Error().Err(err).
			Str("country", country).
			Str("user_id", principal.UserID).
			Msg("sidecodes stored but registry reload failed; serving previous registry")
		return nil, fmt.Errorf("sidecodes stored for %s, reload failed: %w", country, err)
	}

	s.log.Info().
		Str("country", country).
		Strs("side_codes", cleaned).
		Str("user_id", principal.UserID).
		Msg("sidecodes replaced")

	return &CountrySideCodes{Country: country, SideCodes: cleaned}, nil
}

// Reload rebuilds the validator from the SideCodeStore.
func (s *PlateService) Reload(ctx context.Context) error {
	if s.sideCodes == nil {
		return ErrStoreNotConfigured
	}
	registry, err := s.sideCodes.LoadRegistry(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	v, err := sidecode.NewWithRegistry(registry)
	if err != nil {
		return fmt.Errorf("build validator: %w", err)
	}
	s.validator.Store(v)
	s.metrics.IncrementRegistryReloads()
	return nil
}

type ListChecksInput struct {
	Country   string
	Plate     string
	Operation string
	Limit     int
}

func (s *PlateService) ListChecks(ctx context.Context, input ListChecksInput) ([]model.PlateCheck, error) {
	if s.checks == nil {
		return []model.PlateCheck{}, nil
	}

	filter := repository.PlateCheckListFilter{Limit: input.Limit}
	if filter.Limit <= 0 || filter.Limit > maxCheckListLimit {
		filter.Limit = maxCheckListLimit
	}
	if country := countryCode(input.Country); country != "" {
		filter.Country = &country
	}
	if input.Plate != "" {
		normalized, ok := sidecode.Normalize(input.Plate, true)
		if !ok {
			return nil, fmt.Errorf("%w: plate is empty", ErrInvalidInput)
		}
		filter.NormalizedPlate = &normalized
	}
	if input.Operation != "" {
		op := model.PlateOperation(strings.ToUpper(input.Operation))
		switch op {
		case model.PlateOperationValidate, model.PlateOperationFormat, model.PlateOperationSideCode:
			filter.Operation = &op
		default:
			return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, input.Operation)
		}
	}

	checks, err := s.checks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return checks, nil
}

func (s *PlateService) GetCheck(ctx context.Context, id string) (*model.PlateCheck, error) {
	checkID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if s.checks == nil {
		return nil, ErrNotFound
	}
	check, err := s.checks.GetByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, ErrNotFound
	}
	return check, nil
}

func (s *PlateService) newCheck(principal model.Principal, op model.PlateOperation, input PlateInput) *model.PlateCheck {
	check := &model.PlateCheck{
		Operation:    op,
		Plate:        input.Plate,
		Country:      countryCode(input.Country),
		IgnoreDashes: input.IgnoreDashes,
	}
	if normalized, ok := sidecode.Normalize(input.Plate, true); ok {
		check.NormalizedPlate = normalized
	}
	if principal.UserID != "" {
		userID := principal.UserID
		check.RequestedBy = &userID
	}
	return check
}

// finish records the check outcome. A failing check log never fails the request.
func (s *PlateService) finish(ctx context.Context, check *model.PlateCheck, err error, start time.Time) {
	outcome := metrics.OutcomeValid
	switch {
	case err == nil && !check.Valid:
		outcome = metrics.OutcomeNoMatch
	case errors.Is(err, sidecode.ErrSideCodeNotFound):
		outcome = metrics.OutcomeNoMatch
	case errors.Is(err, sidecode.ErrInvalidArgument), errors.Is(err, sidecode.ErrCountryNotFound):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	}

	if err != nil {
		msg := err.Error()
		check.Error = &msg
	}

	if errors.Is(err, sidecode.ErrUnsupportedSymbol) {
		s.log.Error().Err(err).
			Str("country", check.Country).
			Str("plate", check.Plate).
			Msg("registry contains an unsupported sidecode")
	}

	if s.checks != nil {
		if recErr := s.checks.Create(ctx, check); recErr != nil {
			s.log.Warn().Err(recErr).Str("operation", string(check.Operation)).Msg("failed to record plate check")
		}
	}

	s.metrics.ObservePlateCheck(string(check.Operation), outcome, start)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sidecode.ErrInvalidArgument):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, sidecode.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, sidecode.ErrUnsupportedSymbol):
		return fmt.Errorf("%w: %w", ErrUnsupportedSideCode, err)
	default:
		return err
	}
}

func countryCode(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}
