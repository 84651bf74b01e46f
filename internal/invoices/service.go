package invoices

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Bindsheet/internal/bind"
	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/runner"
	"github.com/shaiso/Bindsheet/internal/smartsheet"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

// defaultFanout — предел одновременных выгрузок в FetchAll.
const defaultFanout = 8

// Service — выгрузка счетов: Bind → целевая таблица Smartsheet.
//
// Реализует runner.Executor — это и есть production-задача
// планировщика ("выполнить задачу компании X").
type Service struct {
	control *smartsheet.ControlSheet
	sheets  *smartsheet.Client
	bind    *bind.Client
	logger  *slog.Logger
	fanout  int
	now     func() time.Time
}

// Config — конфигурация Service.
type Config struct {
	Control *smartsheet.ControlSheet
	Sheets  *smartsheet.Client
	Bind    *bind.Client
	Logger  *slog.Logger

	// Fanout — предел одновременных компаний в FetchAll (default: 8).
	Fanout int

	// Now — источник времени завершения (default: time.Now).
	Now func() time.Time
}

// New создаёт новый Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fanout := cfg.Fanout
	if fanout <= 0 {
		fanout = defaultFanout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		control: cfg.Control,
		sheets:  cfg.Sheets,
		bind:    cfg.Bind,
		logger:  logger,
		fanout:  fanout,
		now:     now,
	}
}

// FetchResult — итог выгрузки одной компании.
type FetchResult struct {
	Client string `json:"client,omitempty"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// FetchAll выгружает счета компаний из контрольной таблицы.
//
// companyID != "" ограничивает выгрузку одной компанией.
// push=true дополнительно пушит счета в целевую таблицу компании.
// Ошибки компаний изолированы: попадают в результат, не прерывая
// остальных. Компании без токена пропускаются с предупреждением.
func (s *Service) FetchAll(ctx context.Context, companyID string, push bool) (map[string]FetchResult, error) {
	companies, err := s.control.Companies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}

	results := make(map[string]FetchResult)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)

	var matched int
	for i := range companies {
		company := companies[i]
		if companyID != "" && company.ID != companyID {
			continue
		}
		matched++

		if company.APIToken == "" {
			s.logger.Warn("company without token, skipped",
				"company_id", company.ID,
				"client", company.Label(),
			)
			continue
		}

		g.Go(func() error {
			count, err := s.syncOne(ctx, &company, push)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[company.ID] = FetchResult{Client: company.Label(), Error: err.Error()}
				s.logger.Error("company sync failed",
					"company_id", company.ID,
					"client", company.Label(),
					"error", err,
				)
				// ошибка уже в результате — группу не роняем
				return nil
			}
			results[company.ID] = FetchResult{Client: company.Label(), Count: count}
			return nil
		})
	}

	g.Wait()

	if companyID != "" && matched == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyID)
	}

	var total int
	for _, res := range results {
		total += res.Count
	}
	s.logger.Info("companies processed",
		"companies", len(results),
		"invoices", total,
		"push", push,
	)

	return results, nil
}

// syncOne выгружает счета одной компании и (опционально) пушит их.
// Возвращает количество скачанных счетов.
func (s *Service) syncOne(ctx context.Context, company *domain.Company, push bool) (int, error) {
	invoices, err := s.bind.FetchInvoices(ctx, company)
	if err != nil {
		return 0, fmt.Errorf("fetch invoices: %w", err)
	}

	s.logger.Debug("invoices fetched",
		"company_id", company.ID,
		"count", len(invoices),
	)

	if push && company.DestSheetID != "" {
		if err := s.push(ctx, company, invoices); err != nil {
			return len(invoices), fmt.Errorf("push to sheet: %w", err)
		}
	}

	return len(invoices), nil
}

// Execute реализует runner.Executor: полная синхронизация одной
// компании (fetch + push). Момент завершения становится last_run.
func (s *Service) Execute(ctx context.Context, companyID string) (*runner.Result, error) {
	results, err := s.FetchAll(ctx, companyID, true)
	if err != nil {
		return nil, err
	}

	res, ok := results[companyID]
	if !ok {
		// компания есть в таблице, но без токена
		return nil, fmt.Errorf("%w: %s", ErrNoToken, companyID)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("sync company %s: %s", companyID, res.Error)
	}

	telemetry.WithCompanyID(s.logger, companyID).Info("scheduled sync completed",
		"invoices", res.Count,
	)

	return &runner.Result{
		CompletedAt: s.now(),
		Invoices:    res.Count,
	}, nil
}
