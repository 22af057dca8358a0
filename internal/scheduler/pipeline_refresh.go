// Package scheduler agenda a reexecução periódica do pipeline sobre os
// últimos arquivos brutos persistidos.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/usecases/processing"
)

// PipelineRefreshService reexecuta o pipeline no cron configurado usando os
// artefatos brutos da última execução como entrada.
type PipelineRefreshService struct {
	scheduler *gocron.Scheduler
	cfg       config.Refresh
	processor processing.Processor
	store     artifact.Store

	refreshMutex           sync.Mutex
	refreshRunning         bool
	lastRefreshStartedAt   time.Time
	lastRefreshCompletedAt time.Time
}

func NewPipelineRefreshService(
	processor processing.Processor,
	store artifact.Store,
	appConfig *config.Config,
) *PipelineRefreshService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":   appConfig.Refresh.CronSchedule,
		"refresh_enabled": appConfig.Refresh.Enabled,
	}).Info("Configuração do agendador de refresh do pipeline carregada")

	return &PipelineRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		cfg:       appConfig.Refresh,
		processor: processor,
		store:     store,
	}
}

// Start inicia o agendador
func (s *PipelineRefreshService) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		logrus.Info("Refresh periódico do pipeline desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.cfg.CronSchedule).Info("Iniciando agendador de refresh do pipeline")

	_, err := s.scheduler.Cron(s.cfg.CronSchedule).Do(func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar refresh do pipeline: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de refresh do pipeline")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow dispara um refresh imediato fora do cron.
func (s *PipelineRefreshService) RunNow(ctx context.Context) {
	s.refresh(ctx)
}

// LastRefresh informa o intervalo da última reexecução.
func (s *PipelineRefreshService) LastRefresh() (startedAt, completedAt time.Time) {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()
	return s.lastRefreshStartedAt, s.lastRefreshCompletedAt
}

func (s *PipelineRefreshService) refresh(ctx context.Context) {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Warn("Refresh do pipeline já em andamento, pulando esta execução")
		return
	}
	s.refreshRunning = true
	s.lastRefreshStartedAt = time.Now()
	s.refreshMutex.Unlock()

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.lastRefreshCompletedAt = time.Now()
		s.refreshMutex.Unlock()
	}()

	clientes, err := s.store.ReadTable(artifact.RawCustomers)
	if err != nil {
		logrus.WithError(err).Warn("Refresh pulado: sem arquivo bruto de clientes")
		return
	}
	ventas, err := s.store.ReadTable(artifact.RawSales)
	if err != nil {
		logrus.WithError(err).Warn("Refresh pulado: sem arquivo bruto de vendas")
		return
	}

	result, err := s.processor.Process(ctx, clientes, ventas)
	if err != nil {
		logrus.WithError(err).Error("Refresh do pipeline falhou")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"ventas":   result.TotalSales,
		"ingresos": result.TotalRevenue,
	}).Info("Refresh do pipeline concluído")
}
