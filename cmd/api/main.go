package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/infrastructure/database/postgres"
	"github.com/avilchez/commerce-insights-api/infrastructure/repository"
	"github.com/avilchez/commerce-insights-api/internal/api"
	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/scheduler"
	"github.com/avilchez/commerce-insights-api/internal/usecases/authenticating"
	"github.com/avilchez/commerce-insights-api/internal/usecases/processing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// O warehouse é opcional: sem banco, os resultados vivem só nos artefatos
	var runsRepo repository.AnalysisRunRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()
		runsRepo = repository.NewAnalysisRunRepository(pgConn)
	} else {
		logrus.Info("Persistência no PostgreSQL desabilitada por configuração")
	}

	store := artifact.NewFileStore(cfg.Pipeline.DataDir)
	processor := processing.NewService(cfg, store, runsRepo)
	authenticator := authenticating.NewService(cfg)

	refreshService := scheduler.NewPipelineRefreshService(processor, store, cfg)
	if err := refreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de refresh do pipeline")
	}

	server, err := api.New(cfg, processor, store, authenticator, runsRepo)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
