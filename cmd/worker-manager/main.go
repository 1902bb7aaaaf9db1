// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"advocacy-workers/internal/common/camunda"
	"advocacy-workers/internal/common/config"
	"advocacy-workers/internal/common/database"
	"advocacy-workers/internal/common/logger"
	"advocacy-workers/internal/common/observability"
	"advocacy-workers/internal/matching"

	// Infrastructure Workers (3)
	bmr "advocacy-workers/internal/workers/infrastructure/build-match-response"
	sot "advocacy-workers/internal/workers/infrastructure/select-outreach-template"
	vmq "advocacy-workers/internal/workers/infrastructure/validate-match-quota"

	// Data Access Workers (2)
	qe "advocacy-workers/internal/workers/data-access/query-elasticsearch"
	qp "advocacy-workers/internal/workers/data-access/query-postgresql"

	// Matching Workers (9)
	ami "advocacy-workers/internal/workers/advocacy/analyze-match-insights"
	bam "advocacy-workers/internal/workers/advocacy/batch-advocate-matches"
	fam "advocacy-workers/internal/workers/advocacy/find-advocate-matches"
	ntm "advocacy-workers/internal/workers/advocacy/notify-top-match"
	pmc "advocacy-workers/internal/workers/advocacy/parse-match-criteria"
	rec "advocacy-workers/internal/workers/advocacy/record-match-run"
	rmr "advocacy-workers/internal/workers/advocacy/route-match-review"
	sap "advocacy-workers/internal/workers/advocacy/score-advocate-pair"
	vmr "advocacy-workers/internal/workers/advocacy/validate-match-request"

	// CRM & Communication Workers (2)
	es "advocacy-workers/internal/workers/communication/email-send"
	so "advocacy-workers/internal/workers/crm/sync-opportunity"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe broker connection")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer camundaClient.Close()
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe broker connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Matching Engine ---
	engineCfg := matching.DefaultConfig()
	if cfg.Matching.EngineConfigPath != "" {
		engineCfg, err = matching.LoadConfigFile(cfg.Matching.EngineConfigPath)
		if err != nil {
			zapLog.Fatal("matching engine config load failed", zap.Error(err))
		}
	}
	engine, err := matching.NewEngine(engineCfg)
	if err != nil {
		zapLog.Fatal("matching engine initialization failed", zap.Error(err))
	}
	zapLog.Info("Matching engine initialized",
		zap.String("configPath", cfg.Matching.EngineConfigPath),
	)

	// --- START: Register ALL 16 Workers ---

	workers := make([]*camunda.CamundaWorker, 0, 16)

	// --- 1. Infrastructure Workers (3) ---
	if wcfg := config.GetWorkerConfig(cfg, vmq.TaskType); wcfg.Enabled {
		vmqCfg := vmq.LoadConfig()
		vmqCfg.Timeout = config.GetDuration(wcfg.Timeout)
		vmqCfg.CounterTTL = time.Duration(cfg.Quota.CounterTTLDays) * 24 * time.Hour
		vmqCfg.DefaultMonthlyLimit = cfg.Quota.DefaultMonthlyLimit
		handler := vmq.NewHandler(vmqCfg, pg.DB, redis.Client, log)
		workers = append(workers, startWorker(zeebeClient, vmq.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, bmr.TaskType); wcfg.Enabled {
		bmrCfg := bmr.LoadConfig()
		if cfg.Template.RegistryPath != "" {
			bmrCfg.TemplateRegistry = cfg.Template.RegistryPath
		}
		if cfg.App.Version != "" {
			bmrCfg.AppVersion = cfg.App.Version
		}
		handler := bmr.NewHandler(bmrCfg, log)
		workers = append(workers, startWorker(zeebeClient, bmr.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, sot.TaskType); wcfg.Enabled {
		sotCfg := sot.LoadConfig()
		if len(cfg.Template.TemplateRules.Decision) > 0 {
			sotCfg.TemplateRules = map[string]map[string]string{
				"decision": cfg.Template.TemplateRules.Decision,
			}
		}
		sotCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := sot.NewHandler(sotCfg, log)
		workers = append(workers, startWorker(zeebeClient, sot.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	// --- 2. Data Access Workers (2) ---
	if wcfg := config.GetWorkerConfig(cfg, qp.TaskType); wcfg.Enabled {
		qpCfg := qp.LoadConfig()
		qpCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := qp.NewHandler(qpCfg, pg.DB, log)
		workers = append(workers, startWorker(zeebeClient, qp.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, qe.TaskType); wcfg.Enabled {
		qeCfg := qe.LoadConfig()
		qeCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := qe.NewHandler(qeCfg, esClient.Client, log)
		workers = append(workers, startWorker(zeebeClient, qe.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	// --- 3. Matching Workers (9) ---
	if wcfg := config.GetWorkerConfig(cfg, pmc.TaskType); wcfg.Enabled {
		handler := pmc.NewHandler(
			&pmc.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, pmc.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, vmr.TaskType); wcfg.Enabled {
		handler := vmr.NewHandler(
			&vmr.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		workers = append(workers, startWorker(zeebeClient, vmr.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, fam.TaskType); wcfg.Enabled {
		handler := fam.NewHandler(
			&fam.Config{
				PoolCacheTTL:     config.GetDuration(cfg.Matching.PoolCacheTTL),
				SlowRunThreshold: config.GetDuration(cfg.Matching.SlowRunThreshold),
				Timeout:          config.GetDuration(wcfg.Timeout),
			},
			engine, pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, fam.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, bam.TaskType); wcfg.Enabled {
		handler := bam.NewHandler(
			&bam.Config{
				PoolCacheTTL:     config.GetDuration(cfg.Matching.PoolCacheTTL),
				SlowRunThreshold: config.GetDuration(cfg.Matching.SlowRunThreshold),
				Timeout:          config.GetDuration(wcfg.Timeout),
			},
			engine, pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, bam.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, sap.TaskType); wcfg.Enabled {
		handler := sap.NewHandler(
			&sap.Config{
				CacheTTL: config.GetDuration(cfg.Matching.ProfileCacheTTL),
				Timeout:  config.GetDuration(wcfg.Timeout),
			},
			engine, pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, sap.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, ami.TaskType); wcfg.Enabled {
		handler := ami.NewHandler(
			&ami.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			engine, log,
		)
		workers = append(workers, startWorker(zeebeClient, ami.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, rmr.TaskType); wcfg.Enabled {
		handler := rmr.NewHandler(
			&rmr.Config{
				CacheTTL: 30 * time.Minute,
				Timeout:  config.GetDuration(wcfg.Timeout),
			},
			pg.DB, redis.Client, log,
		)
		workers = append(workers, startWorker(zeebeClient, rmr.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, rec.TaskType); wcfg.Enabled {
		handler := rec.NewHandler(
			&rec.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			pg.DB, log,
		)
		workers = append(workers, startWorker(zeebeClient, rec.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, ntm.TaskType); wcfg.Enabled {
		ntmCfg := ntm.LoadConfig()
		ntmCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		ntmCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		ntmCfg.FromEmail = cfg.Notifications.Email.FromEmail
		ntmCfg.AWSRegion = cfg.Notifications.AWS.Region
		ntmCfg.TemplateRegistry = cfg.Template.RegistryPath
		ntmCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler, err := ntm.NewHandler(ntmCfg, pg.DB, log)
		if err != nil {
			zapLog.Fatal("failed to create notify-top-match handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, ntm.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	// --- 4. CRM & Communication Workers (2) ---
	if wcfg := config.GetWorkerConfig(cfg, so.TaskType); wcfg.Enabled {
		handler, err := so.NewHandler(so.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create sync-opportunity handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, so.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	if wcfg := config.GetWorkerConfig(cfg, es.TaskType); wcfg.Enabled {
		handler, err := es.NewHandler(es.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create email-send handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, es.TaskType, wcfg, handler.Handle, zapLog, obs))
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	// Drain subscriptions before the deferred client close tears down the
	// connection under running handlers.
	for _, w := range workers {
		w.Stop()
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// startWorker subscribes handlerFunc to taskType, wrapping it so every job
// lands in a trace span and the duration metrics.
func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger, obs *observability.Observability) *camunda.CamundaWorker {
	instrumented := func(jobClient worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), "job.handle",
			attribute.String("task_type", taskType),
			attribute.Int64("job_key", job.Key),
		)
		defer span.End()

		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJobHandled(ctx, taskType, time.Since(start))
	}

	return camunda.NewWorker(client, taskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout), instrumented, log)
}
