package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/render"
	"github.com/xavierca1/ligue-crm/internal/infra/tracking"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// O logger ainda não existe.
		os.Stderr.WriteString("configuração inválida: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "ligue-crm",
	})
	if err != nil {
		os.Stderr.WriteString("falha ao iniciar logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		log.Fatal("falha ao conectar no banco", zap.Error(err))
	}
	defer db.Close()

	// 1. Repositórios
	userRepo := database.NewUserRepository(db)
	indicationRepo := database.NewIndicationRepository(db)
	leadRepo := database.NewLeadRepository(db)
	pipelineRepo := database.NewPipelineRepository(db)
	eventRepo := database.NewEventRepository(db)
	pageRepo := database.NewPageRepository(db)

	// 2. Fila e email (opcionais)
	var (
		notifier usecase.LeadNotifier
		mqState  handlers.ConnectionState
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()

		notifier = queue.NewProducer(rabbitMQ.Ch)
		mqState = rabbitMQ.Conn

		var channels []queue.NewLeadNotifier
		if cfg.MailEnabled() {
			channels = append(channels, mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.PublicBaseURL))
		}
		if cfg.WhatsAppEnabled() {
			channels = append(channels, whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.WhatsAppAPIURL))
		}

		if len(channels) > 0 {
			// Canal AMQP próprio para o consumidor.
			workerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.Fatal("falha ao abrir canal do worker", zap.Error(err))
			}
			notificationWorker := queue.NewWorker(workerCh, userRepo, channels...)
			go func() {
				if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
					log.Error("worker de notificações parou", zap.Error(err))
				}
			}()
		} else {
			log.Warn("nenhum canal de notificação configurado; avisos ficam na fila")
		}
	} else {
		log.Warn("RABBITMQ_URL ausente; notificações de lead desligadas")
	}

	tracker := tracking.NewTracker(eventRepo, cfg.TrackingTimeout)

	// EVENT_RETENTION_DAYS=0 mantém os eventos para sempre.
	if cfg.EventRetention > 0 {
		go worker.NewEventRetentionWorker(eventRepo, cfg.EventRetention).Start(ctx)
	}

	jwtUtil, err := auth.NewJWTUtil(cfg.JWTSigningKey, cfg.JWTExpiration)
	if err != nil {
		log.Fatal("configuração de JWT inválida", zap.Error(err))
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatal("falha ao carregar templates", zap.Error(err))
	}

	// 3. UseCases e handlers
	captureUC := usecase.NewCaptureLeadUseCase(userRepo, indicationRepo, leadRepo, tracker, notifier)

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Auth:           jwtUtil,
		Lead:           handlers.NewLeadHandler(captureUC, cfg.CaptureRateLimit),
		Leads: &handlers.LeadsHandler{
			ListUC:   usecase.NewListLeadsUseCase(leadRepo, pipelineRepo),
			GetUC:    usecase.NewGetLeadUseCase(leadRepo),
			CreateUC: usecase.NewCreateLeadUseCase(leadRepo, pipelineRepo),
			UpdateUC: usecase.NewUpdateLeadUseCase(leadRepo, pipelineRepo, cfg.Location),
			MoveUC:   usecase.NewMoveLeadUseCase(leadRepo, pipelineRepo),
			DeleteUC: usecase.NewDeleteLeadUseCase(leadRepo),
			ImportUC: usecase.NewImportLeadsUseCase(leadRepo, pipelineRepo),
		},
		Pipelines: &handlers.PipelineHandler{
			CreateUC: usecase.NewCreatePipelineUseCase(pipelineRepo),
			ListUC:   usecase.NewListPipelinesUseCase(pipelineRepo),
			BoardUC:  usecase.NewGetBoardUseCase(pipelineRepo, leadRepo),
			DeleteUC: usecase.NewDeletePipelineUseCase(pipelineRepo),
		},
		Pages: &handlers.PageHandler{
			RenderUC: usecase.NewRenderPageUseCase(userRepo, pageRepo, tracker),
			UpdateUC: usecase.NewUpdatePageUseCase(pageRepo),
			Renderer: renderer,
		},
		Events: &handlers.EventHandler{ClickUC: usecase.NewTrackClickUseCase(userRepo, tracker)},
		Health: handlers.NewHealthHandler(db, mqState, cfg.MailEnabled()),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("servidor rodando", zap.String("port", cfg.ServerPort), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown forçado", zap.Error(err))
	}
	tracker.Wait()
	log.Info("servidor encerrado")
}
