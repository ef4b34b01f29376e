package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/app"
	"github.com/dmitrymomot/authflow/app/emails"
	"github.com/dmitrymomot/authflow/app/repository"
	"github.com/dmitrymomot/authflow/app/tasks"
	"github.com/dmitrymomot/authflow/middlewares"
	"github.com/dmitrymomot/authflow/pkg/cache"
	"github.com/dmitrymomot/authflow/pkg/db"
	"github.com/dmitrymomot/authflow/pkg/health"
	"github.com/dmitrymomot/authflow/pkg/job"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/mailer"
	"github.com/dmitrymomot/authflow/pkg/mailer/resend"
	"github.com/dmitrymomot/authflow/pkg/password"
	"github.com/dmitrymomot/authflow/pkg/redis"
	"github.com/dmitrymomot/authflow/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the background workers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.LoadConfig[app.Config](envFile)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg app.Config) error {
	log, err := logger.New(cfg.Log, logger.WithExtractors(
		middlewares.RequestIDExtractor(),
		middlewares.UserIDExtractor(),
	))
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return err
	}

	users := repository.New(pool)
	mail := mailer.New(newSender(cfg, log), mailer.NewRenderer(emails.FS), cfg.Mailer)

	jobs, err := job.NewManager(pool,
		job.WithLogger(log),
		job.WithMaxWorkers(cfg.JobWorkers),
		job.WithTask(tasks.NewSendWelcomeEmail(mail, log)),
		job.WithScheduledTask(tasks.NewReportSignups(users, log)),
	)
	if err != nil {
		pool.Close()
		_ = rdb.Close()
		return err
	}

	checkCache := cache.NewMemory[bool]()
	sessions := session.NewCacheStore(cache.NewRedis[session.Record](rdb, cache.WithPrefix(cfg.SessionPrefix)))

	server := app.NewServer(app.Deps{
		Config:     cfg,
		Logger:     log,
		Users:      users,
		Hasher:     password.NewHasher(cfg.BcryptCost),
		Jobs:       jobs,
		Sessions:   sessions,
		JobManager: jobs,
		CheckCache: checkCache,
		Readiness: health.Checks{
			"postgres": db.Healthcheck(pool),
			"redis":    redis.Healthcheck(rdb),
			"jobs":     jobs.Healthcheck(),
		},
	})

	log.Info("starting authflow", slog.String("addr", cfg.Addr))
	return server.Run(cfg.Addr,
		authflow.WithContext(ctx),
		authflow.Logger(log),
		authflow.ShutdownTimeout(cfg.ShutdownTimeout),
		authflow.ShutdownHook(func(context.Context) error { return checkCache.Close() }),
		authflow.ShutdownHook(redis.Shutdown(rdb)),
		authflow.ShutdownHook(db.Shutdown(pool)),
		authflow.ShutdownHook(logger.FlushSentry(2*time.Second)),
	)
}

// newSender delivers through Resend when an API key is configured and logs
// the emails otherwise.
func newSender(cfg app.Config, log *slog.Logger) mailer.Sender {
	if cfg.Resend.Enabled() {
		return resend.New(cfg.Resend)
	}
	log.Warn("RESEND_API_KEY is not set, emails will be logged")
	return mailer.LogSender(log)
}
