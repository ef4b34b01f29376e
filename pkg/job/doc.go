// Package job runs background tasks on River (Postgres-backed queue).
//
// Tasks are typed: a task has a Name and a Handle method taking its payload
// type. Payloads travel as JSON inside a single River job kind and are
// dispatched by task name on the worker side.
//
//	m, err := job.NewManager(pool,
//		job.WithTask(tasks.NewSendWelcomeEmail(mailer)),
//		job.WithScheduledTask(tasks.NewReportSignups(repo, log)),
//		job.WithLogger(log),
//	)
//	...
//	err = m.Enqueue(ctx, tasks.SendWelcomeEmailName, tasks.WelcomeEmail{UserID: 7})
//
// Scheduled tasks use five-field cron expressions. River's own tables are
// created by [Migrate].
package job
