package job

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name string `json:"name"`
}

type greetTask struct {
	got []greetPayload
	err error
}

func (t *greetTask) Name() string { return "greet" }

func (t *greetTask) Handle(_ context.Context, p greetPayload) error {
	t.got = append(t.got, p)
	return t.err
}

type tickTask struct {
	schedule string
	runs     int
}

func (t *tickTask) Name() string     { return "tick" }
func (t *tickTask) Schedule() string { return t.schedule }

func (t *tickTask) Handle(context.Context) error {
	t.runs++
	return nil
}

func newTestConfig(opts ...Option) *config {
	cfg := &config{
		registry:   newRegistry(),
		queues:     make(map[string]int),
		logger:     slog.New(slog.DiscardHandler),
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func TestNewManagerRequiresPool(t *testing.T) {
	t.Parallel()
	_, err := NewManager(nil)
	require.ErrorIs(t, err, ErrPoolRequired)
}

func TestParseCronSchedule(t *testing.T) {
	t.Parallel()

	t.Run("valid expressions", func(t *testing.T) {
		t.Parallel()
		for _, expr := range []string{"* * * * *", "0 * * * *", "*/15 * * * *", "0 9 * * 1-5"} {
			s, err := parseCronSchedule(expr)
			require.NoError(t, err, expr)
			require.NotNil(t, s)
		}
	})

	t.Run("invalid expressions", func(t *testing.T) {
		t.Parallel()
		for _, expr := range []string{"", "* * *", "61 * * * *", "0 0 * * * *", "not a cron"} {
			_, err := parseCronSchedule(expr)
			require.Error(t, err, expr)
		}
	})

	t.Run("hourly next run", func(t *testing.T) {
		t.Parallel()
		s, err := parseCronSchedule("0 * * * *")
		require.NoError(t, err)

		from := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), s.Next(from))
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("typed task decodes payload", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		cfg := newTestConfig(WithTask[greetPayload](task))

		exec, ok := cfg.registry.get("greet")
		require.True(t, ok)
		require.NoError(t, exec(context.Background(), json.RawMessage(`{"name":"alice"}`)))
		assert.Equal(t, []greetPayload{{Name: "alice"}}, task.got)
	})

	t.Run("empty payload yields zero value", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		cfg := newTestConfig(WithTask[greetPayload](task))

		exec, _ := cfg.registry.get("greet")
		require.NoError(t, exec(context.Background(), nil))
		assert.Equal(t, []greetPayload{{}}, task.got)
	})

	t.Run("bad payload", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		cfg := newTestConfig(WithTask[greetPayload](task))

		exec, _ := cfg.registry.get("greet")
		err := exec(context.Background(), json.RawMessage(`{"name":1}`))
		require.ErrorIs(t, err, ErrInvalidPayload)
		assert.Empty(t, task.got)
	})

	t.Run("scheduled tasks are registered", func(t *testing.T) {
		t.Parallel()
		task := &tickTask{schedule: "0 * * * *"}
		cfg := newTestConfig(WithScheduledTask(task))

		jobs, err := periodicJobs(cfg)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, []string{"tick"}, cfg.registry.names())

		exec, _ := cfg.registry.get("tick")
		require.NoError(t, exec(context.Background(), nil))
		assert.Equal(t, 1, task.runs)
	})

	t.Run("bad schedule", func(t *testing.T) {
		t.Parallel()
		cfg := newTestConfig(WithScheduledTask(&tickTask{schedule: "every hour"}))
		_, err := periodicJobs(cfg)
		require.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestTaskWorker(t *testing.T) {
	t.Parallel()

	t.Run("dispatches by name", func(t *testing.T) {
		t.Parallel()
		task := &greetTask{}
		cfg := newTestConfig(WithTask[greetPayload](task))
		w := &taskWorker{registry: cfg.registry, logger: cfg.logger}

		err := w.execute(context.Background(), taskArgs{TaskName: "greet", Payload: json.RawMessage(`{"name":"bob"}`)}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "bob", task.got[0].Name)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		cfg := newTestConfig()
		w := &taskWorker{registry: cfg.registry, logger: cfg.logger}

		err := w.execute(context.Background(), taskArgs{TaskName: "nope"}, 1, 1)
		require.ErrorIs(t, err, ErrUnknownTask)
	})

	t.Run("propagates handler error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		task := &greetTask{err: boom}
		cfg := newTestConfig(WithTask[greetPayload](task))
		w := &taskWorker{registry: cfg.registry, logger: cfg.logger}

		err := w.execute(context.Background(), taskArgs{TaskName: "greet"}, 1, 2)
		require.ErrorIs(t, err, boom)
	})
}

func TestBuildJob(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		args, opts, err := buildJob("greet", greetPayload{Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, "authflow:task", args.Kind())
		assert.Equal(t, "greet", args.TaskName)
		assert.JSONEq(t, `{"name":"x"}`, string(args.Payload))
		assert.Empty(t, opts.Queue)
		assert.True(t, opts.ScheduledAt.IsZero())
		assert.Zero(t, opts.MaxAttempts)
		assert.False(t, opts.UniqueOpts.ByArgs)
	})

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()
		args, _, err := buildJob("tick", nil)
		require.NoError(t, err)
		assert.Nil(t, args.Payload)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()
		before := time.Now()
		_, opts, err := buildJob("greet", nil,
			InQueue("mail"),
			ScheduledIn(time.Minute),
			MaxAttempts(5),
			UniqueFor(time.Hour),
		)
		require.NoError(t, err)
		assert.Equal(t, "mail", opts.Queue)
		assert.Equal(t, 5, opts.MaxAttempts)
		assert.True(t, opts.ScheduledAt.After(before.Add(59*time.Second)))
		assert.True(t, opts.UniqueOpts.ByArgs)
		assert.Equal(t, time.Hour, opts.UniqueOpts.ByPeriod)
	})

	t.Run("unencodable payload", func(t *testing.T) {
		t.Parallel()
		_, _, err := buildJob("greet", make(chan int))
		require.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("ignores invalid option values", func(t *testing.T) {
		t.Parallel()
		_, opts, err := buildJob("greet", nil, InQueue(""), MaxAttempts(-1))
		require.NoError(t, err)
		assert.Empty(t, opts.Queue)
		assert.Zero(t, opts.MaxAttempts)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(WithQueue("mail", 3), WithQueue("", 5), WithQueue("x", 0), WithMaxWorkers(4), WithMaxWorkers(0), WithLogger(nil))
	assert.Equal(t, map[string]int{"mail": 3}, cfg.queues)
	assert.Equal(t, 4, cfg.maxWorkers)
	assert.NotNil(t, cfg.logger)
}
