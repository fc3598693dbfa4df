package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/queue"
	sqlitequeue "github.com/aevon-lab/siteflow/internal/queue/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

// deadLetteredSQLite prepares a sqlite queue file holding one dead-lettered job.
func deadLetteredSQLite(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := sqlitequeue.NewQueue(path, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	defer q.Close()

	jobID, err := q.Enqueue(ctx, v1.Event{SiteID: "siteA", EventType: "pageview", Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	job, err := q.Lease(ctx, "worker-0", time.Minute)
	require.NoError(t, err)
	require.NoError(t, q.DeadLetter(ctx, jobID, job.AttemptCount, "invalid event: site_id is required"))
	return path, jobID
}

func writeSQLiteConfig(t *testing.T, queuePath string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "siteflow.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
queue:
  type: "sqlite"
  dsn: "`+queuePath+`"
store:
  type: "memory"
`), 0o644))
	return cfgPath
}

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureStdout(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Equal(t, "siteflow 0.1.0-test", strings.TrimSpace(output))
}

func TestHelpIsNotAnError(t *testing.T) {
	captureStdout(t, func() {
		assert.NoError(t, RunWithArgs("test", []string{"--help"}))
	})
}

func TestUnknownSubcommandFails(t *testing.T) {
	captureStdout(t, func() {
		assert.Error(t, RunWithArgs("test", []string{"replay"}))
	})
}

func TestSubcommandsRegistered(t *testing.T) {
	parser, _, _, err := buildParser()
	require.NoError(t, err)

	for _, name := range []string{"serve", "work", "all", "migrate", "dlq"} {
		assert.NotNil(t, parser.Find(name), "missing subcommand %q", name)
	}
	dlq := parser.Find("dlq")
	require.NotNil(t, dlq)
	assert.NotNil(t, dlq.Find("list"))
	assert.NotNil(t, dlq.Find("redrive"))
}

func TestDLQList_PrintsDeadLetters(t *testing.T) {
	queuePath, jobID := deadLetteredSQLite(t)
	cfgPath := writeSQLiteConfig(t, queuePath)

	var err error
	output := captureStdout(t, func() {
		err = RunWithArgs("test", []string{"--config", cfgPath, "dlq", "list", "--limit", "5"})
	})
	require.NoError(t, err)

	var jobs []queue.Job
	require.NoError(t, json.Unmarshal([]byte(output), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, jobID, jobs[0].ID)
	assert.Equal(t, queue.StatusDeadLettered, jobs[0].Status)
	assert.Contains(t, jobs[0].LastError, "invalid event")
}

func TestDLQRedrive_EnqueuesFreshJob(t *testing.T) {
	queuePath, jobID := deadLetteredSQLite(t)
	cfgPath := writeSQLiteConfig(t, queuePath)

	var err error
	output := captureStdout(t, func() {
		err = RunWithArgs("test", []string{"--config", cfgPath, "dlq", "redrive", jobID})
	})
	require.NoError(t, err)
	newJobID := strings.TrimSpace(output)
	require.NotEmpty(t, newJobID)
	assert.NotEqual(t, jobID, newJobID)

	q, err := sqlitequeue.NewQueue(queuePath, queue.DefaultRetryPolicy())
	require.NoError(t, err)
	defer q.Close()

	fresh, err := q.Get(context.Background(), newJobID)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusPending, fresh.Status)
	assert.Equal(t, "siteA", fresh.Event.SiteID)
}

func TestDLQRedrive_RequiresJobID(t *testing.T) {
	captureStdout(t, func() {
		assert.Error(t, RunWithArgs("test", []string{"dlq", "redrive"}))
	})
}

func TestDLQList_EmptyQueuePrintsEmptyArray(t *testing.T) {
	var out bytes.Buffer
	cmd := &DLQListCommand{Limit: 10, out: &out}

	require.NoError(t, cmd.executeWithQueue(queue.NewMemoryQueue(queue.DefaultRetryPolicy())))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestMigrate_NothingToDoWithoutPostgres(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "siteflow.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
queue:
  type: "memory"
store:
  type: "memory"
`), 0o644))

	captureStdout(t, func() {
		assert.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "migrate"}))
	})
}
