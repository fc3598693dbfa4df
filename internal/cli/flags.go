package cli

import "io"

const defaultConfigPath = "siteflow.yaml"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:"siteflow.yaml"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand runs the HTTP API (ingestion, stats, queue inspection) without workers.
type ServeCommand struct {
	globals *GlobalFlags
}

// WorkCommand runs the worker pool only.
type WorkCommand struct {
	globals *GlobalFlags
}

// AllCommand runs the HTTP API and the worker pool in one process.
type AllCommand struct {
	Dev bool `long:"dev" description:"Use the in-memory queue and event store"`

	globals *GlobalFlags
}

// MigrateCommand applies database migrations and exits.
type MigrateCommand struct {
	globals *GlobalFlags
}

// DLQCommand groups the dead-letter subcommands.
type DLQCommand struct{}

// DLQListCommand prints dead-lettered jobs as JSON.
type DLQListCommand struct {
	Limit int `long:"limit" description:"Maximum jobs to list" default:"100"`

	globals *GlobalFlags
	out     io.Writer
}

// DLQRedriveCommand enqueues a fresh job for a dead-lettered job's event.
type DLQRedriveCommand struct {
	Args struct {
		JobID string `positional-arg-name:"job_id" description:"ID of the dead-lettered job"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	out     io.Writer
}
