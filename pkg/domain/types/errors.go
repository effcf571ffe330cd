package types

import "github.com/m-mizutani/goerr/v2"

// Error tags identify the pipeline stage that failed.
var (
	ErrTagIngestion  = goerr.NewTag("ingestion")
	ErrTagRepository = goerr.NewTag("repository")
	ErrTagRoster     = goerr.NewTag("roster")
	ErrTagConfig     = goerr.NewTag("config")
	ErrTagGitHub     = goerr.NewTag("github")
)
