package mysql

const insertRunSQL = `
INSERT INTO pipeline_runs
  (id, reprocessed, row_count, duration_ms, outcome, started_at)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const listRunsSQL = `
SELECT
  id,
  reprocessed,
  row_count,
  duration_ms,
  outcome,
  started_at
FROM pipeline_runs
ORDER BY started_at DESC, id DESC
LIMIT ?
`
