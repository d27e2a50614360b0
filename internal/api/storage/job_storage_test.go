package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListJobsQuery(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		query, args := listJobsQuery(JobFilter{PageSize: 20})

		assert.NotContains(t, query, "ILIKE")
		assert.Contains(t, query, "ORDER BY created_at DESC, job_id DESC")
		assert.Contains(t, query, "LIMIT $1")
		assert.Equal(t, []interface{}{21}, args)
	})

	t.Run("search matches title description and company", func(t *testing.T) {
		query, args := listJobsQuery(JobFilter{Search: "golang", PageSize: 20})

		assert.Contains(t, query, "(title ILIKE $1 OR description ILIKE $1 OR company ILIKE $1)")
		assert.Equal(t, "%golang%", args[0])
	})

	t.Run("all filters number placeholders in order", func(t *testing.T) {
		remote := true
		cursor := &JobCursor{CreatedAt: time.Now(), JobID: "a6c95379-9f60-4f2f-9b47-5e01340ff1d8"}
		query, args := listJobsQuery(JobFilter{
			Search:   "engineer",
			Location: "Berlin",
			JobType:  "full-time",
			Remote:   &remote,
			Status:   "active",
			PageSize: 10,
			Cursor:   cursor,
		})

		assert.Contains(t, query, "ILIKE $1")
		assert.Contains(t, query, "location = $2")
		assert.Contains(t, query, "job_type = $3")
		assert.Contains(t, query, "remote = $4")
		assert.Contains(t, query, "status = $5")
		assert.Contains(t, query, "(created_at, job_id) < ($6, $7)")
		assert.Contains(t, query, "LIMIT $8")
		assert.Len(t, args, 8)
		assert.Equal(t, 11, args[7])
	})
}
