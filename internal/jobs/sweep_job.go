package job

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// SweepJob discovers due scheduled posts and publishes them. Posts with a
// specific schedule are due when schedule_at has passed; fixed-policy posts
// are due when the owner's wall clock matches their fixed posting time to the
// minute. Each due post is processed independently: one post's failure never
// aborts the rest of the sweep.
type SweepJob struct {
	pr repository.PostRepository
	ur repository.UserRepository
	ps service.PostService
	ms service.MediaService
	li service.LinkedinService

	running atomic.Bool

	// lastFixedRun remembers the last minute each owner's fixed sweep
	// fired, so jittery tick timing cannot publish the same group twice
	// within one minute.
	mu           sync.Mutex
	lastFixedRun map[int64]string
}

func NewSweepJob(
	pr repository.PostRepository,
	ur repository.UserRepository,
	ps service.PostService,
	ms service.MediaService,
	li service.LinkedinService) *SweepJob {
	return &SweepJob{
		pr:           pr,
		ur:           ur,
		ps:           ps,
		ms:           ms,
		li:           li,
		lastFixedRun: make(map[int64]string),
	}
}

// Run is the cron entry point.
func (j *SweepJob) Run() {
	summary := j.RunOnce(context.Background())
	if summary.Skipped {
		return
	}
	slog.Info("sweep finished",
		"processed", summary.ProcessedCount,
		"published", summary.PublishedCount,
		"failed", summary.FailedCount)
}

// RunOnce executes a single sweep tick. If a previous sweep is still running
// the tick is skipped entirely; overlapping sweeps could publish a
// slow-to-update post twice.
func (j *SweepJob) RunOnce(ctx context.Context) *transfer.SweepSummary {
	if !j.running.CompareAndSwap(false, true) {
		slog.Info("sweep still running, skipping tick")
		return &transfer.SweepSummary{Skipped: true}
	}
	defer j.running.Store(false)

	now := time.Now()
	due := j.collectDue(ctx, now)

	summary := &transfer.SweepSummary{ProcessedCount: len(due)}
	if len(due) == 0 {
		return summary
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := j.publishOne(ctx, post)

			mu.Lock()
			summary.Results = append(summary.Results, result)
			if result.Status == models.PostStatusPublished {
				summary.PublishedCount++
			} else {
				summary.FailedCount++
			}
			mu.Unlock()
		}(post)
	}

	wg.Wait()
	return summary
}

// collectDue unions the two scheduling policies: specifically scheduled
// posts whose instant has passed, and fixed-policy posts whose owner's
// current minute matches their fixed posting time.
func (j *SweepJob) collectDue(ctx context.Context, now time.Time) []*models.Post {
	var due []*models.Post

	specific, err := j.pr.ListDueSpecific(ctx, now)
	if err != nil {
		slog.Error("error listing due posts", "error", err.Error())
	} else {
		due = append(due, specific...)
	}

	fixed, err := j.pr.ListFixedScheduled(ctx)
	if err != nil {
		slog.Error("error listing fixed-schedule posts", "error", err.Error())
		return due
	}

	byOwner := make(map[int64][]*models.Post)
	for _, post := range fixed {
		byOwner[post.UserID] = append(byOwner[post.UserID], post)
	}

	for ownerID, group := range byOwner {
		if j.fixedTimeMatches(ctx, ownerID, now) {
			due = append(due, group...)
		}
	}

	return due
}

func (j *SweepJob) fixedTimeMatches(ctx context.Context, ownerID int64, now time.Time) bool {
	owner, isExist, err := j.ur.GetByID(ctx, ownerID)
	if err != nil {
		slog.Error("error loading owner for fixed sweep", "user_id", ownerID, "error", err.Error())
		return false
	}
	if !isExist || !owner.FixedScheduleEnabled || !owner.FixedScheduleTime.Valid {
		return false
	}

	loc, err := time.LoadLocation(owner.Timezone)
	if err != nil {
		loc = time.UTC
	}
	localNow := now.In(loc)

	// Minute-granularity match. A delayed tick past this minute misses
	// the window; that tolerance is intentional.
	if localNow.Format(service.FixedTimeLayout) != owner.FixedScheduleTime.String {
		return false
	}

	minute := localNow.Format("2006-01-02 15:04")

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastFixedRun[ownerID] == minute {
		return false
	}
	j.lastFixedRun[ownerID] = minute
	return true
}

// publishOne runs one post through the full pipeline sequentially: resolve
// credential, prepare media, publish, finalize state. Any failure marks the
// post failed with the error text; the external id from a successful publish
// is persisted before local finalization is attempted.
func (j *SweepJob) publishOne(ctx context.Context, post *models.Post) transfer.SweepResult {
	owner, token, err := j.ps.OwnerCredential(ctx, post.UserID)
	if err != nil {
		return j.failed(ctx, post, err)
	}

	if post.Body == "" {
		return j.failed(ctx, post, service.ErrEmptyBody)
	}

	assets, failures := j.ms.Prepare(ctx, token, owner.AuthorURN(), service.RemoteItems(post.AllImages()))
	for _, f := range failures {
		slog.Info("image skipped during sweep", "post_id", post.ID, "ref", f.Ref, "error", f.Error)
	}

	externalID, err := j.li.Publish(ctx, token, owner.AuthorURN(), post.Title, post.Body, assets, service.VisibilityPublic)
	if err != nil {
		return j.failed(ctx, post, err)
	}

	if err := j.ps.MarkPublished(ctx, post, externalID); err != nil {
		// The platform accepted the post; the local write failed. The
		// external id is already on the audit trail, so report the item
		// as published with the inconsistency attached.
		return transfer.SweepResult{PostID: post.ID, Status: models.PostStatusPublished, Error: err.Error()}
	}

	return transfer.SweepResult{PostID: post.ID, Status: models.PostStatusPublished}
}

func (j *SweepJob) failed(ctx context.Context, post *models.Post, cause error) transfer.SweepResult {
	slog.Info("sweep item failed", "post_id", post.ID, "error", cause.Error())
	if err := j.ps.MarkFailed(ctx, post, cause); err != nil {
		slog.Error("error marking post failed", "post_id", post.ID, "error", err.Error())
	}
	return transfer.SweepResult{PostID: post.ID, Status: models.PostStatusFailed, Error: cause.Error()}
}
