package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a keyed lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert collides with an existing key.
var ErrDuplicate = errors.New("store: duplicate key")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match
}

// UserRecord is a registered account.
type UserRecord struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create inserts a new account. Returns ErrDuplicate if the email exists.
	Create(ctx context.Context, u UserRecord) error

	// Get returns the account for email, or ErrNotFound.
	Get(ctx context.Context, email string) (*UserRecord, error)

	// Delete removes the account and, through cascading keys, its plans
	// and exam progress.
	Delete(ctx context.Context, email string) error
}

// SessionRepo persists the currently logged-in account across runs.
type SessionRepo interface {
	// Current returns the logged-in email, or "" when nobody is logged in.
	Current(ctx context.Context) (string, error)

	// Set replaces the session with email.
	Set(ctx context.Context, email string) error

	// Clear removes the session.
	Clear(ctx context.Context) error
}

// PlanRecord is a stored study plan. Blocks is opaque JSON owned by the
// plan package.
type PlanRecord struct {
	ID            string
	Owner         string
	Name          string
	LawTitle      string
	TotalDays     int
	Blocks        json.RawMessage
	CompletedDays []int
	CreatedAt     time.Time
}

// PlanRepo manages study plans keyed by owner email.
type PlanRepo interface {
	// Save inserts or replaces a plan.
	Save(ctx context.Context, p PlanRecord) error

	// List returns the owner's plans, newest first.
	List(ctx context.Context, owner string) ([]PlanRecord, error)

	// Get returns one plan, or ErrNotFound.
	Get(ctx context.Context, owner, id string) (*PlanRecord, error)

	// SetCompletedDays overwrites the completed-day markers of a plan.
	SetCompletedDays(ctx context.Context, owner, id string, days []int) error

	// Delete removes one plan. Deleting a missing plan returns ErrNotFound.
	Delete(ctx context.Context, owner, id string) error
}

// ExamProgressRecord is the saved state of an in-flight mock exam.
type ExamProgressRecord struct {
	Owner     string
	Key       string
	Current   int
	Answers   map[int]int
	Elapsed   time.Duration
	Questions json.RawMessage
	UpdatedAt time.Time
}

// ExamProgressRepo manages saved mock exam progress.
type ExamProgressRepo interface {
	// Load returns the saved progress, or nil when none exists.
	Load(ctx context.Context, owner, key string) (*ExamProgressRecord, error)

	// Save upserts progress for (owner, key).
	Save(ctx context.Context, p ExamProgressRecord) error

	// Clear removes progress for (owner, key). Missing rows are not an error.
	Clear(ctx context.Context, owner, key string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one grouping key.
type LLMUsageStats struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to AI request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
