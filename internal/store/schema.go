package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableUsers     = "users"
	tableSessions  = "sessions"
	tablePlans     = "plans"
	tableProgress  = "exam_progress"
	tableLLMEvents = "llm_request_events"
)

var (
	usersEmail = &schema.Column{Name: "email", Type: field.TypeString}

	// UsersTable holds registered accounts.
	UsersTable = schema.NewTable(tableUsers).
			AddPrimary(usersEmail).
			AddColumn(&schema.Column{Name: "name", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "password_hash", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64})

	// SessionsTable holds at most one row: the logged-in account.
	SessionsTable = schema.NewTable(tableSessions).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "email", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64})

	plansOwner = &schema.Column{Name: "owner_email", Type: field.TypeString}

	// PlansTable holds study plans. Blocks and completed days are JSON text.
	PlansTable = schema.NewTable(tablePlans).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeString}).
			AddColumn(plansOwner).
			AddColumn(&schema.Column{Name: "name", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "law_title", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "total_days", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "blocks", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "completed_days", Type: field.TypeString, Default: "[]"}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64}).
			AddIndex("plans_owner_created", false, []string{"owner_email", "created_at"})

	progressOwner = &schema.Column{Name: "owner_email", Type: field.TypeString}

	// ProgressTable holds in-flight mock exams keyed by block selection.
	ProgressTable = schema.NewTable(tableProgress).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
			AddColumn(progressOwner).
			AddColumn(&schema.Column{Name: "progress_key", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "current_idx", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "answers", Type: field.TypeString, Default: "{}"}).
			AddColumn(&schema.Column{Name: "elapsed_secs", Type: field.TypeInt64, Default: 0}).
			AddColumn(&schema.Column{Name: "questions", Type: field.TypeString, Default: "[]"}).
			AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeInt64}).
			AddIndex("exam_progress_owner_key", true, []string{"owner_email", "progress_key"})

	// LLMEventsTable records every AI request for cost tracking and debugging.
	LLMEventsTable = schema.NewTable(tableLLMEvents).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
			AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
			AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeInt64}).
			AddColumn(&schema.Column{Name: "provider", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "model", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "purpose", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0}).
			AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
			AddColumn(&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "request_body", Type: field.TypeString, Default: ""}).
			AddColumn(&schema.Column{Name: "response_body", Type: field.TypeString, Default: ""}).
			AddIndex("llm_request_events_purpose", false, []string{"purpose"}).
			AddIndex("llm_request_events_timestamp", false, []string{"timestamp"})

	// Tables lists every table in creation order.
	Tables = []*schema.Table{
		UsersTable,
		SessionsTable,
		PlansTable,
		ProgressTable,
		LLMEventsTable,
	}
)

func init() {
	PlansTable.ForeignKeys = []*schema.ForeignKey{{
		Symbol:     "plans_users_plans",
		Columns:    []*schema.Column{plansOwner},
		RefTable:   UsersTable,
		RefColumns: []*schema.Column{usersEmail},
		OnDelete:   schema.Cascade,
	}}
	ProgressTable.ForeignKeys = []*schema.ForeignKey{{
		Symbol:     "exam_progress_users_progress",
		Columns:    []*schema.Column{progressOwner},
		RefTable:   UsersTable,
		RefColumns: []*schema.Column{usersEmail},
		OnDelete:   schema.Cascade,
	}}
}
