package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/leetreview/internal/spacedrep"
)

// Table and column names shared by the repositories.
const (
	problemsTable = "problems"
	attemptsTable = "attempts"

	colID                   = "id"
	colTitle                = "title"
	colPlatform             = "platform"
	colURL                  = "url"
	colDifficulty           = "difficulty"
	colTags                 = "tags"
	colNotesTrick           = "notes_trick"
	colNotesMistakes        = "notes_mistakes"
	colNotesEdgeCases       = "notes_edge_cases"
	colCreatedAt            = "created_at"
	colUpdatedAt            = "updated_at"
	colNextDueDate          = "next_due_date"
	colIntervalDays         = "interval_days"
	colMasteryStage         = "mastery_stage"
	colConsecutiveSuccesses = "consecutive_successes"
	colLastOutcome          = "last_outcome"
	colLastAttemptedAt      = "last_attempted_at"

	colProblemID        = "problem_id"
	colAttemptedAt      = "attempted_at"
	colOutcome          = "outcome"
	colTimeSpentMinutes = "time_spent_minutes"
	colNotes            = "notes"
	colStageBefore      = "stage_before"
	colStageAfter       = "stage_after"
	colNextDueDateAfter = "next_due_date_after"
)

// textSize makes string columns unbounded text.
const textSize = 2147483647

var (
	// ProblemsColumns holds the columns for the "problems" table.
	ProblemsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colTitle, Type: field.TypeString},
		{Name: colPlatform, Type: field.TypeString, Default: DefaultPlatform},
		{Name: colURL, Type: field.TypeString, Nullable: true},
		{Name: colDifficulty, Type: field.TypeEnum, Enums: difficultyValues()},
		{Name: colTags, Type: field.TypeJSON},
		{Name: colNotesTrick, Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: colNotesMistakes, Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: colNotesEdgeCases, Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: colUpdatedAt, Type: field.TypeTime},
		{Name: colNextDueDate, Type: field.TypeTime},
		{Name: colIntervalDays, Type: field.TypeInt, Default: 1},
		{Name: colMasteryStage, Type: field.TypeInt, Default: 0},
		{Name: colConsecutiveSuccesses, Type: field.TypeInt, Default: 0},
		{Name: colLastOutcome, Type: field.TypeEnum, Nullable: true, Enums: outcomeValues()},
		{Name: colLastAttemptedAt, Type: field.TypeTime, Nullable: true},
	}
	// ProblemsTable holds the schema information for the "problems" table.
	ProblemsTable = &schema.Table{
		Name:       problemsTable,
		Columns:    ProblemsColumns,
		PrimaryKey: []*schema.Column{ProblemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "problem_next_due_date", Columns: []*schema.Column{column(ProblemsColumns, colNextDueDate)}},
			{Name: "problem_last_attempted_at", Columns: []*schema.Column{column(ProblemsColumns, colLastAttemptedAt)}},
		},
	}

	// AttemptsColumns holds the columns for the "attempts" table.
	AttemptsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colAttemptedAt, Type: field.TypeTime},
		{Name: colOutcome, Type: field.TypeEnum, Enums: outcomeValues()},
		{Name: colTimeSpentMinutes, Type: field.TypeInt, Nullable: true},
		{Name: colNotes, Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: colStageBefore, Type: field.TypeInt},
		{Name: colStageAfter, Type: field.TypeInt},
		{Name: colNextDueDateAfter, Type: field.TypeTime},
		{Name: colProblemID, Type: field.TypeInt},
	}
	// AttemptsTable holds the schema information for the "attempts" table.
	AttemptsTable = &schema.Table{
		Name:       attemptsTable,
		Columns:    AttemptsColumns,
		PrimaryKey: []*schema.Column{AttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "attempts_problems_attempts",
				Columns:    []*schema.Column{column(AttemptsColumns, colProblemID)},
				RefColumns: []*schema.Column{ProblemsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "attempt_attempted_at", Columns: []*schema.Column{column(AttemptsColumns, colAttemptedAt)}},
			{Name: "attempt_problem_id", Columns: []*schema.Column{column(AttemptsColumns, colProblemID)}},
		},
	}

	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		ProblemsTable,
		AttemptsTable,
	}
)

func init() {
	AttemptsTable.ForeignKeys[0].RefTable = ProblemsTable
}

func column(cols []*schema.Column, name string) *schema.Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	panic("store: unknown column " + name)
}

func outcomeValues() []string {
	vals := make([]string, len(spacedrep.Outcomes))
	for i, o := range spacedrep.Outcomes {
		vals[i] = o.String()
	}
	return vals
}

func difficultyValues() []string {
	vals := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		vals[i] = string(d)
	}
	return vals
}
