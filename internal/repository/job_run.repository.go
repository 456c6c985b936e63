package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type JobRunRepository interface {
	Add(tx *sql.Tx, jr model.JobRun) (*model.JobRun, error)
	Get(id uuid.UUID) (*model.JobRun, error)
	// GetLatest returns the newest run of jobType in one of states, or nil
	GetLatest(jobType model.JobRunType, states []model.JobRunState) (*model.JobRun, error)
	List(limit int) ([]model.JobRun, error)
	Update(tx *sql.Tx, jr *model.JobRun, columns postgres.ColumnList) (*model.JobRun, error)
}

type jobRunRepositoryHandler struct {
	Db *sql.DB
}

func NewJobRunRepository(db *sql.DB) JobRunRepository {
	return jobRunRepositoryHandler{Db: db}
}

func (h jobRunRepositoryHandler) Add(tx *sql.Tx, jr model.JobRun) (*model.JobRun, error) {
	jr.CreatedAt = time.Now().UTC()
	jr.ModifiedAt = time.Now().UTC()

	query := table.JobRun.
		INSERT(
			table.JobRun.MutableColumns,
		).
		MODEL(jr).
		RETURNING(table.JobRun.AllColumns)

	out := model.JobRun{}
	err := query.Query(dbOrTx(h.Db, tx), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s job run: %w", jr.JobType, err)
	}

	return &out, nil
}

func (h jobRunRepositoryHandler) Update(tx *sql.Tx, jr *model.JobRun, columns postgres.ColumnList) (*model.JobRun, error) {
	jr.ModifiedAt = time.Now().UTC()
	if jr.JobRunID == uuid.Nil {
		return nil, fmt.Errorf("failed to update job run - id not provided in inputted model")
	}
	columns = append(columns, table.JobRun.ModifiedAt)

	query := table.JobRun.
		UPDATE(columns).
		MODEL(jr).
		WHERE(table.JobRun.JobRunID.EQ(
			postgres.UUID(jr.JobRunID),
		)).
		RETURNING(table.JobRun.AllColumns)

	out := model.JobRun{}
	err := query.Query(dbOrTx(h.Db, tx), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update job run %s: %w", jr.JobRunID.String(), err)
	}

	return &out, nil
}

func (h jobRunRepositoryHandler) Get(id uuid.UUID) (*model.JobRun, error) {
	query := table.JobRun.
		SELECT(table.JobRun.AllColumns).
		WHERE(table.JobRun.JobRunID.EQ(postgres.UUID(id)))

	result := model.JobRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get job run %s: %w", id.String(), err)
	}

	return &result, nil
}

func (h jobRunRepositoryHandler) GetLatest(jobType model.JobRunType, states []model.JobRunState) (*model.JobRun, error) {
	conditions := []postgres.BoolExpression{
		table.JobRun.JobType.EQ(postgres.String(jobType.String())),
	}
	if len(states) > 0 {
		stateExpressions := []postgres.Expression{}
		for _, s := range states {
			stateExpressions = append(stateExpressions, postgres.String(s.String()))
		}
		conditions = append(conditions, table.JobRun.State.IN(stateExpressions...))
	}

	query := table.JobRun.
		SELECT(table.JobRun.AllColumns).
		WHERE(postgres.AND(conditions...)).
		ORDER_BY(table.JobRun.CreatedAt.DESC()).
		LIMIT(1)

	result := model.JobRun{}
	err := query.Query(h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s job run: %w", jobType, err)
	}

	return &result, nil
}

func (h jobRunRepositoryHandler) List(limit int) ([]model.JobRun, error) {
	query := table.JobRun.
		SELECT(table.JobRun.AllColumns).
		ORDER_BY(table.JobRun.CreatedAt.DESC())
	if limit > 0 {
		query = query.LIMIT(int64(limit))
	}

	result := []model.JobRun{}
	if err := query.Query(h.Db, &result); err != nil {
		return nil, fmt.Errorf("failed to list job runs: %w", err)
	}

	return result, nil
}
