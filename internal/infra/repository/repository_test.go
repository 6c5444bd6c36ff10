package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}

func TestCarePlanRepository_DeleteInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarePlanGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "care_plan_items" WHERE care_plan_id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "care_plans" WHERE "care_plans"."id" = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(context.Background(), func(tx domain.Repository) error {
		if err := tx.DeleteItems(context.Background(), 7); err != nil {
			return err
		}
		return tx.DeleteCarePlan(context.Background(), 7)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarePlanRepository_TransactionRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarePlanGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "care_plan_items"`)).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(tx domain.Repository) error {
		return tx.DeleteItems(context.Background(), 7)
	})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarePlanRepository_ListEmptyScopeSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarePlanGormRepository(db)

	plans, err := repo.ListCarePlans(context.Background(), domain.ListFilter{ClientIDs: []uint{}, Limit: 10})

	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarePlanRepository_ListScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarePlanGormRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "care_plans" WHERE client_id IN ($1,$2) ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "analysis_id", "title", "created_at"}).
			AddRow(5, 2, 1, "Evening routine", now).
			AddRow(4, 3, 1, "Morning routine", now.Add(-time.Hour)))

	plans, err := repo.ListCarePlans(context.Background(), domain.ListFilter{ClientIDs: []uint{2, 3}, Limit: 10})

	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, uint(5), plans[0].ID)
	assert.Equal(t, "Morning routine", plans[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookup_ClientIDsForCosmetologist(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatGormRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "clients" WHERE cosmetologist_id = $1 ORDER BY id ASC`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(9))

	ids, err := repo.ListClientIDsForCosmetologist(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, []uint{2, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_ListRecentNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatGormRepository(db)

	t3 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "chat_messages" WHERE client_id = $1 ORDER BY sent_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "sender_id", "is_from_client", "message", "sent_at"}).
			AddRow(3, 2, 10, true, "T3", t3).
			AddRow(2, 2, 4, false, "T2", t3.Add(-time.Minute)))

	msgs, err := repo.ListRecentMessages(context.Background(), 2, 0, 2)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "T3", msgs[0].Message)
	assert.False(t, msgs[1].IsFromClient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserGormRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
