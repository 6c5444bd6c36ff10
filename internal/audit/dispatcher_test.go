package audit

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memorySink) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcher_DeliversThenCloses(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink, zap.NewNop(), 10)

	d.Dispatch(Event{Action: ActionCarePlanCreated})
	d.Dispatch(Event{Action: ActionCarePlanDeleted})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, ActionCarePlanCreated, sink.events[0].Action)

	// dispatch after close is a no-op
	d.Dispatch(Event{Action: ActionMessageSent})
	d.Close()
	assert.Len(t, sink.events, 2)
}

func TestDispatcher_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &memorySink{fail: true}
	d := NewDispatcher(sink, zap.NewNop(), 1)

	d.Dispatch(Event{Action: ActionMessageSent})
	d.Close()

	assert.Empty(t, sink.events)
}

func TestLogger_InsertsRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	uid, cid := uint(2), uint(10)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_logs"`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), ActionMessageSent, "chat_message", sqlmock.AnyArg(), `{"len":5}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err = New(db).Log(context.Background(), Event{
		UserID:   &uid,
		ClientID: &cid,
		Action:   ActionMessageSent,
		Entity:   "chat_message",
		Metadata: map[string]int{"len": 5},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
