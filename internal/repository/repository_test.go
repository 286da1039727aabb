package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

func strPtr(s string) *string { return &s }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestDistributorCreateStoresFieldsAsSubmitted(t *testing.T) {
	mock := newMock(t)
	repo := NewDistributorRepository(mock)

	d := &model.Distributor{
		Name:        strPtr("Ravi"),
		Mobile:      strPtr("9876543210"),
		Location:    strPtr("Pune"),
		ProductType: strPtr("seeds"),
		Password:    strPtr("plain-secret"),
	}
	mock.ExpectQuery("INSERT INTO distributors").
		WithArgs(d.Name, d.Mobile, d.Location, d.ProductType, strPtr("plain-secret")).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID != 7 {
		t.Fatalf("expected id 7, got %d", d.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDistributorCreatePassesMissingFieldsAsNull(t *testing.T) {
	mock := newMock(t)
	repo := NewDistributorRepository(mock)

	var null *string
	d := &model.Distributor{Name: strPtr("Only Name")}
	mock.ExpectQuery("INSERT INTO distributors").
		WithArgs(d.Name, null, null, null, null).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFarmerCreateAllowsDuplicateMobile(t *testing.T) {
	mock := newMock(t)
	repo := NewFarmerRepository(mock)

	for _, id := range []int64{1, 2} {
		mock.ExpectQuery("INSERT INTO farmers").
			WithArgs(strPtr("Asha"), strPtr("9000000000"), strPtr("Nashik"), strPtr("pw")).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
	}

	var ids []int64
	for i := 0; i < 2; i++ {
		f := &model.Farmer{Name: strPtr("Asha"), Mobile: strPtr("9000000000"), Location: strPtr("Nashik"), Password: strPtr("pw")}
		if err := repo.Create(context.Background(), f); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, f.ID)
	}
	if ids[0] == ids[1] {
		t.Fatalf("expected two distinct rows, got ids %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFarmerCreateWrapsStoreError(t *testing.T) {
	mock := newMock(t)
	repo := NewFarmerRepository(mock)

	boom := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO farmers").WillReturnError(boom)

	f := &model.Farmer{Name: strPtr("Asha")}
	err := repo.Create(context.Background(), f)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if f.ID != 0 {
		t.Fatalf("failed insert must not assign an id")
	}
}

func TestChatInsertMessageReturnsStoredRow(t *testing.T) {
	mock := newMock(t)
	repo := NewChatRepository(mock)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(model.SenderUser, "conn-1", model.AdminID, "hi").
		WillReturnRows(pgxmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(11), ts))

	m, err := repo.InsertMessage(context.Background(), model.NewChatMessage{
		SenderType: model.SenderUser,
		SenderID:   "conn-1",
		ReceiverID: model.AdminID,
		Message:    "hi",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if m.ID != 11 || !m.Timestamp.Equal(ts) || m.Message != "hi" || m.ReceiverID != model.AdminID {
		t.Fatalf("unexpected stored row %+v", m)
	}
}

func TestChatGetHistoryOrdersAscending(t *testing.T) {
	mock := newMock(t)
	repo := NewChatRepository(mock)

	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cols := []string{"id", "sender_type", "sender_id", "receiver_id", "message", "timestamp"}
	mock.ExpectQuery(`WHERE sender_id = \$1 OR receiver_id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), model.SenderUser, "u1", model.AdminID, "hi", t0).
			AddRow(int64(2), model.SenderAdmin, model.AdminID, "u1", "hello u1", t0.Add(time.Second)))

	msgs, err := repo.GetHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Message != "hi" || msgs[1].Message != "hello u1" || msgs[1].SenderType != model.SenderAdmin {
		t.Fatalf("unexpected history %+v", msgs)
	}
}

func TestChatGetHistoryEmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	repo := NewChatRepository(mock)

	mock.ExpectQuery("FROM messages").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_type", "sender_id", "receiver_id", "message", "timestamp"}))

	msgs, err := repo.GetHistory(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestLegacyChatInsertAndList(t *testing.T) {
	mock := newMock(t)
	repo := NewLegacyChatRepository(mock)

	mock.ExpectExec("INSERT INTO chats").
		WithArgs(strPtr("farmer-1"), strPtr("price of onions?")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FROM chats").
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender", "message"}).
			AddRow(int64(1), strPtr("farmer-1"), strPtr("price of onions?")).
			AddRow(int64(2), (*string)(nil), strPtr("anonymous")))

	ctx := context.Background()
	if err := repo.Insert(ctx, model.LegacyChatRequest{Sender: strPtr("farmer-1"), Message: strPtr("price of onions?")}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	chats, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chats) != 2 || chats[0].Sender == nil || *chats[0].Sender != "farmer-1" {
		t.Fatalf("unexpected chats %+v", chats)
	}
	if chats[1].Sender != nil {
		t.Fatalf("NULL sender should stay nil, got %q", *chats[1].Sender)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
