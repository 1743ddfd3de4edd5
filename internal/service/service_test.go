package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/storage"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	"github.com/AdamBeresnev/tennis-leagues/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	recipient string
	subject   string
	body      string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) Send(_ context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{recipient: recipient, subject: subject, body: body})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentEmail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "expected an email to be sent")
	return f.sent[len(f.sent)-1]
}

type fakeUploader struct {
	keys []string
	data [][]byte
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.keys = append(f.keys, key)
	f.data = append(f.data, data)
	location, err := storage.PublicURL("https://cdn.example.com", key)
	if err != nil {
		return nil, err
	}
	return &storage.UploadResult{Key: key, Location: location}, nil
}

var errSendFailed = errors.New("mailbox unavailable")

func newAccountService(t *testing.T) (*AccountService, *fakeSender, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	sender := &fakeSender{}
	svc := NewAccountService(db, store.NewUserStore(db), store.NewCodeStore(db), sender)
	return svc, sender, db
}

func newLeagueService(t *testing.T, uploader storage.FileUploader) (*LeagueService, *store.LeagueStore) {
	t.Helper()
	db := testutil.NewDB(t)
	leagueStore := store.NewLeagueStore(db)
	return NewLeagueService(db, leagueStore, uploader, nil), leagueStore
}
