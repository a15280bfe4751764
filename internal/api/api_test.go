package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Body   any
	Query  url.Values
	Method string
	Path   string
}

// fakeRequester records calls and answers GETs of list endpoints from sizes.
type fakeRequester struct {
	failOn map[int]error
	answer func(c call, out any) error
	calls  []call
}

func (f *fakeRequester) record(c call, out any) error {
	f.calls = append(f.calls, c)
	if err, ok := f.failOn[len(f.calls)]; ok {
		return err
	}
	if f.answer != nil {
		return f.answer(c, out)
	}
	return nil
}

func (f *fakeRequester) Get(_ context.Context, path string, q url.Values, out any) error {
	return f.record(call{Method: "GET", Path: path, Query: q}, out)
}

func (f *fakeRequester) Post(_ context.Context, path string, body, out any) error {
	return f.record(call{Method: "POST", Path: path, Body: body}, out)
}

func (f *fakeRequester) Patch(_ context.Context, path string, body, out any) error {
	return f.record(call{Method: "PATCH", Path: path, Body: body}, out)
}

func pages(sizes ...int) func(c call, out any) error {
	i := 0
	return func(_ call, out any) error {
		n := 0
		if i < len(sizes) {
			n = sizes[i]
		}
		i++
		batch := make([]model.Competence, n)
		for j := range batch {
			batch[j].CompetenceID = model.ID(strconv.Itoa(i*100000 + j))
		}
		*(out.(*[]model.Competence)) = batch
		return nil
	}
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []int
		wantTotal int
		wantCalls int
	}{
		{name: "three pages", sizes: []int{5000, 5000, 1200}, wantTotal: 11200, wantCalls: 3},
		{name: "empty", sizes: []int{0}, wantTotal: 0, wantCalls: 1},
		{name: "single short page", sizes: []int{10}, wantTotal: 10, wantCalls: 1},
		{name: "exact multiple", sizes: []int{5000, 0}, wantTotal: 5000, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{answer: pages(tt.sizes...)}
			var progress []int
			got, err := New(f).FetchAll(context.Background(), model.StatusApproved, func(n int) {
				progress = append(progress, n)
			})
			require.NoError(t, err)
			assert.Len(t, got, tt.wantTotal)
			assert.NotNil(t, got)
			require.Len(t, f.calls, tt.wantCalls)

			skip := 0
			for i, c := range f.calls {
				assert.Equal(t, "/api/review/Approved", c.Path)
				assert.Equal(t, strconv.Itoa(skip), c.Query.Get("skip"))
				assert.Equal(t, "5000", c.Query.Get("take"))
				skip += tt.sizes[i]
			}
			if tt.wantTotal > 0 {
				assert.Equal(t, tt.wantTotal, progress[len(progress)-1])
			}
		})
	}
}

func TestFetchAll_PageErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeRequester{answer: pages(5000, 5000, 10), failOn: map[int]error{2: boom}}

	got, err := New(f).GetAllPending(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Len(t, f.calls, 2)
}

func TestListPaths(t *testing.T) {
	f := &fakeRequester{answer: pages()}
	a := New(f)
	ctx := context.Background()

	_, err := a.GetPending(ctx, 0, 50)
	require.NoError(t, err)
	_, err = a.GetApproved(ctx, 50, 50)
	require.NoError(t, err)
	_, err = a.GetRejected(ctx, 0, 10)
	require.NoError(t, err)

	paths := []string{f.calls[0].Path, f.calls[1].Path, f.calls[2].Path}
	assert.Equal(t, []string{"/api/review/pending", "/api/review/Approved", "/api/review/rejected"}, paths)
	assert.Equal(t, "50", f.calls[1].Query.Get("skip"))

	_, err = ListPath("Unknown")
	assert.Error(t, err)
}

func TestReviewActions(t *testing.T) {
	f := &fakeRequester{}
	a := New(f)
	ctx := context.Background()

	require.NoError(t, a.Approve(ctx, "7", "Approved via UI"))
	require.NoError(t, a.Reject(ctx, "42", "too generic"))
	require.NoError(t, a.AssignOther(ctx, "9", "Assigned to Other via UI"))
	area := 1
	require.NoError(t, a.UpdateCategorization(ctx, "5", Categorization{AreaID: &area}))

	require.Len(t, f.calls, 4)
	assert.Equal(t, call{Method: "POST", Path: "/api/review/7/approve", Body: map[string]string{"reviewNotes": "Approved via UI"}}, f.calls[0])
	assert.Equal(t, call{Method: "POST", Path: "/api/review/42/reject", Body: map[string]string{"reviewNotes": "too generic"}}, f.calls[1])
	assert.Equal(t, "/api/review/9/assign-other", f.calls[2].Path)
	assert.Equal(t, "PATCH", f.calls[3].Method)
	assert.Equal(t, "/api/review/5/update-categorization", f.calls[3].Path)

	assert.Error(t, a.Review(ctx, "1", "delete", ""))
}

func TestMapLines_JoinsLines(t *testing.T) {
	f := &fakeRequester{}
	_, err := New(f).MapLines(context.Background(), []string{"Go", "Welding"})
	require.NoError(t, err)
	assert.Equal(t, "Go\nWelding", f.calls[0].Body)
	assert.Equal(t, "/api/area-mapper/map-lines", f.calls[0].Path)
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{name: "empty username", username: "", password: "pw", wantMsg: "Username is required"},
		{name: "empty password", username: "alice", password: "", wantMsg: "Password is required"},
		{name: "long username", username: strings.Repeat("a", 101), password: "pw", wantMsg: "Username cannot exceed 100 characters"},
		{name: "long password", username: "alice", password: strings.Repeat("p", 201), wantMsg: "Password cannot exceed 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{}
			_, err := New(f).Login(context.Background(), tt.username, tt.password)
			var userErr *common.UserError
			require.ErrorAs(t, err, &userErr)
			assert.Contains(t, userErr.UserMessage, tt.wantMsg)
			assert.Empty(t, f.calls)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	f := &fakeRequester{answer: func(_ call, out any) error {
		*(out.(*model.Session)) = model.Session{Token: "t1", Username: "alice"}
		return nil
	}}

	s, err := New(f).Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.Session{Token: "t1", Username: "alice"}, s)
	assert.Equal(t, LoginRequest{Username: "alice", Password: "secret"}, f.calls[0].Body)
}

func TestLoginRequest_FieldErrors(t *testing.T) {
	assert.Empty(t, LoginRequest{Username: "alice", Password: "pw"}.FieldErrors())

	got := LoginRequest{Password: strings.Repeat("p", 201)}.FieldErrors()
	assert.Equal(t, map[string]string{
		"username": "Username is required",
		"password": "Password cannot exceed 200 characters",
	}, got)
}
