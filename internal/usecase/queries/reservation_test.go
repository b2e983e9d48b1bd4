//go:build unit

package queries_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"booking-core/internal/domain/user"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/builder"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationQueriesTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *queriesmock.MockReservationReadStore
	cache *queriesmock.MockReservationCache
	sut   queries.ReservationQueries

	owner    shared.Actor
	stranger shared.Actor
	operator shared.Actor
}

func TestReservationQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationQueriesTestSuite))
}

func (s *ReservationQueriesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = queriesmock.NewMockReservationReadStore(s.ctrl)
	s.cache = queriesmock.NewMockReservationCache(s.ctrl)
	s.sut = queries.NewReservationQueries(s.store, s.cache)

	s.owner = shared.Actor{UserID: uuid.New(), Role: user.RoleViewer}
	s.stranger = shared.Actor{UserID: uuid.New(), Role: user.RoleViewer}
	s.operator = shared.Actor{UserID: uuid.New(), Role: user.RoleOperator}
}

func (s *ReservationQueriesTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// pageOf builds n views, newest first, one minute apart.
func (s *ReservationQueriesTestSuite) pageOf(n int) []*queries.ReservationView {
	base := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	views := make([]*queries.ReservationView, n)
	for i := range views {
		views[i] = builder.NewReservationBuilder().
			WithUserID(s.owner.UserID).
			With(func(b *builder.ReservationBuilder) { b.CreatedAt = base.Add(-time.Duration(i) * time.Minute) }).
			BuildView()
	}
	return views
}

func (s *ReservationQueriesTestSuite) TestGetByID() {
	ctx := context.Background()
	view := builder.NewReservationBuilder().WithUserID(s.owner.UserID).BuildView()

	s.Run("cache hit skips the store", func() {
		s.cache.EXPECT().Get(ctx, view.ID).Return(view, nil)

		got, err := s.sut.GetByID(ctx, s.owner, view.ID)

		s.Require().NoError(err)
		s.Equal(view, got)
	})

	s.Run("cache miss loads and fills the cache", func() {
		gomock.InOrder(
			s.cache.EXPECT().Get(ctx, view.ID).Return(nil, nil),
			s.store.EXPECT().FindByID(ctx, view.ID).Return(view, nil),
			s.cache.EXPECT().Set(ctx, view).Return(nil),
		)

		got, err := s.sut.GetByID(ctx, s.operator, view.ID)

		s.Require().NoError(err)
		s.Equal(view, got)
	})

	s.Run("cache errors fall back to the store", func() {
		s.cache.EXPECT().Get(ctx, view.ID).Return(nil, errors.New("redis: i/o timeout"))
		s.store.EXPECT().FindByID(ctx, view.ID).Return(view, nil)
		s.cache.EXPECT().Set(ctx, view).Return(errors.New("redis: i/o timeout"))

		got, err := s.sut.GetByID(ctx, s.owner, view.ID)

		s.Require().NoError(err)
		s.Equal(view.ID, got.ID)
	})

	s.Run("other requester is forbidden", func() {
		s.cache.EXPECT().Get(ctx, view.ID).Return(view, nil)

		_, err := s.sut.GetByID(ctx, s.stranger, view.ID)

		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.cache.EXPECT().Get(ctx, id).Return(nil, nil)
		s.store.EXPECT().FindByID(ctx, id).Return(nil, infra.WrapRepoErr("reservation not found", errors.New("no rows"), infra.KindNotFound))

		_, err := s.sut.GetByID(ctx, s.owner, id)

		s.True(errs.Is(err, errs.ErrReservationNotFound))
	})
}

func (s *ReservationQueriesTestSuite) TestGetByIDSystem_IgnoresOwnership() {
	ctx := context.Background()
	view := builder.NewReservationBuilder().BuildView()
	s.cache.EXPECT().Get(ctx, view.ID).Return(view, nil)

	got, err := s.sut.GetByIDSystem(ctx, view.ID)

	s.Require().NoError(err)
	s.Equal(view.ID, got.ID)
}

func (s *ReservationQueriesTestSuite) TestListByUser() {
	ctx := context.Background()

	s.Run("first page probes one extra row", func() {
		rows := s.pageOf(3)
		s.store.EXPECT().
			FindByUserPage(ctx, s.owner.UserID, (*queries.Keyset)(nil), int32(3)).
			Return(rows, nil)

		got, next, err := s.sut.ListByUser(ctx, s.owner, s.owner.UserID, nil, 2)

		s.Require().NoError(err)
		s.Len(got, 2)
		s.Require().NotNil(next)

		createdAt, id, err := queries.DecodeAfterCursor(next.After)
		s.Require().NoError(err)
		s.Equal(rows[1].ID, id)
		s.True(rows[1].CreatedAt.Equal(createdAt))
	})

	s.Run("last page has no cursor", func() {
		rows := s.pageOf(2)
		s.store.EXPECT().FindByUserPage(ctx, s.owner.UserID, gomock.Any(), int32(3)).Return(rows, nil)

		got, next, err := s.sut.ListByUser(ctx, s.owner, s.owner.UserID, nil, 2)

		s.Require().NoError(err)
		s.Len(got, 2)
		s.Nil(next)
	})

	s.Run("cursor is decoded into a keyset", func() {
		at := time.Date(2024, 10, 3, 12, 30, 0, 123456000, time.UTC)
		id := uuid.New()
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(at, id)}

		s.store.EXPECT().
			FindByUserPage(ctx, s.owner.UserID, gomock.Any(), int32(queries.DefaultListLimit+1)).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, after *queries.Keyset, _ int32) ([]*queries.ReservationView, error) {
				s.Require().NotNil(after)
				s.Equal(id, after.ID)
				s.True(at.Equal(after.CreatedAt))
				return nil, nil
			})

		got, next, err := s.sut.ListByUser(ctx, s.owner, s.owner.UserID, cursor, 0)

		s.Require().NoError(err)
		s.Empty(got)
		s.Nil(next)
	})

	s.Run("limit is capped", func() {
		s.store.EXPECT().FindByUserPage(ctx, s.owner.UserID, gomock.Any(), int32(queries.MaxListLimit+1)).Return(nil, nil)

		_, _, err := s.sut.ListByUser(ctx, s.owner, s.owner.UserID, nil, 10_000)

		s.Require().NoError(err)
	})

	s.Run("invalid cursor", func() {
		_, _, err := s.sut.ListByUser(ctx, s.owner, s.owner.UserID, &queries.Cursor{After: "not-a-cursor"}, 10)

		s.True(errs.Is(err, queries.ErrInvalidCursor))
	})

	s.Run("other requester is forbidden", func() {
		_, _, err := s.sut.ListByUser(ctx, s.stranger, s.owner.UserID, nil, 10)

		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("staff may list any requester", func() {
		s.store.EXPECT().FindByUserPage(ctx, s.owner.UserID, gomock.Any(), gomock.Any()).Return(nil, nil)

		_, _, err := s.sut.ListByUser(ctx, s.operator, s.owner.UserID, nil, 10)

		s.Require().NoError(err)
	})
}

func (s *ReservationQueriesTestSuite) TestListByBusiness() {
	ctx := context.Background()
	businessID := uuid.New()

	s.Run("staff lists the business", func() {
		rows := s.pageOf(2)
		s.store.EXPECT().FindByBusinessPage(ctx, businessID, (*queries.Keyset)(nil), int32(11)).Return(rows, nil)

		got, next, err := s.sut.ListByBusiness(ctx, s.operator, businessID, nil, 10)

		s.Require().NoError(err)
		if diff := cmp.Diff(rows, got); diff != "" {
			s.Failf("unexpected page", "mismatch (-want +got):\n%s", diff)
		}
		s.Nil(next)
	})

	s.Run("requesters are forbidden", func() {
		_, _, err := s.sut.ListByBusiness(ctx, s.owner, businessID, nil, 10)

		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("store errors pass through", func() {
		dbErr := infra.WrapRepoErr("failed to list reservations", errors.New("connection reset"))
		s.store.EXPECT().FindByBusinessPage(ctx, businessID, gomock.Any(), gomock.Any()).Return(nil, dbErr)

		_, _, err := s.sut.ListByBusiness(ctx, s.operator, businessID, nil, 10)

		s.True(infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 10, 1, 9, 0, 0, 987654321, time.FixedZone("JST", 9*60*60))
	id := uuid.New()

	gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))

	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, at.Truncate(time.Microsecond).UTC(), gotAt, "cursor keeps microseconds in UTC")
}

func TestDecodeAfterCursor_Invalid(t *testing.T) {
	testCases := map[string]string{
		"empty":         "",
		"not base64":    "%%%",
		"truncated":     queries.EncodeAfterCursor(time.Now(), uuid.New())[:4],
		"wrong version": base64.URLEncoding.EncodeToString([]byte("v2:1727773200000000-" + uuid.NewString())),
		"missing id":    "djE6MTcyNzc3MzIwMDAwMDAwMA==",
	}

	for name, cursor := range testCases {
		t.Run(name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 50, queries.ValidateLimit(50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}
