//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"booking-core/internal/domain/user"
	"booking-core/internal/handler/dto/request"
	"booking-core/internal/handler/dto/response"
	"booking-core/internal/pkg/config"
	"booking-core/tests/common/authtest"
	"booking-core/tests/common/dbtest"
	"booking-core/tests/common/httptest"
	"booking-core/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	hotelURL        = "/api/reservations/hotel"
	restaurantURL   = "/api/reservations/restaurant"
	myListURL       = "/api/reservations"
	reservationURL  = "/api/reservations/%s"
	transitionURL   = "/api/reservations/%s/%s"
	availabilityURL = "/api/businesses/%s/resources/%s/availability?start=%s&end=%s"
)

type ReservationSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *ReservationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

// The availability index lives for the whole suite while the database is
// reset per subtest, so every subtest books against a fresh room.
func (s *ReservationSuite) newRoom(capacity int) uuid.UUID {
	return dbtest.CreateTestResource(s.T(), s.DB, dbtest.DefaultBusinessID, "room", capacity, "Room "+uuid.NewString()[:4])
}

func (s *ReservationSuite) token(role user.Role) (uuid.UUID, string) {
	id := uuid.New()
	return id, s.jwt.GenerateToken(s.T(), id, role)
}

// night returns the date n days after a fixed future anchor.
func night(n int) string {
	anchor := time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	return anchor.AddDate(0, 0, n).Format(time.DateOnly)
}

func hotelRequest(roomID uuid.UUID, startNight, endNight, guests int) request.CreateHotelReservationRequest {
	return request.CreateHotelReservationRequest{
		BusinessID:       dbtest.DefaultBusinessID,
		RoomID:           roomID,
		StartDate:        night(startNight),
		EndDate:          night(endNight),
		Guests:           guests,
		TotalAmountCents: 45000,
		Currency:         "USD",
	}
}

func (s *ReservationSuite) create(token string, body any, headers map[string]string) (int, *response.ReservationResponse) {
	t := s.T()
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, hotelURL, body, token, headers)
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		return w.Code, nil
	}
	var res response.ReservationResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return w.Code, &res
}

func (s *ReservationSuite) transition(token string, id uuid.UUID, action string) (int, *response.TransitionResponse) {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(transitionURL, id, action), nil, token)
	if w.Code != http.StatusOK {
		return w.Code, nil
	}
	var res response.TransitionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return w.Code, &res
}

func (s *ReservationSuite) available(token string, roomID uuid.UUID, startNight, endNight int) bool {
	t := s.T()
	start, err := time.Parse(time.DateOnly, night(startNight))
	require.NoError(t, err)
	end, err := time.Parse(time.DateOnly, night(endNight))
	require.NoError(t, err)

	u := fmt.Sprintf(availabilityURL, dbtest.DefaultBusinessID, roomID,
		url.QueryEscape(start.Format(time.RFC3339)), url.QueryEscape(end.Format(time.RFC3339)))
	var res response.AvailabilityResponse
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, token)
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	return res.Available
}

// =============================================================================
// TestBookingLifecycle - book, conflict, confirm, cancel, rebook
// =============================================================================

func (s *ReservationSuite) TestBookingLifecycle() {
	s.Run("Normal case: cancelled interval can be booked by another requester", func() {
		t := s.T()
		roomID := s.newRoom(2)
		userA, tokenA := s.token(user.RoleViewer)
		_, tokenB := s.token(user.RoleViewer)
		_, staff := s.token(user.RoleOperator)

		code, a := s.create(tokenA, hotelRequest(roomID, 15, 17, 2), nil)
		require.Equal(t, http.StatusCreated, code)
		expected := &response.ReservationResponse{
			UserID:           userA,
			BusinessID:       dbtest.DefaultBusinessID,
			ResourceID:       roomID,
			ResourceKind:     "room",
			GuestCount:       2,
			Status:           "pending",
			TotalAmountCents: 45000,
			Currency:         "USD",
		}
		opts := cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "ResourceName", "StartAt", "EndAt", "CreatedAt", "UpdatedAt")
		if diff := cmp.Diff(expected, a, opts); diff != "" {
			t.Errorf("reservation mismatch (-want +got):\n%s", diff)
		}
		require.False(t, s.available(tokenB, roomID, 16, 18))

		code, _ = s.create(tokenB, hotelRequest(roomID, 16, 18, 2), nil)
		require.Equal(t, http.StatusConflict, code, "overlapping interval must be rejected")

		code, confirmed := s.transition(staff, a.ID, "confirm")
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "confirmed", confirmed.Status)

		code, cancelled := s.transition(tokenA, a.ID, "cancel")
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "cancelled", cancelled.Status)
		require.Equal(t, "confirmed", cancelled.PreviousStatus)
		require.True(t, s.available(tokenB, roomID, 16, 18))
		require.Empty(t, s.Index.Holds(roomID), "cancel releases the hold")
		require.Equal(t, "cancelled", dbtest.ReservationStatus(t, s.DB, a.ID))

		code, b := s.create(tokenB, hotelRequest(roomID, 16, 18, 2), nil)
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "pending", b.Status)
		holds := s.Index.Holds(roomID)
		require.Len(t, holds, 1)
		require.Equal(t, b.ID, holds[0].Ref)

		require.Equal(t, 3, dbtest.CountReservationEvents(t, s.DB, a.ID))
		require.Equal(t, 1, dbtest.CountReservationEvents(t, s.DB, b.ID))
	})

	s.Run("Normal case: touching intervals do not conflict", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		code, _ := s.create(token, hotelRequest(roomID, 1, 3, 1), nil)
		s.Require().Equal(http.StatusCreated, code)
		code, _ = s.create(token, hotelRequest(roomID, 3, 5, 1), nil)
		s.Require().Equal(http.StatusCreated, code)
	})

	s.Run("Error case: cancelled reservation cannot be cancelled again", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		_, res := s.create(token, hotelRequest(roomID, 1, 3, 1), nil)
		s.Require().NotNil(res)
		code, _ := s.transition(token, res.ID, "cancel")
		s.Require().Equal(http.StatusOK, code)

		code, _ = s.transition(token, res.ID, "cancel")
		s.Equal(http.StatusConflict, code)
	})

	s.Run("Error case: requester cannot confirm", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		_, res := s.create(token, hotelRequest(roomID, 1, 3, 1), nil)
		s.Require().NotNil(res)

		code, _ := s.transition(token, res.ID, "confirm")
		s.Equal(http.StatusForbidden, code)
	})

	s.Run("Error case: guests above capacity", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, hotelURL, hotelRequest(roomID, 1, 3, 3), token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
		s.True(s.available(token, roomID, 1, 3))
	})
}

// =============================================================================
// TestConcurrentBooking - exactly one of many overlapping requests wins
// =============================================================================

func (s *ReservationSuite) TestConcurrentBooking() {
	s.Run("Normal case: one winner among overlapping requests", func() {
		t := s.T()
		roomID := s.newRoom(2)

		const requesters = 12
		codes := make(chan int, requesters)
		var wg sync.WaitGroup
		for i := range requesters {
			_, token := s.token(user.RoleViewer)
			body := hotelRequest(roomID, 10+i%3, 13+i%2, 1)
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, hotelURL, body, token)
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		counts := map[int]int{}
		for code := range codes {
			counts[code]++
		}
		require.Equal(t, map[int]int{http.StatusCreated: 1, http.StatusConflict: requesters - 1}, counts)

		var held int
		err := s.DB.QueryRow(t.Context(), "SELECT count(*) FROM reservations WHERE resource_id = $1", roomID).Scan(&held)
		require.NoError(t, err)
		require.Equal(t, 1, held)
	})
}

// =============================================================================
// TestIdempotency - Idempotency-Key replays
// =============================================================================

func (s *ReservationSuite) TestIdempotency() {
	s.Run("Normal case: same key and body replays", func() {
		t := s.T()
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		code, first := s.create(token, hotelRequest(roomID, 1, 3, 2), headers)
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, hotelURL, hotelRequest(roomID, 1, 3, 2), token, headers)
		var replay response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &replay)
		httptest.AssertHeaders(t, w, map[string]string{"Idempotent-Replayed": "true"})
		require.Equal(t, first.ID, replay.ID)
	})

	s.Run("Error case: same key with another body", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		code, _ := s.create(token, hotelRequest(roomID, 1, 3, 2), headers)
		s.Require().Equal(http.StatusCreated, code)

		code, _ = s.create(token, hotelRequest(roomID, 5, 7, 2), headers)
		s.Equal(http.StatusConflict, code)
	})

	s.Run("Error case: malformed key", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, hotelURL, hotelRequest(roomID, 1, 3, 2), token,
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid idempotency key format")
	})
}

// =============================================================================
// TestRestaurantBooking - time-slot bookings on tables
// =============================================================================

func (s *ReservationSuite) TestRestaurantBooking() {
	s.Run("Normal case: table slot with offset is stored in UTC", func() {
		t := s.T()
		_, token := s.token(user.RoleViewer)
		tableID := dbtest.CreateTestResource(t, s.DB, dbtest.DefaultBusinessID, "table", 4, "Table "+uuid.NewString()[:4])
		day := time.Now().UTC().AddDate(0, 2, 0).Format(time.DateOnly)

		body := request.CreateRestaurantReservationRequest{
			BusinessID: dbtest.DefaultBusinessID,
			TableID:    tableID,
			StartDate:  day + "T19:00:00+02:00",
			EndDate:    day + "T21:00:00+02:00",
			Guests:     4,
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, restaurantURL, body, token)

		var res response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		require.Equal(t, 17, res.StartAt.UTC().Hour())
		require.Equal(t, "table", res.ResourceKind)
		require.Equal(t, "USD", res.Currency)
	})

	s.Run("Error case: room booked through the restaurant path", func() {
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)

		body := request.CreateRestaurantReservationRequest{
			BusinessID: dbtest.DefaultBusinessID,
			TableID:    roomID,
			StartDate:  "2030-01-01T19:00:00Z",
			EndDate:    "2030-01-01T21:00:00Z",
			Guests:     2,
		}
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, restaurantURL, body, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})
}

// =============================================================================
// TestReadAccess - detail and list endpoints
// =============================================================================

func (s *ReservationSuite) TestReadAccess() {
	s.Run("Normal case: owner pages through own reservations", func() {
		t := s.T()
		roomID := s.newRoom(2)
		_, token := s.token(user.RoleViewer)
		for n := 0; n < 3; n++ {
			code, _ := s.create(token, hotelRequest(roomID, n*2, n*2+1, 1), nil)
			require.Equal(t, http.StatusCreated, code)
		}

		seen := map[uuid.UUID]bool{}
		next := ""
		for page := 0; page < 3; page++ {
			u := myListURL + "?limit=2"
			if next != "" {
				u += "&after=" + url.QueryEscape(next)
			}
			var list response.ReservationListResponse
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, token)
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
			for _, item := range list.Items {
				require.False(t, seen[item.ID], "reservation listed twice")
				seen[item.ID] = true
			}
			if list.NextCursor == nil {
				break
			}
			next = *list.NextCursor
		}
		require.Len(t, seen, 3)
	})

	s.Run("Error case: other requester cannot read a reservation", func() {
		roomID := s.newRoom(2)
		_, owner := s.token(user.RoleViewer)
		_, stranger := s.token(user.RoleViewer)
		_, staff := s.token(user.RoleOperator)

		_, res := s.create(owner, hotelRequest(roomID, 1, 2, 1), nil)
		s.Require().NotNil(res)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(reservationURL, res.ID), nil, stranger)
		s.Equal(http.StatusForbidden, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(reservationURL, res.ID), nil, staff)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("Error case: unknown reservation", func() {
		_, token := s.token(user.RoleOperator)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(reservationURL, uuid.New()), nil, token)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestAuthentication - bearer token handling
// =============================================================================

func (s *ReservationSuite) TestAuthentication() {
	s.Run("Error case: missing token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, hotelURL, hotelRequest(dbtest.DefaultRoomID, 1, 2, 1), "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), uuid.New(), user.RoleViewer)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, hotelURL, hotelRequest(dbtest.DefaultRoomID, 1, 2, 1), token)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: token signed with another secret", func() {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "another-secret"})
		token := other.GenerateToken(s.T(), uuid.New(), user.RoleViewer)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, myListURL, nil, token)
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}
