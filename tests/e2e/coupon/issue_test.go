//go:build e2e

package coupon_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"fastpick/internal/infra/db"
	"fastpick/internal/infra/messaging"
	"fastpick/internal/infra/metrics"
	"fastpick/internal/infra/repository"
	"fastpick/internal/infra/uow"
	"fastpick/internal/pkg/clock"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/commands"
	"fastpick/internal/usecase/shared"
	"fastpick/tests/common/builder"
	"fastpick/tests/common/dbtest"
	"fastpick/tests/common/httptest"
	"fastpick/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type IssueE2ETestSuite struct {
	e2e.SharedSuite
}

func TestIssueE2ESuite(t *testing.T) {
	suite.Run(t, new(IssueE2ETestSuite))
}

// liveCoupon builds a coupon whose window contains the wall clock.
func liveCoupon(total int) *builder.CouponBuilder {
	now := time.Now()
	return builder.NewCouponBuilder().
		WithQuantity(total, 0).
		WithWindow(now.Add(-time.Hour), now.Add(time.Hour))
}

type result struct {
	code int
	kind string
}

// claimConcurrently fires one POST per token at once and collects the outcomes.
func (s *IssueE2ETestSuite) claimConcurrently(couponID uuid.UUID, tokens []string) []result {
	body := map[string]string{"coupon_id": couponID.String()}
	results := make([]result, len(tokens))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, tok := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := httptest.PerformRequest(s.T(), s.App.Router, http.MethodPost, "/api/coupon-issues", body, tok)
			var resp struct {
				Error struct {
					Kind string `json:"kind"`
				} `json:"error"`
			}
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			results[i] = result{code: rec.Code, kind: resp.Error.Kind}
		}()
	}
	close(start)
	wg.Wait()
	return results
}

func tally(rs []result) map[int]int {
	out := map[int]int{}
	for _, r := range rs {
		out[r.code]++
	}
	return out
}

func (s *IssueE2ETestSuite) memberTokens(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		_, tokens[i] = s.JWT.MemberToken(s.T())
	}
	return tokens
}

func (s *IssueE2ETestSuite) TestConcurrentClaims() {
	s.Run("100 users claim 100 units: every claim succeeds", func() {
		c := liveCoupon(100).MustBuildDomain()
		dbtest.InsertCoupon(s.T(), s.DB, c)

		got := tally(s.claimConcurrently(c.ID(), s.memberTokens(100)))

		s.Equal(map[int]int{http.StatusCreated: 100}, got)
		s.Equal(100, dbtest.IssuedQuantity(s.T(), s.DB, c.ID()))
		s.Equal(100, dbtest.CountIssued(s.T(), s.DB, c.ID()))
		s.Equal(100, dbtest.CountPendingOutbox(s.T(), s.DB))
	})

	s.Run("one user claims 10 times: one success, nine already issued", func() {
		c := liveCoupon(100).MustBuildDomain()
		dbtest.InsertCoupon(s.T(), s.DB, c)
		userID, tok := s.JWT.MemberToken(s.T())
		tokens := make([]string, 10)
		for i := range tokens {
			tokens[i] = tok
		}

		results := s.claimConcurrently(c.ID(), tokens)

		s.Equal(map[int]int{http.StatusCreated: 1, http.StatusConflict: 9}, tally(results))
		for _, r := range results {
			if r.code == http.StatusConflict {
				s.Equal("ALREADY_ISSUED", r.kind)
			}
		}
		s.Equal(1, dbtest.IssuedQuantity(s.T(), s.DB, c.ID()))
		s.Equal(1, dbtest.CountIssuedToUser(s.T(), s.DB, c.ID(), userID))
	})

	s.Run("70 users claim 50 units: 50 succeed, 20 exhausted", func() {
		c := liveCoupon(50).MustBuildDomain()
		dbtest.InsertCoupon(s.T(), s.DB, c)

		results := s.claimConcurrently(c.ID(), s.memberTokens(70))

		s.Equal(map[int]int{http.StatusCreated: 50, http.StatusUnprocessableEntity: 20}, tally(results))
		for _, r := range results {
			if r.code == http.StatusUnprocessableEntity {
				s.Equal("COUPON_EXHAUSTED", r.kind)
			}
		}
		s.Equal(50, dbtest.IssuedQuantity(s.T(), s.DB, c.ID()))
		s.Equal(50, dbtest.CountIssued(s.T(), s.DB, c.ID()))
	})
}

func (s *IssueE2ETestSuite) TestIssuanceConditions() {
	now := time.Now()
	cases := []struct {
		name   string
		build  *builder.CouponBuilder
		status int
		kind   string
	}{
		{
			name:   "before the window",
			build:  liveCoupon(10).WithWindow(now.Add(time.Hour), now.Add(2*time.Hour)),
			status: http.StatusUnprocessableEntity,
			kind:   "COUPON_NOT_AVAILABLE_PERIOD",
		},
		{
			name:   "after the window",
			build:  liveCoupon(10).WithWindow(now.Add(-2*time.Hour), now.Add(-time.Hour)),
			status: http.StatusUnprocessableEntity,
			kind:   "COUPON_NOT_AVAILABLE_PERIOD",
		},
		{
			name:   "disabled",
			build:  liveCoupon(10).Disabled(),
			status: http.StatusUnprocessableEntity,
			kind:   "COUPON_DISABLED",
		},
		{
			name:   "unknown coupon",
			build:  nil,
			status: http.StatusNotFound,
			kind:   "COUPON_NOT_FOUND",
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			couponID := uuid.New()
			if tc.build != nil {
				c := tc.build.MustBuildDomain()
				dbtest.InsertCoupon(s.T(), s.DB, c)
				couponID = c.ID()
			}
			_, tok := s.JWT.MemberToken(s.T())

			rec := httptest.PerformRequest(s.T(), s.App.Router, http.MethodPost, "/api/coupon-issues",
				map[string]string{"coupon_id": couponID.String()}, tok)

			httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.kind)
			if tc.build != nil {
				s.Equal(0, dbtest.IssuedQuantity(s.T(), s.DB, couponID))
				s.Equal(0, dbtest.CountPendingOutbox(s.T(), s.DB))
			}
		})
	}
}

func (s *IssueE2ETestSuite) TestLockTimeout() {
	ctx := context.Background()
	c := liveCoupon(10).MustBuildDomain()
	dbtest.InsertCoupon(s.T(), s.DB, c)

	shortUoW := uow.NewPostgresUoW(s.DB, db.New(), slog.Default(), uow.Options{
		LockTimeout: 200 * time.Millisecond,
		MaxRetries:  3,
	})
	issue := commands.NewIssueCommands(shortUoW, clock.NewRealClock(), nil, nil)

	holder, err := s.DB.Begin(ctx)
	s.Require().NoError(err)
	_, err = holder.Exec(ctx, "SELECT id FROM coupons WHERE id = $1 FOR UPDATE", c.ID())
	s.Require().NoError(err)

	started := time.Now()
	_, err = issue.Issue(ctx, c.ID(), uuid.New())
	elapsed := time.Since(started)

	s.ErrorIs(err, errs.ErrLockTimeout)
	s.True(errs.IsRetryable(err))
	s.Less(elapsed, 2*time.Second, "lock timeouts must not be retried internally")

	s.Require().NoError(holder.Rollback(ctx))

	_, err = issue.Issue(ctx, c.ID(), uuid.New())
	s.NoError(err)
	s.Equal(1, dbtest.IssuedQuantity(s.T(), s.DB, c.ID()))
}

func (s *IssueE2ETestSuite) TestMyCouponsAndRedeem() {
	c := liveCoupon(5).MustBuildDomain()
	dbtest.InsertCoupon(s.T(), s.DB, c)
	_, tok := s.JWT.MemberToken(s.T())

	rec := httptest.PerformRequest(s.T(), s.App.Router, http.MethodPost, "/api/coupon-issues",
		map[string]string{"coupon_id": c.ID().String()}, tok)
	var created struct {
		ID string `json:"id"`
	}
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &created)

	var mine []struct {
		ID       string `json:"id"`
		CouponID string `json:"coupon_id"`
		Status   string `json:"status"`
	}
	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodGet, "/api/my-coupons", nil, tok)
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &mine)
	s.Require().Len(mine, 1)
	s.Equal(created.ID, mine[0].ID)
	s.Equal(c.ID().String(), mine[0].CouponID)
	s.Equal("AVAILABLE", mine[0].Status)

	_, otherTok := s.JWT.MemberToken(s.T())
	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodPost, "/api/my-coupons/"+created.ID+"/redeem", nil, otherTok)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "ISSUED_COUPON_NOT_FOUND")

	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodPost, "/api/my-coupons/"+created.ID+"/redeem", nil, tok)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodGet, "/api/my-coupons", nil, tok)
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &mine)
	s.Equal("USED", mine[0].Status)

	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodGet, "/api/my-coupons?status=AVAILABLE", nil, tok)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", rec.Body.String())

	rec = httptest.PerformRequest(s.T(), s.App.Router, http.MethodGet, "/api/my-coupons?status=used", nil, tok)
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &mine)
	s.Require().Len(mine, 1)
	s.Equal(created.ID, mine[0].ID)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []shared.OutboxEvent
}

func (p *capturePublisher) Publish(_ context.Context, events []shared.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (s *IssueE2ETestSuite) TestOutboxRelay() {
	ctx := context.Background()
	c := liveCoupon(3).MustBuildDomain()
	dbtest.InsertCoupon(s.T(), s.DB, c)
	for range 3 {
		_, err := s.App.Issue.Issue(ctx, c.ID(), uuid.New())
		s.Require().NoError(err)
	}
	s.Equal(3, dbtest.CountPendingOutbox(s.T(), s.DB))

	pub := &capturePublisher{}
	relay := messaging.NewRelay(repository.NewOutboxSource(s.DB, db.New(), slog.Default()), pub,
		clock.NewRealClock(), metrics.New(), time.Second, 2)

	n, err := relay.ProcessOnce(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	n, err = relay.ProcessOnce(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	s.Equal(0, dbtest.CountPendingOutbox(s.T(), s.DB))
	s.Require().Len(pub.events, 3)
	for _, ev := range pub.events {
		s.Equal(shared.TopicCouponIssued, ev.Topic)
		var payload shared.CouponIssuedPayload
		s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
		s.Equal(c.ID(), payload.CouponID)
	}
}
