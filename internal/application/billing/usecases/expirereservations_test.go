package usecases

import (
	"context"
	"testing"
	"time"

	"inboxlift/internal/application/billing/testutil"
	enttestutil "inboxlift/internal/application/entitlement/testutil"
	"inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/pricing"
)

// expiredReservation builds a pending reservation whose TTL already lapsed.
func expiredReservation(t *testing.T, repo *testutil.MockReservationRepository, tierRepo *testutil.MockTierRepository, email string) *billing.Reservation {
	t.Helper()
	if err := tierRepo.ReserveSeat(context.Background(), pricing.TierFoundersProgram); err != nil {
		t.Fatalf("ReserveSeat() error = %v", err)
	}
	reservation, err := billing.NewReservation(email, pricing.TierFoundersProgram, time.Nanosecond)
	if err != nil {
		t.Fatalf("NewReservation() error = %v", err)
	}
	if err := repo.Create(context.Background(), reservation); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	time.Sleep(time.Millisecond)
	return reservation
}

// TestExpireReservations_ReleasesAbandonedSeats verifies the sweeper frees
// seats whose checkout never finished.
func TestExpireReservations_ReleasesAbandonedSeats(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 0, 30, true)
	reservationRepo := testutil.NewMockReservationRepository()

	abandoned := expiredReservation(t, reservationRepo, tierRepo, "gone@example.com")

	uc := NewExpireReservationsUseCase(reservationRepo, tierRepo, enttestutil.NewMockLogger())

	released, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}
	if got := tierRepo.CurrentSeats(pricing.TierFoundersProgram); got != 0 {
		t.Errorf("founders seats = %d, want 0", got)
	}
	if stored := reservationRepo.GetBySID(abandoned.SID()); stored.Status() != billing.ReservationStatusReleased {
		t.Errorf("reservation status = %s, want released", stored.Status())
	}
}

// TestExpireReservations_LeavesLiveOnesAlone verifies unexpired pending
// reservations keep their seats.
func TestExpireReservations_LeavesLiveOnesAlone(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 0, 30, true)
	reservationRepo := testutil.NewMockReservationRepository()

	if err := tierRepo.ReserveSeat(context.Background(), pricing.TierFoundersProgram); err != nil {
		t.Fatalf("ReserveSeat() error = %v", err)
	}
	live, err := billing.NewReservation("active@example.com", pricing.TierFoundersProgram, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewReservation() error = %v", err)
	}
	if err := reservationRepo.Create(context.Background(), live); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uc := NewExpireReservationsUseCase(reservationRepo, tierRepo, enttestutil.NewMockLogger())

	released, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if released != 0 {
		t.Errorf("released = %d, want 0", released)
	}
	if got := tierRepo.CurrentSeats(pricing.TierFoundersProgram); got != 1 {
		t.Errorf("founders seats = %d, want 1", got)
	}
}

// staleListingRepo serves a sweep listing captured before a concurrent
// settler wrote, while delegating writes to the shared store.
type staleListingRepo struct {
	*testutil.MockReservationRepository
	listing []*billing.Reservation
}

func (r *staleListingRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*billing.Reservation, error) {
	return r.listing, nil
}

// TestExpireReservations_RaceWithWebhookFreesOneSeat verifies that when the
// expiry webhook and the sweeper both load the same pending reservation
// before either persists, only the winner of the conditional transition
// releases the seat.
func TestExpireReservations_RaceWithWebhookFreesOneSeat(t *testing.T) {
	h := newWebhookHarness(t)
	reservation := h.pendingReservation(t, "gone@example.com", "cs_test_001")
	// A second buyer's seat, so a double release would be visible as 0.
	if err := h.tierRepo.ReserveSeat(context.Background(), pricing.TierFoundersProgram); err != nil {
		t.Fatalf("ReserveSeat() error = %v", err)
	}

	// The copy of the row the sweeper read before the webhook wrote.
	stale, err := billing.ReconstructReservation(
		reservation.ID(),
		reservation.SID(),
		reservation.Email(),
		reservation.TierName(),
		reservation.ProviderSessionID(),
		billing.ReservationStatusPending,
		reservation.ExpiresAt(),
		reservation.CreatedAt(),
		reservation.UpdatedAt(),
	)
	if err != nil {
		t.Fatalf("ReconstructReservation() error = %v", err)
	}
	sweeper := NewExpireReservationsUseCase(
		&staleListingRepo{MockReservationRepository: h.reservationRepo, listing: []*billing.Reservation{stale}},
		h.tierRepo,
		enttestutil.NewMockLogger(),
	)

	// Webhook settles first.
	event := WebhookEvent{ID: "evt_race", Type: WebhookCheckoutExpired, SessionID: "cs_test_001"}
	if err := h.uc.Execute(context.Background(), event); err != nil {
		t.Fatalf("webhook Execute() unexpected error = %v", err)
	}

	// The sweeper then acts on its stale pending copy.
	released, err := sweeper.Execute(context.Background())
	if err != nil {
		t.Fatalf("sweeper Execute() unexpected error = %v", err)
	}
	if released != 0 {
		t.Errorf("sweeper released = %d, want 0 (webhook already owned the transition)", released)
	}
	if h.tierRepo.ReleaseCalls != 1 {
		t.Errorf("ReleaseCalls = %d, want 1 for one reservation", h.tierRepo.ReleaseCalls)
	}
	if got := h.tierRepo.CurrentSeats(pricing.TierFoundersProgram); got != 1 {
		t.Errorf("founders seats = %d, want 1 (the other buyer's hold must survive)", got)
	}
}

// TestExpireReservations_EmptySweep verifies a quiet system sweeps clean.
func TestExpireReservations_EmptySweep(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 0, 30, true)

	uc := NewExpireReservationsUseCase(testutil.NewMockReservationRepository(), tierRepo, enttestutil.NewMockLogger())

	released, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if released != 0 {
		t.Errorf("released = %d, want 0", released)
	}
}
