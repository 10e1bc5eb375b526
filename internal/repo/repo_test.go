package repo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"realestate3d/internal/domain"
	"realestate3d/internal/testutil"
)

func newUser(t *testing.T, r *UserRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{Username: email, Email: email, PasswordHash: "x", IsActive: true}
	if err := r.CreateWithProfile(context.Background(), u, &domain.UserProfile{}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepoCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(testutil.NewDB(t))

	u := newUser(t, r, "a@x.com")
	if u.ID == 0 || u.Profile == nil || u.Profile.UserID != u.ID {
		t.Fatalf("profile not linked: %+v", u)
	}

	ok, err := r.ExistsByEmail(ctx, "a@x.com")
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	got, err := r.FindByEmail(ctx, "missing@x.com")
	if err != nil || got != nil {
		t.Fatalf("missing user = %+v, %v", got, err)
	}

	dup := &domain.User{Username: "a@x.com", Email: "a@x.com", PasswordHash: "y", IsActive: true}
	err = r.CreateWithProfile(ctx, dup, &domain.UserProfile{})
	if !IsDupKey(err) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
}

func TestUserRepoCreateRollsBackWhenProfileFails(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	r := NewUserRepo(db)

	errProfile := errors.New("profile insert failed")
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_profile", func(tx *gorm.DB) {
		if tx.Statement.Table == "user_profiles" {
			_ = tx.AddError(errProfile)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	u := &domain.User{Username: "c@x.com", Email: "c@x.com", PasswordHash: "x", IsActive: true}
	if err := r.CreateWithProfile(ctx, u, &domain.UserProfile{}); !errors.Is(err, errProfile) {
		t.Fatalf("expected profile error, got %v", err)
	}
	ok, err := r.ExistsByEmail(ctx, "c@x.com")
	if err != nil || ok {
		t.Fatalf("account left behind after failed profile: exists=%v err=%v", ok, err)
	}
}

func TestUserRepoEnsureProfileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	r := NewUserRepo(db)

	u := &domain.User{Username: "b@x.com", Email: "b@x.com", PasswordHash: "x", IsActive: true}
	if err := db.Omit("Profile").Create(u).Error; err != nil {
		t.Fatalf("create bare user: %v", err)
	}
	p1, err := r.EnsureProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	p2, err := r.EnsureProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("ensure profile again: %v", err)
	}
	if p1.ID != p2.ID {
		t.Fatalf("second call created another profile: %d vs %d", p1.ID, p2.ID)
	}
}

func TestLikeRepoGetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := newUser(t, NewUserRepo(db), "c@x.com")
	r := NewLikeRepo(db)

	first, created, err := r.GetOrCreate(ctx, u.ID, "prop-7")
	if err != nil || !created {
		t.Fatalf("first like: created=%v err=%v", created, err)
	}
	second, created, err := r.GetOrCreate(ctx, u.ID, "prop-7")
	if err != nil || created {
		t.Fatalf("second like: created=%v err=%v", created, err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same record, got %d and %d", first.ID, second.ID)
	}

	likes, err := r.ListByUser(ctx, u.ID)
	if err != nil || len(likes) != 1 {
		t.Fatalf("likes = %d, %v", len(likes), err)
	}
}

func TestLikeRepoConcurrentGetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := newUser(t, NewUserRepo(db), "d@x.com")
	r := NewLikeRepo(db)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := r.GetOrCreate(ctx, u.ID, "same-item")
			if err != nil {
				t.Errorf("get or create: %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	var n int64
	db.Model(&domain.UserLike{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 1 {
		t.Fatalf("persisted likes = %d, want 1", n)
	}
}

func TestBookingRepoOwnershipAndOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := NewUserRepo(db)
	owner := newUser(t, users, "owner@x.com")
	other := newUser(t, users, "other@x.com")
	p := testutil.SeedProperty(t, db, "skyline")
	r := NewBookingRepo(db)

	older := &domain.Booking{UserID: owner.ID, PropertyID: p.ID, Date: "27-02-2026", Time: "09:00 AM", Status: domain.BookingUpcoming}
	newer := &domain.Booking{UserID: owner.ID, PropertyID: p.ID, Date: "28-02-2026", Time: "10:00 AM", Status: domain.BookingUpcoming}
	for _, b := range []*domain.Booking{older, newer} {
		if err := r.Create(ctx, b); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	list, err := r.ListByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Property == nil || list[0].Property.Name != "skyline" {
		t.Fatalf("property not preloaded: %+v", list[0].Property)
	}

	if b, err := r.FindOwned(ctx, newer.ID, other.ID); err != nil || b != nil {
		t.Fatalf("foreign booking visible: %+v %v", b, err)
	}
	b, err := r.FindOwned(ctx, newer.ID, owner.ID)
	if err != nil || b == nil {
		t.Fatalf("own booking: %+v %v", b, err)
	}
	if err := r.Reschedule(ctx, b, "01-03-2026", "11:00 AM"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	again, _ := r.FindOwned(ctx, newer.ID, owner.ID)
	if again.Date != "01-03-2026" || again.Time != "11:00 AM" || again.Status != domain.BookingUpcoming {
		t.Fatalf("unexpected booking after reschedule: %+v", again)
	}
}

func TestBookingRepoAdminListAndStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := newUser(t, NewUserRepo(db), "e@x.com")
	sky := testutil.SeedProperty(t, db, "skyline")
	lake := testutil.SeedProperty(t, db, "lakeside")
	r := NewBookingRepo(db)

	b1 := &domain.Booking{UserID: u.ID, PropertyID: sky.ID, Date: "28-02-2026", Time: "10:00 AM", Status: domain.BookingUpcoming}
	b2 := &domain.Booking{UserID: u.ID, PropertyID: lake.ID, Date: "02-03-2026", Time: "01:00 PM", Status: domain.BookingUpcoming}
	for _, b := range []*domain.Booking{b1, b2} {
		if err := r.Create(ctx, b); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	got, err := r.SetStatus(ctx, b1.ID, domain.BookingCompleted)
	if err != nil || got == nil || got.Status != domain.BookingCompleted {
		t.Fatalf("set status: %+v %v", got, err)
	}
	if missing, err := r.SetStatus(ctx, 999, domain.BookingCancelled); err != nil || missing != nil {
		t.Fatalf("missing booking: %+v %v", missing, err)
	}

	done, err := r.List(ctx, BookingFilter{Status: "completed"})
	if err != nil || len(done) != 1 || done[0].ID != b1.ID {
		t.Fatalf("status filter: %+v %v", done, err)
	}
	lakes, err := r.List(ctx, BookingFilter{Q: "lake"})
	if err != nil || len(lakes) != 1 || lakes[0].ID != b2.ID {
		t.Fatalf("search filter: %+v %v", lakes, err)
	}
	if lakes[0].User == nil || lakes[0].User.Email != "e@x.com" {
		t.Fatalf("user not preloaded: %+v", lakes[0].User)
	}
}

func TestPropertyRepoDeleteCascadesBookings(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := newUser(t, NewUserRepo(db), "f@x.com")
	p := testutil.SeedProperty(t, db, "skyline")
	if err := NewBookingRepo(db).Create(ctx, &domain.Booking{UserID: u.ID, PropertyID: p.ID, Date: "d", Time: "t", Status: domain.BookingUpcoming}); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	r := NewPropertyRepo(db)

	deleted, err := r.Delete(ctx, p.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	var n int64
	db.Model(&domain.Booking{}).Count(&n)
	if n != 0 {
		t.Fatalf("bookings left: %d", n)
	}
	if deleted, err := r.Delete(ctx, p.ID); err != nil || deleted {
		t.Fatalf("second delete: %v %v", deleted, err)
	}
}
