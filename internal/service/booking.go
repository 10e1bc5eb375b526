package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"realestate3d/internal/core/storage"
	"realestate3d/internal/domain"
	"realestate3d/internal/repo"
)

type Bookings struct {
	users    UserStore
	props    PropertyStore
	bookings BookingStore
	res      resolver
	log      *zap.Logger
}

func NewBookings(users UserStore, props PropertyStore, bookings BookingStore, assets storage.AssetStore, log *zap.Logger) *Bookings {
	return &Bookings{users: users, props: props, bookings: bookings, res: resolver{assets: assets}, log: log}
}

// ListBookings 最新的在前，附带房源详情
func (s *Bookings) ListBookings(ctx context.Context, origin, email string) ([]BookingView, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return nil, err
	}
	bs, err := s.bookings.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.res.bookings(ctx, origin, bs)
}

// CreateBooking 状态固定为 upcoming
func (s *Bookings) CreateBooking(ctx context.Context, origin, email string, propertyID uint, date, at string) (BookingView, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return BookingView{}, err
	}
	p, err := s.props.FindByID(ctx, propertyID)
	if err != nil {
		return BookingView{}, fmt.Errorf("find property: %w", err)
	}
	if p == nil {
		return BookingView{}, errPropertyNotFound
	}

	b := domain.Booking{
		UserID:     u.ID,
		PropertyID: p.ID,
		Date:       date,
		Time:       at,
		Status:     domain.BookingUpcoming,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return BookingView{}, fmt.Errorf("create booking: %w", err)
	}
	b.Property = p
	s.log.Info("booking created", zap.Uint("booking_id", b.ID), zap.Uint("user_id", u.ID), zap.Uint("property_id", p.ID))
	return s.res.booking(ctx, origin, b)
}

// RescheduleBooking 只改 date/time；不属于该用户的预约视为不存在
func (s *Bookings) RescheduleBooking(ctx context.Context, origin string, bookingID uint, email, date, at string) (BookingView, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return BookingView{}, err
	}
	b, err := s.bookings.FindOwned(ctx, bookingID, u.ID)
	if err != nil {
		return BookingView{}, fmt.Errorf("find booking: %w", err)
	}
	if b == nil {
		return BookingView{}, errBookingNotOwned
	}
	if err := s.bookings.Reschedule(ctx, b, date, at); err != nil {
		return BookingView{}, fmt.Errorf("reschedule booking: %w", err)
	}
	return s.res.booking(ctx, origin, *b)
}

func (s *Bookings) AdminList(ctx context.Context, origin string, f repo.BookingFilter) ([]BookingView, error) {
	f.Status = strings.TrimSpace(f.Status)
	if f.Status != "" && !domain.BookingStatus(f.Status).Valid() {
		return nil, invalid("Unknown status " + f.Status)
	}
	f.Q = strings.TrimSpace(f.Q)
	bs, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.res.bookings(ctx, origin, bs)
}

// SetStatus 后台改状态，是进入 completed/cancelled 的唯一入口
func (s *Bookings) SetStatus(ctx context.Context, origin string, id uint, status string) (BookingView, error) {
	st := domain.BookingStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return BookingView{}, invalid("status must be one of upcoming, completed, cancelled")
	}
	b, err := s.bookings.SetStatus(ctx, id, st)
	if err != nil {
		return BookingView{}, fmt.Errorf("set booking status: %w", err)
	}
	if b == nil {
		return BookingView{}, errBookingNotFound
	}
	s.log.Info("booking status changed", zap.Uint("booking_id", id), zap.String("status", string(st)))
	return s.res.booking(ctx, origin, *b)
}
