package service

import (
	"context"
	"fmt"
	"time"

	"realestate3d/internal/core/storage"
	"realestate3d/internal/domain"
)

type ProfileView struct {
	ContactNumber string  `json:"contact_number"`
	ProfilePic    *string `json:"profile_pic"`
}

type AccountView struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Profile  ProfileView `json:"profile"`
}

type PropertyView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	Price        string  `json:"price"`
	Image        string  `json:"image"`
	ThreeDFile   *string `json:"three_d_file"`
	InteriorFile *string `json:"interior_file"`
	Description  string  `json:"description"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Area         string  `json:"area"`
}

type BookingView struct {
	ID              uint                 `json:"id"`
	User            uint                 `json:"user"`
	Username        string               `json:"username,omitempty"`
	Property        uint                 `json:"property"`
	PropertyDetails *PropertyView        `json:"property_details"`
	Date            string               `json:"date"`
	Time            string               `json:"time"`
	Status          domain.BookingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

// resolver 把资源 key 转成绝对 URL
type resolver struct {
	assets storage.AssetStore
}

func (r resolver) optional(ctx context.Context, origin string, key *string) (*string, error) {
	if key == nil || *key == "" {
		return nil, nil
	}
	u, err := r.assets.URL(ctx, origin, *key)
	if err != nil {
		return nil, fmt.Errorf("resolve asset %s: %w", *key, err)
	}
	return &u, nil
}

func (r resolver) property(ctx context.Context, origin string, p domain.Property) (PropertyView, error) {
	v := PropertyView{
		ID:          p.ID,
		Name:        p.Name,
		Location:    p.Location,
		Price:       p.Price,
		Description: p.Description,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
	}
	img, err := r.optional(ctx, origin, &p.Image)
	if err != nil {
		return PropertyView{}, err
	}
	if img != nil {
		v.Image = *img
	}
	if v.ThreeDFile, err = r.optional(ctx, origin, p.ThreeDFile); err != nil {
		return PropertyView{}, err
	}
	if v.InteriorFile, err = r.optional(ctx, origin, p.InteriorFile); err != nil {
		return PropertyView{}, err
	}
	return v, nil
}

func (r resolver) account(ctx context.Context, origin string, u domain.User, p *domain.UserProfile) (AccountView, error) {
	v := AccountView{ID: u.ID, Username: u.Username, Email: u.Email}
	if p == nil {
		return v, nil
	}
	if p.ContactNumber != nil {
		v.Profile.ContactNumber = *p.ContactNumber
	}
	pic, err := r.optional(ctx, origin, p.ProfilePic)
	if err != nil {
		return AccountView{}, err
	}
	v.Profile.ProfilePic = pic
	return v, nil
}

func (r resolver) booking(ctx context.Context, origin string, b domain.Booking) (BookingView, error) {
	v := BookingView{
		ID:        b.ID,
		User:      b.UserID,
		Property:  b.PropertyID,
		Date:      b.Date,
		Time:      b.Time,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
	if b.User != nil {
		v.Username = b.User.Username
	}
	if b.Property != nil {
		pv, err := r.property(ctx, origin, *b.Property)
		if err != nil {
			return BookingView{}, err
		}
		v.PropertyDetails = &pv
	}
	return v, nil
}

func (r resolver) bookings(ctx context.Context, origin string, bs []domain.Booking) ([]BookingView, error) {
	out := make([]BookingView, 0, len(bs))
	for _, b := range bs {
		v, err := r.booking(ctx, origin, b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
