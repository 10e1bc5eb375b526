package handler

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate3d/internal/repo"
	"realestate3d/internal/service"
	httpez "realestate3d/internal/transport/http/ez"
	resp "realestate3d/internal/transport/http/response"
)

// AdminHandler 管理端：房源上下架、预约状态、用户列表
type AdminHandler struct {
	users    *service.Identity
	catalog  *service.Catalog
	bookings *service.Bookings
	log      *zap.Logger
}

func NewAdminHandler(users *service.Identity, catalog *service.Catalog, bookings *service.Bookings, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, catalog: catalog, bookings: bookings, log: log}
}

type searchQ struct {
	Q string `form:"q"`
}

type newPropertyIn struct {
	Name         string                `form:"name"`
	Location     string                `form:"location"`
	Price        string                `form:"price"`
	Description  string                `form:"description"`
	Bedrooms     int                   `form:"bedrooms"`
	Bathrooms    int                   `form:"bathrooms"`
	Area         string                `form:"area"`
	Image        *multipart.FileHeader `form:"image"`
	ThreeDFile   *multipart.FileHeader `form:"three_d_file"`
	InteriorFile *multipart.FileHeader `form:"interior_file"`
}

type bookingQ struct {
	Status string `form:"status"`
	Date   string `form:"date"`
	Q      string `form:"q"`
}

type statusIn struct {
	Status string `json:"status" form:"status" binding:"required"`
}

func (in *statusIn) Validate() error { return required(in.Status) }

type userQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/username 模糊搜
}

type userRow struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

type userPage struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin, h.log, MapError)

	// --- 房源 ---
	httpez.RegisterAction(ez, httpez.Action[searchQ, []service.PropertyView]{
		Method: http.MethodGet,
		Path:   "/properties",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) ([]service.PropertyView, error) {
			return h.catalog.Search(c.Request.Context(), origin(c), in.Q)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[newPropertyIn, service.PropertyView]{
		Method: http.MethodPost,
		Path:   "/properties",
		Binder: httpez.BindBody,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *newPropertyIn) (service.PropertyView, error) {
			np := service.NewProperty{
				Name: in.Name, Location: in.Location, Price: in.Price, Description: in.Description,
				Bedrooms: in.Bedrooms, Bathrooms: in.Bathrooms, Area: in.Area,
			}
			for _, f := range []struct {
				fh  *multipart.FileHeader
				dst **service.Upload
			}{
				{in.Image, &np.Image}, {in.ThreeDFile, &np.ThreeDFile}, {in.InteriorFile, &np.InteriorFile},
			} {
				up, closeFn, err := openUpload(f.fh)
				if err != nil {
					return service.PropertyView{}, err
				}
				defer closeFn()
				*f.dst = up
			}
			return h.catalog.CreateProperty(c.Request.Context(), origin(c), np)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/properties/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, ok := parseID(c.Param("id"))
			if !ok {
				return resp.Message{}, httpez.NotFound("Property not found")
			}
			if err := h.catalog.DeleteProperty(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Property deleted"}, nil
		},
	})

	// --- 预约 ---
	httpez.RegisterAction(ez, httpez.Action[bookingQ, []service.BookingView]{
		Method: http.MethodGet,
		Path:   "/bookings",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *bookingQ) ([]service.BookingView, error) {
			return h.bookings.AdminList(c.Request.Context(), origin(c), repo.BookingFilter{Status: in.Status, Date: in.Date, Q: in.Q})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[statusIn, service.BookingView]{
		Method:  http.MethodPut,
		Path:    "/bookings/:id/status",
		Binder:  httpez.BindBody,
		Missing: "status is required",
		Handler: func(c *gin.Context, in *statusIn) (service.BookingView, error) {
			id, ok := parseID(c.Param("id"))
			if !ok {
				return service.BookingView{}, httpez.NotFound("Booking not found")
			}
			return h.bookings.SetStatus(c.Request.Context(), origin(c), id, in.Status)
		},
	})

	// --- 用户 ---
	httpez.RegisterAction(ez, httpez.Action[userQ, userPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *userQ) (userPage, error) {
			page, err := h.users.ListUsers(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return userPage{}, err
			}
			out := userPage{Total: page.Total, Items: make([]userRow, 0, len(page.Items))}
			for _, u := range page.Items {
				out.Items = append(out.Items, userRow{
					ID: u.ID, Username: u.Username, Email: u.Email,
					IsActive: u.IsActive, IsStaff: u.IsStaff, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})
}
