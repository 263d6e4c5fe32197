package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
	"github.com/Skotchmaster/car_rental/internal/storage"
	"github.com/Skotchmaster/car_rental/internal/util"
	"github.com/Skotchmaster/car_rental/internal/views"
)

const dateLayout = "2006-01-02"

type CarHTTP struct {
	Svc    *service.CarService
	Images *storage.ImageStore
}

type carForm struct {
	CarModel       string `form:"car_model" validate:"required,max=255"`
	CarType        string `form:"car_type" validate:"max=255"`
	RentalRate     string `form:"rental_rate" validate:"omitempty,numeric"`
	RentalTerm     string `form:"rental_term" validate:"max=255"`
	Availability   string `form:"availability"`
	AvailableFrom  string `form:"available_from" validate:"omitempty,datetime=2006-01-02"`
	AvailableTo    string `form:"available_to" validate:"omitempty,datetime=2006-01-02"`
	PickupLocation string `form:"pickup_location" validate:"max=255"`
	CurrentImage   string `form:"currentImage"`
}

func (f *carForm) car() *models.Car {
	rate, _ := strconv.ParseFloat(f.RentalRate, 64)
	return &models.Car{
		CarModel:       strings.TrimSpace(f.CarModel),
		CarType:        strings.TrimSpace(f.CarType),
		RentalRate:     rate,
		RentalTerm:     strings.TrimSpace(f.RentalTerm),
		Availability:   parseBool(f.Availability),
		AvailableFrom:  parseDate(f.AvailableFrom),
		AvailableTo:    parseDate(f.AvailableTo),
		PickupLocation: strings.TrimSpace(f.PickupLocation),
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

func parseDate(s string) *time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *CarHTTP) List(c echo.Context) error {
	page, size := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))
	res, err := h.Svc.List(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return render(c, "cars", "Cars", map[string]any{
		"Cars":        res.Cars,
		"IsAdminPage": session.FromContext(c).IsAdmin(),
		"Pager":       views.NewPager(res.Page, res.Size, res.Total),
	})
}

func (h *CarHTTP) Detail(c echo.Context) error {
	car, err := h.lookup(c)
	if err != nil {
		return err
	}
	return render(c, "carDetail", car.CarModel, map[string]any{"Car": car})
}

func (h *CarHTTP) AddPage(c echo.Context) error {
	return render(c, "add-car", "Add car", map[string]any{"Car": &models.Car{Availability: true}})
}

func (h *CarHTTP) Add(c echo.Context) error {
	form, ok, err := h.bindCar(c, "/add-car")
	if !ok {
		return err
	}
	car := form.car()

	image, err := h.saveImage(c)
	if errors.Is(err, storage.ErrNotImage) {
		return flashRedirect(c, session.FlashError, MsgNotAnImage, "/add-car")
	}
	if err != nil {
		return err
	}
	car.Image = image

	if err := h.Svc.Create(c.Request().Context(), car); err != nil {
		h.discardImage(c, image)
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgCarAdded, "/cars")
}

func (h *CarHTTP) EditPage(c echo.Context) error {
	car, err := h.lookup(c)
	if err != nil {
		return err
	}
	return render(c, "updateCars", "Update car", map[string]any{"Car": car})
}

func (h *CarHTTP) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return service.ErrCarNotFound
	}
	back := "/updateCars/" + c.Param("id")

	form, ok, err := h.bindCar(c, back)
	if !ok {
		return err
	}
	car := form.car()
	car.ID = id

	image, err := h.saveImage(c)
	if errors.Is(err, storage.ErrNotImage) {
		return flashRedirect(c, session.FlashError, MsgNotAnImage, back)
	}
	if err != nil {
		return err
	}
	car.Image = image
	if image == "" {
		car.Image = form.CurrentImage
	}

	if err := h.Svc.Update(c.Request().Context(), car); err != nil {
		h.discardImage(c, image)
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgCarUpdated, "/cars")
}

func (h *CarHTTP) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashError, MsgCarNotFound, "/cars")
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			return flashRedirect(c, session.FlashError, MsgCarNotFound, "/cars")
		}
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgCarDeleted, "/cars")
}

// Search renders available cars whose model or type contains q. An empty
// query goes back to the full list.
func (h *CarHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return redirect(c, "/cars")
	}
	cars, err := h.Svc.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return render(c, "browseCars", "Search", map[string]any{"Cars": cars, "SearchTerm": q})
}

func (h *CarHTTP) Book(c echo.Context) error {
	car, err := h.lookup(c)
	if errors.Is(err, service.ErrCarNotFound) {
		return flashRedirect(c, session.FlashError, MsgCarNotFound, "/cars")
	}
	if err != nil {
		return err
	}
	return render(c, "bookCar", "Book "+car.CarModel, map[string]any{"Car": car})
}

func (h *CarHTTP) lookup(c echo.Context) (*models.Car, error) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return nil, service.ErrCarNotFound
	}
	return h.Svc.Get(c.Request().Context(), id)
}

// bindCar binds and validates the car form. When ok is false the response
// has already been decided and err is what the handler should return.
func (h *CarHTTP) bindCar(c echo.Context, back string) (form carForm, ok bool, err error) {
	l := logging.With(c.Request().Context(), "handler", "car_form")
	if err := c.Bind(&form); err != nil {
		l.Warn().Int("status", http.StatusBadRequest).Err(err).Msg("car_form_invalid")
		return form, false, flashRedirect(c, session.FlashError, "Invalid form", back)
	}
	if err := c.Validate(&form); err != nil {
		l.Warn().Int("status", http.StatusUnprocessableEntity).Err(err).Msg("car_form_invalid")
		return form, false, flashRedirect(c, session.FlashError, validationMessage(err), back)
	}
	return form, true, nil
}

// saveImage stores the optional "image" upload and returns its file name, or
// "" when nothing was uploaded.
func (h *CarHTTP) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return "", nil
	}
	return h.Images.Save(fh)
}

// discardImage removes an upload whose car was never written.
func (h *CarHTTP) discardImage(c echo.Context, name string) {
	if err := h.Images.Remove(name); err != nil {
		logging.With(c.Request().Context(), "handler", "car_form").Warn().
			Err(err).Str("image", name).Msg("orphan_image_remove_failed")
	}
}
