package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// InventoryHandler serves the public browse views and the staff-only
// inventory management views.
type InventoryHandler struct {
	inventory ports.InventoryService
	logger    zerolog.Logger
}

func NewInventoryHandler(inventory ports.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, logger: logger}
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,alphanum"`
}

type vehicleForm struct {
	ID               int     `form:"inv_id"`
	ClassificationID int     `form:"classification_id" validate:"required"`
	Make             string  `form:"inv_make" validate:"required"`
	Model            string  `form:"inv_model" validate:"required"`
	Year             int     `form:"inv_year" validate:"required,gte=1900"`
	Description      string  `form:"inv_description" validate:"required"`
	Image            string  `form:"inv_image" validate:"required"`
	Thumbnail        string  `form:"inv_thumbnail" validate:"required"`
	Price            float64 `form:"inv_price" validate:"required,gte=0"`
	Miles            int     `form:"inv_miles" validate:"gte=0"`
	Color            string  `form:"inv_color" validate:"required"`
}

func (f *vehicleForm) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:               f.ID,
		ClassificationID: f.ClassificationID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.Price,
		Miles:            f.Miles,
		Color:            f.Color,
	}
}

// Home renders the landing page.
func (h *InventoryHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", pageData(c, h.inventory, "Home"))
}

// ByClassification renders the vehicle grid for one classification.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("classificationId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "classification not found")
	}

	vehicles, err := h.inventory.VehiclesByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}

	title := "Vehicles"
	if len(vehicles) > 0 && vehicles[0].ClassificationName != "" {
		title = vehicles[0].ClassificationName + " vehicles"
	}
	data := pageData(c, h.inventory, title)
	data["Vehicles"] = vehicles
	return c.Render(http.StatusOK, "classification.html", data)
}

// Detail renders a single vehicle page.
func (h *InventoryHandler) Detail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("inv_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	vehicle, err := h.inventory.VehicleByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := pageData(c, h.inventory, fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model))
	data["Vehicle"] = vehicle
	return c.Render(http.StatusOK, "vehicle.html", data)
}

// Management renders the staff inventory management view, optionally
// filtered to one classification.
func (h *InventoryHandler) Management(c echo.Context) error {
	data := pageData(c, h.inventory, "Inventory Management")
	data["SelectedClassification"] = 0
	data["Vehicles"] = []domain.Vehicle(nil)

	if raw := c.QueryParam("classification_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err == nil {
			vehicles, err := h.inventory.VehiclesByClassification(c.Request().Context(), id)
			if err != nil {
				return err
			}
			data["SelectedClassification"] = id
			data["Vehicles"] = vehicles
		}
	}
	return c.Render(http.StatusOK, "management.html", data)
}

// AddClassificationPage renders the add-classification form.
func (h *InventoryHandler) AddClassificationPage(c echo.Context) error {
	data := pageData(c, h.inventory, "Add Classification")
	data["Name"] = ""
	return c.Render(http.StatusOK, "add_classification.html", data)
}

// AddClassification processes the add-classification form.
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form classificationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		data := pageData(c, h.inventory, "Add Classification")
		data["Notice"] = err.Error()
		data["Name"] = form.Name
		return c.Render(http.StatusBadRequest, "add_classification.html", data)
	}

	created, err := h.inventory.AddClassification(c.Request().Context(), form.Name)
	if err != nil {
		if err == domain.ErrClassificationExists {
			data := pageData(c, h.inventory, "Add Classification")
			data["Notice"] = "That classification already exists."
			data["Name"] = form.Name
			return c.Render(http.StatusBadRequest, "add_classification.html", data)
		}
		return err
	}

	flash.Set(c, fmt.Sprintf("%s added successfully.", created.Name))
	return c.Redirect(http.StatusFound, "/inv/")
}

// AddVehiclePage renders the blank vehicle form.
func (h *InventoryHandler) AddVehiclePage(c echo.Context) error {
	data := pageData(c, h.inventory, "Add Vehicle")
	data["Vehicle"] = &domain.Vehicle{}
	data["Action"] = "/inv/add-inventory"
	data["Submit"] = "Add Vehicle"
	return c.Render(http.StatusOK, "vehicle_form.html", data)
}

// AddVehicle processes the add-vehicle form.
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		data := pageData(c, h.inventory, "Add Vehicle")
		data["Notice"] = err.Error()
		data["Vehicle"] = form.toDomain()
		data["Action"] = "/inv/add-inventory"
		data["Submit"] = "Add Vehicle"
		return c.Render(http.StatusBadRequest, "vehicle_form.html", data)
	}

	created, err := h.inventory.AddVehicle(c.Request().Context(), form.toDomain())
	if err != nil {
		return err
	}

	flash.Set(c, fmt.Sprintf("The %s %s was successfully added.", created.Make, created.Model))
	return c.Redirect(http.StatusFound, "/inv/")
}

// EditVehiclePage renders the vehicle form pre-filled for editing.
func (h *InventoryHandler) EditVehiclePage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("inv_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	vehicle, err := h.inventory.VehicleByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := pageData(c, h.inventory, fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model))
	data["Vehicle"] = vehicle
	data["Action"] = "/inv/update"
	data["Submit"] = "Update Vehicle"
	return c.Render(http.StatusOK, "vehicle_form.html", data)
}

// UpdateVehicle processes the edit form.
func (h *InventoryHandler) UpdateVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		data := pageData(c, h.inventory, "Edit Vehicle")
		data["Notice"] = err.Error()
		data["Vehicle"] = form.toDomain()
		data["Action"] = "/inv/update"
		data["Submit"] = "Update Vehicle"
		return c.Render(http.StatusBadRequest, "vehicle_form.html", data)
	}

	updated, err := h.inventory.UpdateVehicle(c.Request().Context(), form.toDomain())
	if err != nil {
		return err
	}

	flash.Set(c, fmt.Sprintf("The %s %s was successfully updated.", updated.Make, updated.Model))
	return c.Redirect(http.StatusFound, "/inv/")
}

// DeleteVehicle removes a vehicle and returns to management.
func (h *InventoryHandler) DeleteVehicle(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("inv_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	if err := h.inventory.DeleteVehicle(c.Request().Context(), id); err != nil {
		return err
	}

	flash.Set(c, "The vehicle was successfully deleted.")
	return c.Redirect(http.StatusFound, "/inv/")
}
