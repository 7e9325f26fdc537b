package handlers

import (
	"errors"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/router"
	"productapi/internal/services"
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Messages returned in validation failures.
const (
	MsgInvalidID           = "invalid id"
	MsgNameEmpty           = "product name must not be empty"
	MsgNameNotText         = "product name must be text"
	MsgNameTooLong         = "product name is too long"
	MsgPriceNotNumeric     = "invalid value"
	MsgPriceNotPositive    = "invalid price"
	MsgPriceEmpty          = "product price must not be empty"
	MsgAvailabilityInvalid = "invalid availability value"
)

// Response bodies with fixed content.
const (
	MsgNotFound = "not found"
	MsgDeleted  = "deleted"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

func idRules() []validation.Rule {
	return []validation.Rule{
		validation.IntegerParam("id", MsgInvalidID),
	}
}

func productBodyRules() []validation.Rule {
	return []validation.Rule{
		validation.Required(validation.LocationBody, "name", MsgNameEmpty),
		validation.Text("name", MsgNameNotText),
		validation.MaxLength("name", models.NameMaxLength, MsgNameTooLong),
		validation.Numeric("price", MsgPriceNotNumeric),
		validation.Positive("price", MsgPriceNotPositive),
		validation.Required(validation.LocationBody, "price", MsgPriceEmpty),
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(r *router.Router) {
	r.Handle(router.Route{Method: fiber.MethodGet, Path: "/products", Handler: h.HandleGetProducts})
	r.Handle(router.Route{Method: fiber.MethodGet, Path: "/products/:id", Rules: idRules(), Handler: h.HandleGetProductByID})
	r.Handle(router.Route{Method: fiber.MethodPost, Path: "/products", Body: true, Rules: productBodyRules(), Handler: h.HandleCreateProduct})
	r.Handle(router.Route{
		Method: fiber.MethodPut,
		Path:   "/products/:id",
		Body:   true,
		Rules: append(append(idRules(), productBodyRules()...),
			validation.Boolean("availability", MsgAvailabilityInvalid),
		),
		Handler: h.HandleUpdateProduct,
	})
	r.Handle(router.Route{Method: fiber.MethodPatch, Path: "/products/:id", Rules: idRules(), Handler: h.HandleToggleAvailability})
	r.Handle(router.Route{Method: fiber.MethodDelete, Path: "/products/:id", Rules: idRules(), Handler: h.HandleDeleteProduct})
}

// HandleGetProducts lists every product, highest ID first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx, _ *validation.Request) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx, req *validation.Request) error {
	product, err := h.service.GetProduct(c.UserContext(), req.PathInt("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct stores a new product. Availability starts out true.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx, req *validation.Request) error {
	product, err := h.service.CreateProduct(c.UserContext(), req.String("name"), req.Float("price"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct replaces name, price and availability of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx, req *validation.Request) error {
	product, err := h.service.UpdateProduct(c.UserContext(), req.PathInt("id"), models.ProductFields{
		Name:         req.String("name"),
		Price:        req.Float("price"),
		Availability: req.Bool("availability"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleToggleAvailability flips the availability of a product. It takes no
// body and is deliberately not idempotent.
func (h *ProductHandler) HandleToggleAvailability(c *fiber.Ctx, req *validation.Request) error {
	product, err := h.service.ToggleAvailability(c.UserContext(), req.PathInt("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct permanently removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx, req *validation.Request) error {
	if err := h.service.DeleteProduct(c.UserContext(), req.PathInt("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": MsgDeleted})
}

// respondError answers 404 for a missing product and hands any other error
// to the app error handler.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": MsgNotFound})
	}
	return err
}
