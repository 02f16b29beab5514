package entry

import (
	"errors"

	"github.com/geohndz/BibJournal/internal/gpx"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Entry
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.UserID, _ = c.Locals("user_id").(string)
		if req.RaceName == "" || req.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "race_name required")
		}
		created, err := svc.CreateEntry(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		entries, err := svc.ListEntries(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		e, err := svc.GetEntry(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "entry not found")
		}
		return c.JSON(e)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Entry
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		updated, err := svc.UpdateEntry(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.DeleteEntry(c.Context(), c.Params("id"), userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// The request body is the raw GPX file content. A parse failure is
	// reported to the caller but fails only this attach, never the entry.
	r.Post("/:id/route", authMiddleware, func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "gpx content required")
		}
		userID, _ := c.Locals("user_id").(string)
		route, err := svc.AttachRoute(c.Context(), c.Params("id"), userID, c.Body())
		if err != nil {
			var perr *gpx.ParseError
			if errors.As(err, &perr) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, perr.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(route)
	})

	r.Get("/:id/route", func(c *fiber.Ctx) error {
		route, err := svc.Route(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNoRoute) {
				return fiber.NewError(fiber.StatusNotFound, ErrNoRoute.Error())
			}
			return fiber.NewError(fiber.StatusNotFound, "entry not found")
		}
		return c.JSON(route)
	})

	r.Post("/:id/photos", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Kind    string `json:"kind"`
			URL     string `json:"url"`
			Caption string `json:"caption"`
		}
		if err := c.BodyParser(&body); err != nil || body.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "kind and url required")
		}
		photo, err := svc.AddPhoto(c.Context(), c.Params("id"), body.Kind, body.URL, body.Caption)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(photo)
	})

	r.Get("/:id/photos", func(c *fiber.Ctx) error {
		photos, err := svc.Photos(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(photos)
	})
}
